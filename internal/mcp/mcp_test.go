package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"scadamcp/internal/config"
	"scadamcp/internal/logging"
)

func init() {
	logging.Initialize(false)
}

// newScadaBackend wires a fake SCADA-LTS REST backend for server tests.
func newScadaBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds["username"] != "admin" || creds["password"] != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
	})

	mux.HandleFunc("/api/datasources", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "Modbus TCP", "enabled": true},
			{"id": 2, "name": "Virtual", "enabled": false},
		})
	})

	mux.HandleFunc("/api/datapoints", func(w http.ResponseWriter, r *http.Request) {
		points := []map[string]interface{}{
			{"id": 10, "name": "Temperature", "dataSourceId": 1},
			{"id": 11, "name": "Pressure", "dataSourceId": 1},
			{"id": 20, "name": "Setpoint", "dataSourceId": 2},
		}
		if r.URL.Query().Get("dataSourceId") == "1" {
			points = points[:2]
		}
		json.NewEncoder(w).Encode(points)
	})

	mux.HandleFunc("/api/point-values/10/latest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"value": 21.5})
	})
	mux.HandleFunc("/api/point-values/11/latest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"value": 3.2})
	})

	mux.HandleFunc("/api/point-values/10/set", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/api/alarms", func(w http.ResponseWriter, r *http.Request) {
		alarms := []map[string]interface{}{
			{"id": 100, "message": "High temperature", "active": true},
			{"id": 101, "message": "Cleared fault", "active": false},
		}
		if r.URL.Query().Get("active") == "true" {
			alarms = alarms[:1]
		}
		json.NewEncoder(w).Encode(alarms)
	})

	mux.HandleFunc("/api/alarms/100/ack", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/api/system/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "version": "2.7.8"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the single text content of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected a result with content")
	}
	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return textContent.Text
}

// newConfiguredServer returns a server already connected to the fake backend.
func newConfiguredServer(t *testing.T) *Server {
	t.Helper()

	backend := newScadaBackend(t)
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", map[string]interface{}{
		"base_url": backend.URL,
	}))
	if err != nil {
		t.Fatalf("configure_connection failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "Authentication: successful") {
		t.Fatalf("Unexpected configure result: %s", resultText(t, result))
	}
	return s
}

func TestCallToolUnconfigured(t *testing.T) {
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_data_sources", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	expected := "SCADA-LTS client not configured. Please use configure_connection tool first."
	if resultText(t, result) != expected {
		t.Errorf("Expected unconfigured advisory, got %q", resultText(t, result))
	}
}

func TestCallToolUnknownName(t *testing.T) {
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("restart_plant", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Unknown tool: restart_plant" {
		t.Errorf("Expected unknown-tool text, got %q", resultText(t, result))
	}
}

func TestConfigureConnectionGuestMode(t *testing.T) {
	backend := newScadaBackend(t)
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", map[string]interface{}{
		"base_url": backend.URL + "/",
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "Connection configured for "+backend.URL+"/") {
		t.Errorf("Unexpected configure text: %q", text)
	}
	if !strings.HasSuffix(text, "Authentication: successful") {
		t.Errorf("Expected guest-mode authentication to report successful, got %q", text)
	}
	if s.getClient() == nil {
		t.Error("Expected a client to be configured")
	}
}

func TestConfigureConnectionBadCredentials(t *testing.T) {
	backend := newScadaBackend(t)
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", map[string]interface{}{
		"base_url": backend.URL,
		"username": "admin",
		"password": "wrong",
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	if !strings.HasSuffix(resultText(t, result), "Authentication: failed or guest mode") {
		t.Errorf("Expected failed authentication wording, got %q", resultText(t, result))
	}
	if s.getClient() == nil {
		t.Error("Expected client to be kept even after failed authentication")
	}
}

func TestConfigureConnectionMissingBaseURL(t *testing.T) {
	s := NewServer(nil)

	result, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Error executing configure_connection:") {
		t.Errorf("Expected argument error text, got %q", resultText(t, result))
	}
}

func TestReconfigureReplacesClient(t *testing.T) {
	s := newConfiguredServer(t)
	first := s.getClient()

	other := newScadaBackend(t)
	_, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", map[string]interface{}{
		"base_url": other.URL,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	second := s.getClient()
	if second == first {
		t.Error("Expected reconfiguration to replace the client")
	}
	if second.BaseURL() != other.URL {
		t.Errorf("Expected new base URL %s, got %s", other.URL, second.BaseURL())
	}
}

func TestGetDataSourcesTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_data_sources", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "Found 2 data sources:\n") {
		t.Errorf("Unexpected result prefix: %q", text)
	}
	if !strings.Contains(text, "Modbus TCP") {
		t.Errorf("Expected data source names in result, got %q", text)
	}
}

func TestGetDataPointsTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_data_points", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 3 data points:\n") {
		t.Errorf("Unexpected unfiltered result: %q", resultText(t, result))
	}

	result, err = s.CallTool(context.Background(), newCallToolRequest("get_data_points", map[string]interface{}{
		"data_source_id": 1,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 2 data points for data source 1:\n") {
		t.Errorf("Unexpected filtered result: %q", resultText(t, result))
	}
}

func TestGetPointValueTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_point_value", map[string]interface{}{
		"point_id": 10,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Point 10 value:\n") {
		t.Errorf("Unexpected result: %q", text)
	}
	if !strings.Contains(text, "21.5") {
		t.Errorf("Expected value in result, got %q", text)
	}
}

func TestGetPointValueToolUnknownPoint(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_point_value", map[string]interface{}{
		"point_id": 999,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Could not retrieve value for point 999" {
		t.Errorf("Unexpected result: %q", resultText(t, result))
	}
}

func TestGetPointValueToolMissingArgument(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_point_value", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Error executing get_point_value:") {
		t.Errorf("Expected argument error text, got %q", resultText(t, result))
	}
}

func TestSetPointValueTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("set_point_value", map[string]interface{}{
		"point_id": 10,
		"value":    42.5,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Setting point 10 to 42.5: successful" {
		t.Errorf("Unexpected result: %q", resultText(t, result))
	}

	result, err = s.CallTool(context.Background(), newCallToolRequest("set_point_value", map[string]interface{}{
		"point_id": 999,
		"value":    true,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Setting point 999 to true: failed" {
		t.Errorf("Unexpected result: %q", resultText(t, result))
	}
}

func TestGetAlarmsTool(t *testing.T) {
	s := newConfiguredServer(t)

	// active_only defaults to true
	result, err := s.CallTool(context.Background(), newCallToolRequest("get_alarms", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 1 active alarms:\n") {
		t.Errorf("Unexpected default result: %q", resultText(t, result))
	}

	result, err = s.CallTool(context.Background(), newCallToolRequest("get_alarms", map[string]interface{}{
		"active_only": false,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 2 all alarms:\n") {
		t.Errorf("Unexpected all-alarms result: %q", resultText(t, result))
	}
}

func TestAcknowledgeAlarmTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("acknowledge_alarm", map[string]interface{}{
		"alarm_id": 100,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Acknowledging alarm 100: successful" {
		t.Errorf("Unexpected result: %q", resultText(t, result))
	}

	result, err = s.CallTool(context.Background(), newCallToolRequest("acknowledge_alarm", map[string]interface{}{
		"alarm_id": 999,
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if resultText(t, result) != "Acknowledging alarm 999: failed" {
		t.Errorf("Unexpected result: %q", resultText(t, result))
	}
}

func TestGetSystemStatusTool(t *testing.T) {
	s := newConfiguredServer(t)

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_system_status", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "System status:\n") {
		t.Errorf("Unexpected result: %q", text)
	}
	if !strings.Contains(text, `"status": "ok"`) {
		t.Errorf("Expected status in result, got %q", text)
	}
}

func TestToolResultsDegradeWhenInstanceUnreachable(t *testing.T) {
	s := NewServer(nil)
	_, err := s.CallTool(context.Background(), newCallToolRequest("configure_connection", map[string]interface{}{
		"base_url": "http://127.0.0.1:1",
	}))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_data_sources", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 0 data sources:\n") {
		t.Errorf("Expected empty sentinel rendering, got %q", resultText(t, result))
	}
}

func TestNewServerPreconfiguresFromConfig(t *testing.T) {
	backend := newScadaBackend(t)

	s := NewServer(&config.Config{
		MCPPort: 3000,
		Scada: config.ScadaConfig{
			BaseURL:  backend.URL + "/",
			Username: "admin",
			Password: "admin",
		},
	})

	client := s.getClient()
	if client == nil {
		t.Fatal("Expected client to be preconfigured from config")
	}
	if client.BaseURL() != backend.URL {
		t.Errorf("Expected normalized base URL %s, got %s", backend.URL, client.BaseURL())
	}

	result, err := s.CallTool(context.Background(), newCallToolRequest("get_data_sources", nil))
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if !strings.HasPrefix(resultText(t, result), "Found 2 data sources:\n") {
		t.Errorf("Expected preconfigured server to serve data, got %q", resultText(t, result))
	}
}

func TestExtractIDFromURI(t *testing.T) {
	s := NewServer(nil)

	id, err := s.extractIDFromURI("scada://datasources/42/points", `scada://datasources/(\d+)/points`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected 42, got %d", id)
	}

	if _, err := s.extractIDFromURI("scada://datasources", `scada://datasources/(\d+)/points`); err == nil {
		t.Error("Expected error for URI without ID")
	}
}
