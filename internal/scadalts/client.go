package scadalts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scadamcp/internal/logging"
)

// Client is a thin HTTP client for the SCADA-LTS REST API.
//
// Every method swallows transport and HTTP-status failures: callers get an
// empty or false sentinel and the failure goes to the log. The MCP layer
// renders sentinels as text, so an unreachable SCADA instance degrades to
// "Found 0 ..." style answers instead of protocol errors.
type Client struct {
	baseURL    string
	username   string
	password   string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the SCADA-LTS instance at baseURL.
// Username and password may be empty for guest access.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the normalized base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases pooled connections. Called when the client is replaced
// through reconfiguration.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// do issues a request against baseURL+path with JSON headers and the
// session token when one is held. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// decodeList reads a JSON array of objects from the response body.
func decodeList(resp *http.Response) []map[string]interface{} {
	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		logging.Error("Failed to decode response from %s: %v", resp.Request.URL.Path, err)
		return []map[string]interface{}{}
	}
	return items
}

// Authenticate establishes a session with SCADA-LTS. With no credentials
// the client operates in guest mode and authentication trivially succeeds.
func (c *Client) Authenticate(ctx context.Context) bool {
	if c.username == "" || c.password == "" {
		logging.Debug("No credentials provided, using guest access for %s", c.baseURL)
		return true
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		logging.Error("Authentication error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Authentication failed with status %d", resp.StatusCode)
		return false
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logging.Error("Failed to decode authentication response: %v", err)
		return false
	}
	if token, ok := result["token"].(string); ok {
		c.token = token
	}
	return true
}

// GetDataSources lists all configured data sources.
func (c *Client) GetDataSources(ctx context.Context) []map[string]interface{} {
	resp, err := c.do(ctx, http.MethodGet, "/api/datasources", nil)
	if err != nil {
		logging.Error("Error getting data sources: %v", err)
		return []map[string]interface{}{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to get data sources: HTTP %d", resp.StatusCode)
		return []map[string]interface{}{}
	}
	return decodeList(resp)
}

// GetDataPoints lists data points, optionally filtered by data source.
func (c *Client) GetDataPoints(ctx context.Context, dataSourceID *int64) []map[string]interface{} {
	path := "/api/datapoints"
	if dataSourceID != nil {
		path = fmt.Sprintf("%s?dataSourceId=%d", path, *dataSourceID)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		logging.Error("Error getting data points: %v", err)
		return []map[string]interface{}{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to get data points: HTTP %d", resp.StatusCode)
		return []map[string]interface{}{}
	}
	return decodeList(resp)
}

// GetPointValue fetches the latest recorded value for a data point.
// Returns nil when the point is unknown or the instance is unreachable.
func (c *Client) GetPointValue(ctx context.Context, pointID int64) map[string]interface{} {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/point-values/%d/latest", pointID), nil)
	if err != nil {
		logging.Error("Error getting point value: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to get value for point %d: HTTP %d", pointID, resp.StatusCode)
		return nil
	}

	var value map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		logging.Error("Failed to decode value for point %d: %v", pointID, err)
		return nil
	}
	return value
}

// SetPointValue writes a value to a settable data point.
func (c *Client) SetPointValue(ctx context.Context, pointID int64, value interface{}) bool {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/point-values/%d/set", pointID), map[string]interface{}{
		"value": value,
	})
	if err != nil {
		logging.Error("Error setting point value: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to set value for point %d: HTTP %d", pointID, resp.StatusCode)
		return false
	}
	return true
}

// GetAlarms lists alarms, optionally restricted to active ones.
func (c *Client) GetAlarms(ctx context.Context, activeOnly bool) []map[string]interface{} {
	path := "/api/alarms"
	if activeOnly {
		path += "?active=true"
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		logging.Error("Error getting alarms: %v", err)
		return []map[string]interface{}{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to get alarms: HTTP %d", resp.StatusCode)
		return []map[string]interface{}{}
	}
	return decodeList(resp)
}

// AcknowledgeAlarm marks an alarm as acknowledged.
func (c *Client) AcknowledgeAlarm(ctx context.Context, alarmID int64) bool {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/alarms/%d/ack", alarmID), nil)
	if err != nil {
		logging.Error("Error acknowledging alarm: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to acknowledge alarm %d: HTTP %d", alarmID, resp.StatusCode)
		return false
	}
	return true
}

// GetSystemStatus fetches instance health information. Unlike the other
// capabilities this never returns an empty sentinel; failures are encoded
// into the returned map so status reports always have something to show.
func (c *Client) GetSystemStatus(ctx context.Context) map[string]interface{} {
	resp, err := c.do(ctx, http.MethodGet, "/api/system/status", nil)
	if err != nil {
		logging.Error("Error getting system status: %v", err)
		return map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("Failed to get system status: HTTP %d", resp.StatusCode)
		return map[string]interface{}{
			"status": "unknown",
			"error":  fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		logging.Error("Failed to decode system status: %v", err)
		return map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}
	return status
}
