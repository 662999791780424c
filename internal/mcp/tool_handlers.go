package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scadamcp/internal/scadalts"
)

func (s *Server) setupTools() {
	getDataSourcesTool := mcp.NewTool("get_data_sources",
		mcp.WithDescription("Get all data sources from SCADA-LTS system"),
	)
	s.mcpServer.AddTool(getDataSourcesTool, s.CallTool)

	getDataPointsTool := mcp.NewTool("get_data_points",
		mcp.WithDescription("Get data points from SCADA-LTS system, optionally filtered by data source ID"),
		mcp.WithNumber("data_source_id",
			mcp.Description("Optional data source ID to filter data points"),
		),
	)
	s.mcpServer.AddTool(getDataPointsTool, s.CallTool)

	getPointValueTool := mcp.NewTool("get_point_value",
		mcp.WithDescription("Get current value of a specific data point"),
		mcp.WithNumber("point_id",
			mcp.Required(),
			mcp.Description("ID of the data point to read"),
		),
	)
	s.mcpServer.AddTool(getPointValueTool, s.CallTool)

	// The value argument is intentionally untyped: SCADA points take
	// numbers, booleans, or strings depending on the point type. The
	// option builders force a type, so this tool carries a raw schema.
	setPointValueTool := mcp.NewToolWithRawSchema("set_point_value",
		"Set value of a settable data point",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"point_id": {
					"type": "integer",
					"description": "ID of the data point to write to"
				},
				"value": {
					"description": "Value to write (number, boolean, or string)"
				}
			},
			"required": ["point_id", "value"]
		}`),
	)
	s.mcpServer.AddTool(setPointValueTool, s.CallTool)

	getAlarmsTool := mcp.NewTool("get_alarms",
		mcp.WithDescription("Get system alarms"),
		mcp.WithBoolean("active_only",
			mcp.Description("Whether to return only active alarms (default: true)"),
			mcp.DefaultBool(true),
		),
	)
	s.mcpServer.AddTool(getAlarmsTool, s.CallTool)

	acknowledgeAlarmTool := mcp.NewTool("acknowledge_alarm",
		mcp.WithDescription("Acknowledge an alarm"),
		mcp.WithNumber("alarm_id",
			mcp.Required(),
			mcp.Description("ID of the alarm to acknowledge"),
		),
	)
	s.mcpServer.AddTool(acknowledgeAlarmTool, s.CallTool)

	getSystemStatusTool := mcp.NewTool("get_system_status",
		mcp.WithDescription("Get SCADA-LTS system status information"),
	)
	s.mcpServer.AddTool(getSystemStatusTool, s.CallTool)

	configureConnectionTool := mcp.NewTool("configure_connection",
		mcp.WithDescription("Configure connection to SCADA-LTS system"),
		mcp.WithString("base_url",
			mcp.Required(),
			mcp.Description("Base URL of SCADA-LTS system (e.g., http://localhost:8080/Scada-LTS)"),
		),
		mcp.WithString("username",
			mcp.Description("Username for authentication (optional)"),
		),
		mcp.WithString("password",
			mcp.Description("Password for authentication (optional)"),
		),
	)
	s.mcpServer.AddTool(configureConnectionTool, s.CallTool)
}

// prettyJSON renders a value the way the tool results present data to the
// model: two-space indented JSON.
func prettyJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

func (s *Server) handleConfigureConnection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	baseURL, err := request.RequireString("base_url")
	if err != nil {
		return nil, err
	}
	username := request.GetString("username", "")
	password := request.GetString("password", "")

	client := scadalts.NewClient(baseURL, username, password)
	authSuccess := client.Authenticate(ctx)
	s.setClient(client)

	authText := "failed or guest mode"
	if authSuccess {
		authText = "successful"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Connection configured for %s. Authentication: %s", baseURL, authText)), nil
}

func (s *Server) handleGetDataSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataSources := s.getClient().GetDataSources(ctx)

	jsonData, err := prettyJSON(dataSources)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d data sources:\n%s", len(dataSources), jsonData)), nil
}

func (s *Server) handleGetDataPoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataSourceID := int64(request.GetInt("data_source_id", 0))

	var filter *int64
	filterText := ""
	if dataSourceID != 0 {
		filter = &dataSourceID
		filterText = fmt.Sprintf(" for data source %d", dataSourceID)
	}

	dataPoints := s.getClient().GetDataPoints(ctx, filter)

	jsonData, err := prettyJSON(dataPoints)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d data points%s:\n%s", len(dataPoints), filterText, jsonData)), nil
}

func (s *Server) handleGetPointValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pointID, err := request.RequireInt("point_id")
	if err != nil {
		return nil, err
	}

	value := s.getClient().GetPointValue(ctx, int64(pointID))
	if value == nil {
		return mcp.NewToolResultText(fmt.Sprintf("Could not retrieve value for point %d", pointID)), nil
	}

	jsonData, err := prettyJSON(value)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Point %d value:\n%s", pointID, jsonData)), nil
}

func (s *Server) handleSetPointValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pointID, err := request.RequireInt("point_id")
	if err != nil {
		return nil, err
	}
	value, ok := request.GetArguments()["value"]
	if !ok {
		return nil, fmt.Errorf("required argument \"value\" not found")
	}

	success := s.getClient().SetPointValue(ctx, int64(pointID), value)

	resultText := "failed"
	if success {
		resultText = "successful"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Setting point %d to %v: %s", pointID, value, resultText)), nil
}

func (s *Server) handleGetAlarms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activeOnly := request.GetBool("active_only", true)

	alarms := s.getClient().GetAlarms(ctx, activeOnly)

	alarmType := "all"
	if activeOnly {
		alarmType = "active"
	}
	jsonData, err := prettyJSON(alarms)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d %s alarms:\n%s", len(alarms), alarmType, jsonData)), nil
}

func (s *Server) handleAcknowledgeAlarm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alarmID, err := request.RequireInt("alarm_id")
	if err != nil {
		return nil, err
	}

	success := s.getClient().AcknowledgeAlarm(ctx, int64(alarmID))

	resultText := "failed"
	if success {
		resultText = "successful"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Acknowledging alarm %d: %s", alarmID, resultText)), nil
}

func (s *Server) handleGetSystemStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.getClient().GetSystemStatus(ctx)

	jsonData, err := prettyJSON(status)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("System status:\n%s", jsonData)), nil
}
