package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"scadamcp/internal/scadalts"
)

func (s *Server) setupPrompts() {
	systemOverviewPrompt := mcp.NewPrompt("scada_system_overview",
		mcp.WithPromptDescription("Get a comprehensive overview of the SCADA-LTS system"),
		mcp.WithArgument("include_alarms", mcp.ArgumentDescription("Whether to include alarm information")),
	)
	s.mcpServer.AddPrompt(systemOverviewPrompt, s.GetPrompt)

	dataPointAnalysisPrompt := mcp.NewPrompt("data_point_analysis",
		mcp.WithPromptDescription("Analyze data points for a specific data source"),
		mcp.WithArgument("data_source_id", mcp.ArgumentDescription("ID of the data source to analyze"), mcp.RequiredArgument()),
	)
	s.mcpServer.AddPrompt(dataPointAnalysisPrompt, s.GetPrompt)
}

// GetPrompt dispatches a prompt request by name. The unconfigured state and
// unknown names come back as regular prompt results so the model sees
// actionable text instead of a protocol error.
func (s *Server) GetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name

	client := s.getClient()
	if client == nil {
		return newPromptResult(
			"SCADA-LTS client not configured",
			"Please configure SCADA-LTS connection first using the configure_connection tool.",
		), nil
	}

	switch name {
	case "scada_system_overview":
		return s.systemOverviewPrompt(ctx, client, request.Params.Arguments)
	case "data_point_analysis":
		return s.dataPointAnalysisPrompt(ctx, client, request.Params.Arguments)
	default:
		return newPromptResult("Unknown prompt", fmt.Sprintf("Unknown prompt: %s", name)), nil
	}
}

func (s *Server) systemOverviewPrompt(ctx context.Context, client *scadalts.Client, args map[string]string) (*mcp.GetPromptResult, error) {
	includeAlarms := strings.EqualFold(args["include_alarms"], "true")

	dataSources := client.GetDataSources(ctx)
	dataPoints := client.GetDataPoints(ctx, nil)
	systemStatus := client.GetSystemStatus(ctx)

	statusJSON, err := prettyJSON(systemStatus)
	if err != nil {
		return nil, err
	}
	sourcesJSON, err := prettyJSON(dataSources)
	if err != nil {
		return nil, err
	}
	pointsJSON, err := prettyJSON(dataPoints)
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf(`# SCADA-LTS System Overview

## System Status
%s

## Data Sources (%d total)
%s

## Data Points (%d total)
%s
`, statusJSON, len(dataSources), sourcesJSON, len(dataPoints), pointsJSON)

	if includeAlarms {
		alarms := client.GetAlarms(ctx, true)
		alarmsJSON, err := prettyJSON(alarms)
		if err != nil {
			return nil, err
		}
		content += fmt.Sprintf(`
## Active Alarms (%d total)
%s
`, len(alarms), alarmsJSON)
	}

	return newPromptResult("SCADA-LTS system overview", content), nil
}

func (s *Server) dataPointAnalysisPrompt(ctx context.Context, client *scadalts.Client, args map[string]string) (*mcp.GetPromptResult, error) {
	dataSourceID, err := strconv.ParseInt(args["data_source_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid data_source_id: %w", err)
	}

	dataSources := client.GetDataSources(ctx)
	var targetDS map[string]interface{}
	for _, ds := range dataSources {
		if id, ok := asInt64(ds["id"]); ok && id == dataSourceID {
			targetDS = ds
			break
		}
	}

	if targetDS == nil {
		return newPromptResult(
			"Data source not found",
			fmt.Sprintf("Data source with ID %d not found.", dataSourceID),
		), nil
	}

	dataPoints := client.GetDataPoints(ctx, &dataSourceID)

	// One sequential fetch per point; keys stringified to match JSON
	// object semantics.
	pointValues := make(map[string]interface{})
	for _, dp := range dataPoints {
		if pointID, ok := asInt64(dp["id"]); ok && pointID != 0 {
			pointValues[strconv.FormatInt(pointID, 10)] = client.GetPointValue(ctx, pointID)
		}
	}

	name := "Unknown"
	if n, ok := targetDS["name"].(string); ok {
		name = n
	}

	dsJSON, err := prettyJSON(targetDS)
	if err != nil {
		return nil, err
	}
	pointsJSON, err := prettyJSON(dataPoints)
	if err != nil {
		return nil, err
	}
	valuesJSON, err := prettyJSON(pointValues)
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf(`# Data Source Analysis: %s

## Data Source Details
%s

## Data Points (%d total)
%s

## Current Values
%s
`, name, dsJSON, len(dataPoints), pointsJSON, valuesJSON)

	return newPromptResult(fmt.Sprintf("Analysis of data source %d", dataSourceID), content), nil
}

func newPromptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		{
			Role: mcp.RoleUser,
			Content: mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	})
}

// asInt64 converts the numeric types JSON decoding can produce.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
