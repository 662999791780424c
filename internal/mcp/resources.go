package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scadamcp/internal/logging"
)

func (s *Server) setupResources() {
	// Read-only data access via Resources, operations via Tools.
	s.setupStaticResources()
	s.setupResourceTemplates()

	logging.Debug("MCP resources setup complete")
}

func (s *Server) setupStaticResources() {
	dataSourcesResource := mcp.NewResource(
		"scada://datasources",
		"SCADA-LTS Data Sources",
		mcp.WithResourceDescription("List all configured data sources"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcpServer.AddResource(dataSourcesResource, s.handleDataSourcesResource)

	statusResource := mcp.NewResource(
		"scada://status",
		"SCADA-LTS System Status",
		mcp.WithResourceDescription("Health and version information for the connected instance"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcpServer.AddResource(statusResource, s.handleStatusResource)
}

func (s *Server) setupResourceTemplates() {
	dataPointsTemplate := mcp.NewResourceTemplate(
		"scada://datasources/{id}/points",
		"Data Source Points",
		mcp.WithTemplateDescription("List all data points belonging to a specific data source"),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.mcpServer.AddResourceTemplate(dataPointsTemplate, s.handleDataPointsResource)
}

func (s *Server) handleDataSourcesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("SCADA-LTS client not configured")
	}

	dataSources := client.GetDataSources(ctx)

	jsonData, err := prettyJSON(map[string]interface{}{
		"data_sources": dataSources,
		"total_count":  len(dataSources),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     jsonData,
		},
	}, nil
}

func (s *Server) handleStatusResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("SCADA-LTS client not configured")
	}

	jsonData, err := prettyJSON(client.GetSystemStatus(ctx))
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     jsonData,
		},
	}, nil
}

func (s *Server) handleDataPointsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("SCADA-LTS client not configured")
	}

	dataSourceID, err := s.extractIDFromURI(request.Params.URI, `scada://datasources/(\d+)/points`)
	if err != nil {
		return nil, err
	}

	dataPoints := client.GetDataPoints(ctx, &dataSourceID)

	jsonData, err := prettyJSON(map[string]interface{}{
		"data_source_id": dataSourceID,
		"data_points":    dataPoints,
		"total_count":    len(dataPoints),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     jsonData,
		},
	}, nil
}
