package mcp

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scadamcp/internal/config"
	"scadamcp/internal/logging"
	"scadamcp/internal/scadalts"
	"scadamcp/internal/version"
)

// Server adapts a SCADA-LTS REST API into an MCP tool and prompt catalog.
// It owns a single mutable SCADA client which is replaced at runtime by the
// configure_connection tool.
type Server struct {
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer

	// clientMu guards client. The stdio transport serializes requests but
	// the streamable HTTP transport can serve concurrent sessions.
	clientMu sync.RWMutex
	client   *scadalts.Client

	toolHandlers map[string]toolHandlerFunc
}

type toolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// NewServer creates an MCP server with the full SCADA-LTS catalog
// registered. When cfg carries SCADA connection settings the client is
// configured up front; otherwise the server starts unconfigured and waits
// for a configure_connection call.
func NewServer(cfg *config.Config) *Server {
	mcpServer := server.NewMCPServer(
		"SCADA-LTS MCP Server",
		version.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	httpServer := server.NewStreamableHTTPServer(mcpServer)

	s := &Server{
		mcpServer:  mcpServer,
		httpServer: httpServer,
	}

	s.toolHandlers = map[string]toolHandlerFunc{
		"configure_connection": s.handleConfigureConnection,
		"get_data_sources":     s.handleGetDataSources,
		"get_data_points":      s.handleGetDataPoints,
		"get_point_value":      s.handleGetPointValue,
		"set_point_value":      s.handleSetPointValue,
		"get_alarms":           s.handleGetAlarms,
		"acknowledge_alarm":    s.handleAcknowledgeAlarm,
		"get_system_status":    s.handleGetSystemStatus,
	}

	s.setupTools()
	s.setupPrompts()
	s.setupResources()

	if cfg != nil && cfg.Scada.BaseURL != "" {
		client := scadalts.NewClient(cfg.Scada.BaseURL, cfg.Scada.Username, cfg.Scada.Password)
		if client.Authenticate(context.Background()) {
			logging.Info("Preconfigured SCADA-LTS connection to %s", client.BaseURL())
		} else {
			logging.Info("Preconfigured SCADA-LTS connection to %s (authentication failed)", client.BaseURL())
		}
		s.setClient(client)
	}

	return s
}

// getClient returns the current SCADA client, or nil when unconfigured.
func (s *Server) getClient() *scadalts.Client {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	return s.client
}

// setClient swaps in a new SCADA client, releasing the old one's pooled
// connections.
func (s *Server) setClient(client *scadalts.Client) {
	s.clientMu.Lock()
	old := s.client
	s.client = client
	s.clientMu.Unlock()

	if old != nil {
		old.Close()
	}
}

// CallTool dispatches a tool call by name. Every failure mode renders as a
// text result rather than a protocol error: unknown names, the unconfigured
// state, argument errors, and handler panics all come back as text.
func (s *Server) CallTool(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	name := request.Params.Name

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic executing tool %s: %v", name, r)
			result = mcp.NewToolResultText(fmt.Sprintf("Error executing %s: %v", name, r))
			err = nil
		}
	}()

	handler, ok := s.toolHandlers[name]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("Unknown tool: %s", name)), nil
	}

	if name != "configure_connection" && s.getClient() == nil {
		return mcp.NewToolResultText("SCADA-LTS client not configured. Please use configure_connection tool first."), nil
	}

	result, herr := handler(ctx, request)
	if herr != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error executing %s: %v", name, herr)), nil
	}
	return result, nil
}

// Start serves the MCP catalog over streamable HTTP.
func (s *Server) Start(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("Starting MCP server using streamable HTTP transport on %s", addr)
	logging.Info("MCP endpoint available at http://localhost:%d/mcp", port)

	if err := s.httpServer.Start(addr); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// StartStdio serves the MCP catalog over stdio. Blocks until the client
// disconnects.
func (s *Server) StartStdio(ctx context.Context) error {
	logging.Info("Starting MCP server using stdio transport")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP transport and releases the SCADA client.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("MCP server shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- s.httpServer.Shutdown(ctx)
	}()

	var err error
	select {
	case err = <-done:
		logging.Info("MCP server shutdown completed")
	case <-ctx.Done():
		logging.Info("MCP server shutdown timeout - forcing close")
		err = ctx.Err()
	}

	s.setClient(nil)
	return err
}

// extractIDFromURI pulls the first capture group of pattern out of uri as
// an int64.
func (s *Server) extractIDFromURI(uri, pattern string) (int64, error) {
	re := regexp.MustCompile(pattern)
	matches := re.FindStringSubmatch(uri)
	if len(matches) < 2 {
		return 0, fmt.Errorf("no ID found in URI: %s", uri)
	}

	id, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID format: %s", matches[1])
	}
	return id, nil
}
