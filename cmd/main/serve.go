package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scadamcp/internal/config"
	"scadamcp/internal/logging"
	"scadamcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SCADA-LTS MCP server over streamable HTTP",
	Long: `Start the SCADA-LTS MCP server using the streamable HTTP transport.
The MCP endpoint is served at /mcp on the configured port. Useful when the
MCP host connects over the network instead of spawning a stdio process.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mcpServer := mcp.NewServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpServer.Start(ctx, cfg.MCPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mcpServer.Shutdown(shutdownCtx)
}
