package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scadamcp/internal/config"
	"scadamcp/internal/mcp"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Start the SCADA-LTS MCP server in stdio mode",
	Long: `Start the SCADA-LTS MCP server using stdio transport for direct communication.
This is the mode MCP hosts such as desktop AI assistants use: the host spawns
the process and exchanges protocol messages over stdin/stdout.

All tools, prompts, and resources available in HTTP mode are available here.`,
	RunE: runStdioServer,
}

func runStdioServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mcpServer := mcp.NewServer(cfg)

	// Startup messages go to stderr so they don't interfere with the
	// stdio protocol
	fmt.Fprintf(os.Stderr, "SCADA-LTS MCP Server starting in stdio mode\n")
	if cfg.Scada.BaseURL != "" {
		fmt.Fprintf(os.Stderr, "SCADA-LTS instance: %s\n", cfg.Scada.BaseURL)
	} else {
		fmt.Fprintf(os.Stderr, "No SCADA-LTS connection configured; use the configure_connection tool\n")
	}
	fmt.Fprintf(os.Stderr, "Ready for MCP communication via stdin/stdout\n")

	if err := mcpServer.StartStdio(context.Background()); err != nil {
		return fmt.Errorf("failed to start MCP stdio server: %w", err)
	}

	return nil
}
