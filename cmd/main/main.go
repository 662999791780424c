package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scadamcp/internal/config"
	"scadamcp/internal/logging"
	"scadamcp/internal/version"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "scada-mcp",
		Short: "SCADA-LTS MCP Server - expose SCADA process data to AI assistants",
		Long: `scada-mcp adapts a SCADA-LTS REST API into a Model Context Protocol catalog.
It exposes data sources, data points, alarms, and system status as MCP tools,
prompts, and resources over stdio or streamable HTTP transports.`,
		Version: version.GetVersion(),
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/scada-mcp/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(bannerCmd)

	serveCmd.Flags().Int("mcp-port", 3000, "MCP server port")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("mcp_port", serveCmd.Flags().Lookup("mcp-port"))

	viper.SetDefault("mcp_port", 3000)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(getXDGConfigDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// SCADA_MCP_SCADA_BASE_URL maps onto scada.base_url
	viper.SetEnvPrefix("SCADA_MCP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		// Stdout belongs to the MCP protocol in stdio mode
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func initLogging() {
	cfg, err := config.Load()
	if err != nil {
		logging.Initialize(false)
		return
	}
	logging.Initialize(cfg.Debug)
}

func getXDGConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, _ := os.UserHomeDir()
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "scada-mcp")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
