package config

import (
	"github.com/spf13/viper"
)

// ScadaConfig holds optional connection settings for a SCADA-LTS instance.
// When BaseURL is set the server starts with a client already configured;
// otherwise configuration happens at runtime through the
// configure_connection tool.
type ScadaConfig struct {
	BaseURL  string
	Username string
	Password string
}

// Config is the resolved runtime configuration for the server.
type Config struct {
	MCPPort int
	Debug   bool
	Scada   ScadaConfig
}

// Load resolves configuration from viper (config file, environment
// variables, bound flags) into a Config.
func Load() (*Config, error) {
	cfg := &Config{
		MCPPort: viper.GetInt("mcp_port"),
		Debug:   viper.GetBool("debug"),
		Scada: ScadaConfig{
			BaseURL:  viper.GetString("scada.base_url"),
			Username: viper.GetString("scada.username"),
			Password: viper.GetString("scada.password"),
		},
	}

	if cfg.MCPPort == 0 {
		cfg.MCPPort = 3000
	}

	return cfg, nil
}
