package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"tc-pump/internal/llm"
)

// GetActiveProvider returns the currently active model provider
// configuration from the providers list.
func GetActiveProvider() (*llm.ProviderConfig, error) {
	var configs []llm.ProviderConfig

	if err := viper.UnmarshalKey("providers", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}

	var activeConfig *llm.ProviderConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active provider found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active providers found (only one can be active)")
	}

	return activeConfig, nil
}

// DBConfig is the optional database sink configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// GetDBConfig returns the database sink configuration, if present.
func GetDBConfig() (*DBConfig, error) {
	if !viper.IsSet("database") {
		return nil, fmt.Errorf("no database section in config")
	}
	var cfg DBConfig
	if err := viper.UnmarshalKey("database", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required for the database sink")
	}
	return &cfg, nil
}
