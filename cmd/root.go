package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

var RootCmd = &cobra.Command{
	Use:   "tc-pump",
	Short: "An LLM-driven test case generator for data-field rules",
	Long: `
  _____ ____   ____  _   _ __  __ ____
 |_   _/ ___| |  _ \| | | |  \/  |  _ \
   | || |     | |_) | | | | |\/| | |_) |
   | || |___  |  __/| |_| | |  | |  __/
   |_| \____| |_|    \___/|_|  |_|_|

TC PUMP 🧪 - Field Rule Test Case Generator

Reads a tabular specification of data-field rules and asks a generative
model to produce structured Pass/Fail test cases per field, validating
and repairing the responses along the way.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tc-pump.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Defaults (Flag > Config > Default)
	viper.SetDefault("settings.retries", 3)
	viper.SetDefault("settings.max_output_tokens", 1024)
	viper.SetDefault("settings.backoff_ms", 0)
	viper.SetDefault("settings.rules_file", "output/processed_rules.json")
	viper.SetDefault("settings.output_file", "output/generated_test_cases.json")
	viper.SetDefault("validation.reject_null_mandatory_pass", false)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("tc-pump")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
