package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tc-pump/internal/dialect"
	"tc-pump/internal/engine"
	"tc-pump/internal/llm"
	"tc-pump/internal/rules"
	"tc-pump/internal/sink"
)

var (
	rulesFile  string
	outputFile string
	retries    int
	dryRun     bool
	useDB      bool
	cleanDB    bool
	fieldKeys  []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases for every field in the rules file",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve settings (Flag > Config > Default)
		if rulesFile == "" {
			rulesFile = viper.GetString("settings.rules_file")
		}
		if outputFile == "" {
			outputFile = viper.GetString("settings.output_file")
		}
		maxAttempts := viper.GetInt("settings.retries")
		if retries > 0 {
			maxAttempts = retries
		}

		// 1. Load field rules (fatal when unreadable)
		fields, err := rules.LoadRules(rulesFile, logger)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return fmt.Errorf("no usable fields found in %s", rulesFile)
		}

		// Filter strategy: flag > config > all fields.
		targetKeys := fieldKeys
		if len(targetKeys) == 0 {
			targetKeys = viper.GetStringSlice("settings.fields")
		}
		if len(targetKeys) > 0 {
			requested := make(map[string]bool)
			for _, k := range targetKeys {
				requested[strings.ToLower(k)] = true
			}
			var filtered []rules.FieldRuleSet
			for _, f := range fields {
				if requested[strings.ToLower(f.Key())] {
					filtered = append(filtered, f)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no matching fields found for inputs: %v", targetKeys)
			}
			fields = filtered
		}

		// 2. Pick the model client
		var client llm.Client
		if dryRun {
			fmt.Println("🔍 Dry-Run Mode Active: using the offline mock provider.")
			client = llm.NewMockClient()
		} else {
			providerCfg, err := GetActiveProvider()
			if err != nil {
				return err
			}
			client, err = llm.NewClient(*providerCfg)
			if err != nil {
				return err
			}
			fmt.Printf("🧪 Using provider %s (%s)\n", providerCfg.Name, providerCfg.Provider)
		}

		validator := engine.NewValidator(logger)
		validator.RejectNullMandatoryPass = viper.GetBool("validation.reject_null_mandatory_pass")

		orchestrator := engine.NewOrchestrator(client, validator, engine.Config{
			MaxAttempts:     maxAttempts,
			MaxOutputTokens: viper.GetInt("settings.max_output_tokens"),
			Backoff:         time.Duration(viper.GetInt("settings.backoff_ms")) * time.Millisecond,
		}, logger)

		fmt.Printf("Starting generation for %d fields (max %d attempts each)...\n", len(fields), maxAttempts)
		start := time.Now()

		// 3. Progress bar per field
		uiprogress.Start()
		bar := uiprogress.AddBar(len(fields)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Processing: "
		})

		result, reports := orchestrator.Run(context.Background(), fields, func() {
			bar.Incr()
		})

		uiprogress.Stop()
		elapsed := time.Since(start)

		// 4. Persist (JSON + CSV, optional database)
		jsonPath := outputFile
		if !strings.HasSuffix(strings.ToLower(jsonPath), ".json") {
			jsonPath += ".json"
		}
		csvPath := strings.TrimSuffix(jsonPath, ".json") + ".csv"

		if dir := filepath.Dir(jsonPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", dir, err)
			}
		}
		if err := sink.NewJSONSink(jsonPath, logger).Write(result); err != nil {
			return err
		}
		if err := sink.NewCSVSink(csvPath, logger).Write(result); err != nil {
			return err
		}
		if useDB {
			if err := writeDatabase(result); err != nil {
				return err
			}
		}

		// 5. Final Report
		fmt.Println("\n📊 Summary Report (Processing Order):")
		exhausted := 0
		for i, r := range reports {
			icon := "✓"
			if r.Status != "OK" {
				icon = "!"
				exhausted++
			}
			fmt.Printf("[%s] [%02d/%02d] %-40s : %d cases (attempts: %d) - %s\n",
				icon, i+1, len(reports), r.FieldKey, r.Generated, r.Attempts, r.Status)
			if r.ErrorMsg != "" {
				fmt.Printf("    └ %s\n", r.ErrorMsg)
			}
		}
		passCount, failCount := sink.PassFailCounts(result)
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Fields processed: %d (exhausted: %d)\n", len(reports), exhausted)
		fmt.Printf("Total test cases: %d (Pass: %d / Fail: %d)\n", result.TotalCases(), passCount, failCount)
		fmt.Printf("JSON output: %s\n", jsonPath)
		fmt.Printf("CSV output:  %s\n", csvPath)

		summaryPath, err := sink.WriteSummary(result, jsonPath, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Summary:     %s\n", summaryPath)
		fmt.Printf("Done! Time Elapsed: %s\n", elapsed)

		return nil
	},
}

func writeDatabase(result *rules.GenerationResult) error {
	cfg, err := GetDBConfig()
	if err != nil {
		return err
	}

	d := dialect.GetDialect(cfg.Driver)
	db, err := sql.Open(d.DriverName(), cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	s := sink.NewDatabaseSink(db, d, cfg.Table, logger)
	if cleanDB {
		if err := s.EnsureTable(); err != nil {
			return err
		}
		if err := s.Clean(); err != nil {
			return err
		}
	}
	return s.Write(result)
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&rulesFile, "rules", "", "Processed rules file (overrides config)")
	generateCmd.Flags().StringVar(&outputFile, "output", "", "Output file base path (overrides config)")
	generateCmd.Flags().IntVar(&retries, "retries", 0, "Max attempts per field (overrides config)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use the offline mock provider instead of a real model")
	generateCmd.Flags().BoolVar(&useDB, "db", false, "Also persist results to the configured database")
	generateCmd.Flags().BoolVar(&cleanDB, "clean", false, "Clean the result table before persisting (with --db)")
	generateCmd.Flags().StringSliceVarP(&fieldKeys, "fields", "f", []string{}, "Specific schema.field keys to process (comma-separated)")
}
