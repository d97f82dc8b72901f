package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tc-pump/internal/rules"
)

var (
	excelFile string
	sheetName string
	parseOut  string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract field rules from an Excel workbook into the rules file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if excelFile == "" {
			excelFile = viper.GetString("settings.excel_file")
		}
		if excelFile == "" {
			return fmt.Errorf("no workbook given (use --excel or settings.excel_file)")
		}
		if sheetName == "" {
			sheetName = viper.GetString("settings.excel_sheet")
		}
		if parseOut == "" {
			parseOut = viper.GetString("settings.rules_file")
		}

		fields, err := rules.LoadExcel(excelFile, sheetName, logger)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return fmt.Errorf("no usable field rows found in %s", excelFile)
		}

		if err := rules.SaveRules(fields, parseOut); err != nil {
			return err
		}

		fmt.Printf("✅ Extracted %d field rules to %s\n", len(fields), parseOut)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&excelFile, "excel", "", "Rule workbook path (overrides config)")
	parseCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	parseCmd.Flags().StringVar(&parseOut, "out", "", "Rules file to write (overrides config)")
}
