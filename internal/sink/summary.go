package sink

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

// PassFailCounts tallies the expected-result distribution across all
// accepted test cases.
func PassFailCounts(result *rules.GenerationResult) (pass, fail int) {
	for _, cases := range result.Cases {
		for _, tc := range cases {
			if tc.ExpectedResult == "Pass" {
				pass++
			} else {
				fail++
			}
		}
	}
	return pass, fail
}

// SummaryText renders the human-readable generation summary: totals,
// the Pass/Fail distribution and the average case count per field.
func SummaryText(result *rules.GenerationResult, outputFile string) string {
	totalFields := len(result.Keys)
	totalCases := result.TotalCases()
	pass, fail := PassFailCounts(result)

	percent := func(n int) float64 {
		if totalCases == 0 {
			return 0
		}
		return float64(n) / float64(totalCases) * 100
	}
	average := 0.0
	if totalFields > 0 {
		average = float64(totalCases) / float64(totalFields)
	}

	rule := strings.Repeat("=", 30)
	return fmt.Sprintf(`Test Case Generation Summary
%s
Total fields processed: %d
Total test cases generated: %d
  - Pass test cases: %d (%.1f%%)
  - Fail test cases: %d (%.1f%%)
Average test cases per field: %.2f
Output file: %s
%s
`, rule, totalFields, totalCases, pass, percent(pass), fail, percent(fail), average, outputFile, rule)
}

// WriteSummary writes the summary next to the output file, as
// "<output base>_summary.txt", and returns the path written.
func WriteSummary(result *rules.GenerationResult, outputFile string, logger *zap.Logger) (string, error) {
	path := strings.TrimSuffix(outputFile, ".json") + "_summary.txt"
	if err := os.WriteFile(path, []byte(SummaryText(result, outputFile)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary file %s: %w", path, err)
	}
	logger.Info("saved generation summary", zap.String("path", path))
	return path, nil
}
