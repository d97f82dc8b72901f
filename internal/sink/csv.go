package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

// CSVSink writes one flattened row per test case. Null inputs become
// empty cells.
type CSVSink struct {
	Path   string
	logger *zap.Logger
}

func NewCSVSink(path string, logger *zap.Logger) *CSVSink {
	return &CSVSink{Path: path, logger: logger}
}

var csvHeader = []string{"FieldName", "test_case", "description", "expected_result", "input"}

func (s *CSVSink) Write(result *rules.GenerationResult) error {
	if backup, err := backupExisting(s.Path); err != nil {
		return err
	} else if backup != "" {
		s.logger.Info("created CSV backup", zap.String("path", backup))
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create CSV output %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, key := range result.Keys {
		for _, tc := range result.Cases[key] {
			row := []string{key, tc.ID, tc.Description, tc.ExpectedResult, InputString(tc.Input)}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	s.logger.Info("saved test cases", zap.String("path", s.Path), zap.Int("cases", result.TotalCases()))
	return nil
}

// InputString renders a test-case input for flat formats: nil becomes
// the empty string, strings stay raw, everything else uses its JSON
// literal form.
func InputString(input interface{}) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
