package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

// JSONSink writes the result mapping as pretty-printed JSON, preserving
// field-processing order (encoding/json would sort map keys, so the
// object is assembled by hand).
type JSONSink struct {
	Path   string
	logger *zap.Logger
}

func NewJSONSink(path string, logger *zap.Logger) *JSONSink {
	return &JSONSink{Path: path, logger: logger}
}

func (s *JSONSink) Write(result *rules.GenerationResult) error {
	if backup, err := backupExisting(s.Path); err != nil {
		return err
	} else if backup != "" {
		s.logger.Info("created JSON backup", zap.String("path", backup))
	}

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range result.Keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		buf.Write(keyJSON)
		buf.WriteString(": ")

		cases := result.Cases[key]
		if cases == nil {
			cases = []rules.TestCase{}
		}
		casesJSON, err := json.MarshalIndent(cases, "  ", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode cases for %q: %w", key, err)
		}
		buf.Write(casesJSON)
	}
	buf.WriteString("\n}\n")

	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write JSON output %s: %w", s.Path, err)
	}
	s.logger.Info("saved test cases", zap.String("path", s.Path), zap.Int("cases", result.TotalCases()))
	return nil
}
