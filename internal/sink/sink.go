// Package sink persists aggregated generation results. Every sink
// receives the same mapping; key order equals field-processing order.
package sink

import (
	"fmt"
	"os"
	"time"

	"tc-pump/internal/rules"
)

// Sink persists one generation result.
type Sink interface {
	Write(result *rules.GenerationResult) error
}

// backupExisting rotates an existing output file to a timestamped .bak
// before it is overwritten. Missing files are fine.
func backupExisting(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102_150405"))
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to create backup for %s: %w", path, err)
	}
	return backup, nil
}
