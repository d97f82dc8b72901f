package dialect

import "strings"

// GeneratePlaceholders builds the comma-separated placeholder list for
// an insert statement, using the dialect's placeholder function.
// Indexes passed to placeholderFunc are 1-based.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i + 1)
	}
	return strings.Join(placeholders, ", ")
}
