package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// RawRecord is one candidate test case as parsed from model output,
// before structural validation. Numbers are json.Number so integer and
// float literals stay distinguishable.
type RawRecord map[string]interface{}

// ParseError means the response could not be coerced into a JSON array
// even after all repair passes. It carries the offending text span.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response is not a JSON array: %v (near %q)", e.Err, e.Snippet)
	}
	return fmt.Sprintf("response is not a JSON array (near %q)", e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	codeFenceOpenRe  = regexp.MustCompile("(?i)^```[a-z]*[ \t]*\r?\n?")
	codeFenceCloseRe = regexp.MustCompile("\r?\n?```\\s*$")
	noneLiteralRe    = regexp.MustCompile(`(?i)\bNone\b`)
	trueLiteralRe    = regexp.MustCompile(`(?i)\bTrue\b`)
	falseLiteralRe   = regexp.MustCompile(`(?i)\bFalse\b`)
	trailingCommaRe  = regexp.MustCompile(`,\s*([}\]])`)
)

// stripCodeFence removes a markdown fence wrapping the whole response.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = codeFenceOpenRe.ReplaceAllString(text, "")
	text = codeFenceCloseRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// extractArraySpan cuts the response down to the first '['..last ']'
// span when the text is not already a bare array. Object-shaped text
// is left whole so the unwrap step after parsing can inspect it.
// Best effort: if no span exists the text is returned unchanged and
// the parse will fail.
func extractArraySpan(text string) string {
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return text
	}
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// replaceHostLiterals rewrites Python-style None/True/False literals
// into their JSON counterparts. Word-boundary matches only, so values
// like "Nonetheless" survive.
func replaceHostLiterals(text string) string {
	text = noneLiteralRe.ReplaceAllString(text, "null")
	text = trueLiteralRe.ReplaceAllString(text, "true")
	text = falseLiteralRe.ReplaceAllString(text, "false")
	return text
}

// dropTrailingCommas removes commas immediately preceding ']' or '}'.
func dropTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// repairPasses is the ordered repair pipeline. Each pass is best
// effort and never fails; only the final parse can.
var repairPasses = []struct {
	name string
	fn   func(string) string
}{
	{"strip_code_fence", stripCodeFence},
	{"extract_array_span", extractArraySpan},
	{"replace_host_literals", replaceHostLiterals},
	{"drop_trailing_commas", dropTrailingCommas},
}

// Normalizer repairs and parses free-form model output into candidate
// records.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize runs the repair pipeline and parses the result. The
// returned sequence may legitimately be empty. A nil error means the
// top-level value was an array (possibly after unwrapping a single-key
// object); anything else is a *ParseError.
func (n *Normalizer) Normalize(rawText string) ([]RawRecord, error) {
	cleaned := rawText
	for _, pass := range repairPasses {
		cleaned = pass.fn(cleaned)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, &ParseError{Snippet: snippet(cleaned), Err: err}
	}

	// Models sometimes wrap the array in a named field; unwrap a
	// single-key object whose only value is an array.
	if obj, ok := parsed.(map[string]interface{}); ok && len(obj) == 1 {
		for key, value := range obj {
			if arr, ok := value.([]interface{}); ok {
				n.logger.Warn("response was an object, unwrapping array", zap.String("key", key))
				parsed = arr
			}
		}
	}

	arr, ok := parsed.([]interface{})
	if !ok {
		return nil, &ParseError{Snippet: snippet(cleaned)}
	}

	records := make([]RawRecord, 0, len(arr))
	for i, element := range arr {
		record, ok := element.(map[string]interface{})
		if !ok {
			n.logger.Warn("dropping non-record array element", zap.Int("index", i))
			continue
		}
		records = append(records, RawRecord(record))
	}
	return records, nil
}

func snippet(text string) string {
	const max = 120
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
