package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

// dateLayouts are the accepted literal date/time formats, in priority
// order. A value is accepted if it parses under any one of them.
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// typeCheck reports whether an input value is consistent with the
// declared type given the case's expected outcome. The rule is
// asymmetric on purpose: only a "Pass" case with a wrong-typed input
// is rejected, since a "Fail" case may use a wrong-typed input as its
// very reason for failing.
type typeCheck func(input interface{}, expectPass bool) (bool, string)

var typeChecks = map[rules.DataType]typeCheck{
	rules.TypeString:   checkString,
	rules.TypeDate:     checkDate,
	rules.TypeDateTime: checkDate,
	rules.TypeBoolean:  checkBoolean,
	rules.TypeInteger:  checkInteger,
	// No entry for TypeFloat: unknown types pass unconstrained.
}

// ValidateType applies the declared type's predicate to a test case.
// Null input always passes this stage; nullability-vs-mandatory
// consistency is handled separately by the Validator policy flag.
func ValidateType(tc rules.TestCase, declared rules.DataType) (bool, string) {
	if tc.Input == nil {
		return true, ""
	}
	check, ok := typeChecks[declared]
	if !ok {
		return true, ""
	}
	return check(tc.Input, tc.ExpectedResult == "Pass")
}

func checkString(input interface{}, expectPass bool) (bool, string) {
	if _, ok := input.(string); ok {
		return true, ""
	}
	if expectPass {
		return false, fmt.Sprintf("input %v is not a string, but expected result is 'Pass'", input)
	}
	return true, ""
}

func checkDate(input interface{}, expectPass bool) (bool, string) {
	s, ok := input.(string)
	if !ok {
		if expectPass {
			return false, "date input must be a string for a 'Pass' case"
		}
		return true, ""
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, ""
		}
	}
	if expectPass {
		return false, fmt.Sprintf("invalid date format %q", s)
	}
	return true, ""
}

func checkBoolean(input interface{}, expectPass bool) (bool, string) {
	if isBooleanLiteral(input) {
		return true, ""
	}
	if expectPass {
		return false, fmt.Sprintf("input %v is outside the boolean domain {true, false, \"True\", \"False\", \"true\", \"false\", 1, 0}", input)
	}
	return true, ""
}

// isBooleanLiteral checks membership in the closed boolean domain:
// native booleans, the four case-sensitive string variants, and the
// integers 1/0. No truthy coercion beyond that.
func isBooleanLiteral(input interface{}) bool {
	switch v := input.(type) {
	case bool:
		return true
	case string:
		return v == "True" || v == "False" || v == "true" || v == "false"
	case json.Number:
		return v.String() == "1" || v.String() == "0"
	default:
		return false
	}
}

func checkInteger(input interface{}, expectPass bool) (bool, string) {
	if num, ok := input.(json.Number); ok && isIntegerLexeme(num) {
		return true, ""
	}
	if expectPass {
		return false, fmt.Sprintf("input %v is not an integer, but expected result is 'Pass'", input)
	}
	return true, ""
}

// isIntegerLexeme reports whether the number literal has no fraction
// or exponent, so "5" qualifies and "5.0" does not.
func isIntegerLexeme(num json.Number) bool {
	return !strings.ContainsAny(num.String(), ".eE")
}

var requiredKeys = []string{"test_case", "description", "expected_result", "input"}

// Validator turns candidate records into accepted TestCases, dropping
// non-conforming records with a logged reason. Discards are non-fatal.
type Validator struct {
	logger *zap.Logger

	// RejectNullMandatoryPass discards a "Pass" record with null input
	// for a mandatory field. Off by default: the permissive behavior is
	// the documented one, this flag makes the stricter reading an
	// explicit configuration choice.
	RejectNullMandatoryPass bool
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateAndNormalize filters records against the structural contract
// and the field's type predicate. Order is preserved; the result may
// be empty.
func (v *Validator) ValidateAndNormalize(records []RawRecord, field rules.FieldRuleSet) []rules.TestCase {
	accepted := make([]rules.TestCase, 0, len(records))
	for i, record := range records {
		tc, ok, reason := v.validateRecord(record, field)
		if !ok {
			v.logger.Warn("discarding test case",
				zap.String("field", field.Key()),
				zap.Int("index", i),
				zap.String("reason", reason))
			continue
		}
		accepted = append(accepted, tc)
	}
	return accepted
}

func (v *Validator) validateRecord(record RawRecord, field rules.FieldRuleSet) (rules.TestCase, bool, string) {
	var tc rules.TestCase

	for _, key := range requiredKeys {
		if _, present := record[key]; !present {
			return tc, false, "missing fields"
		}
	}

	result, ok := record["expected_result"].(string)
	if !ok {
		return tc, false, "invalid expected_result"
	}
	switch strings.ToLower(result) {
	case "pass":
		result = "Pass"
	case "fail":
		result = "Fail"
	default:
		return tc, false, fmt.Sprintf("invalid expected_result %q", result)
	}

	id, ok := record["test_case"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return tc, false, "test_case must be a non-empty string"
	}

	description, ok := record["description"].(string)
	if !ok {
		description = fmt.Sprint(record["description"])
	}

	tc = rules.TestCase{
		ID:             id,
		Description:    description,
		ExpectedResult: result,
		Input:          record["input"],
	}

	if v.RejectNullMandatoryPass && field.Mandatory && tc.Input == nil && tc.ExpectedResult == "Pass" {
		return tc, false, "null input for mandatory field"
	}

	if ok, reason := ValidateType(tc, field.DataType); !ok {
		return tc, false, reason
	}
	return tc, true, ""
}
