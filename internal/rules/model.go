package rules

import "fmt"

// DataType is the declared type of a field, used to pick a validator
// and to add type-specific guidance to prompts.
type DataType int

const (
	TypeString DataType = iota
	TypeDate
	TypeDateTime
	TypeInteger
	TypeFloat
	TypeBoolean
)

func (t DataType) String() string {
	switch t {
	case TypeDate:
		return "Date"
	case TypeDateTime:
		return "DateTime"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeBoolean:
		return "Boolean"
	default:
		return "String"
	}
}

// ParseDataType maps a source label to a DataType. Labels are matched
// loosely; anything unrecognized falls back to String.
func ParseDataType(label string) DataType {
	switch normalizeLabel(label) {
	case "date":
		return TypeDate
	case "datetime", "timestamp":
		return TypeDateTime
	case "integer", "int", "long", "bigint":
		return TypeInteger
	case "float", "double", "decimal", "number", "numeric":
		return TypeFloat
	case "boolean", "bool", "flag":
		return TypeBoolean
	default:
		return TypeString
	}
}

func normalizeLabel(label string) string {
	b := make([]byte, 0, len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}

// FieldRuleSet is one field's specification from the rules source.
// Built once per input row, immutable afterwards. The three deployment
// flags are advisory metadata carried through to the rules file; they
// do not influence generation or validation.
type FieldRuleSet struct {
	SchemaName            string
	FieldName             string
	DataType              DataType
	Mandatory             bool
	PrimaryKey            bool
	FromSource            bool
	RequiredForDeployment bool
	DeploymentValidation  bool
	BusinessRules         string
	ExpectedValues        string
}

// Key returns the composite "{schema}.{field}" identifier.
func (f FieldRuleSet) Key() string {
	return fmt.Sprintf("%s.%s", f.SchemaName, f.FieldName)
}

// TestCase is one generated input/expected-outcome example.
// ExpectedResult is always one of the canonical tokens "Pass"/"Fail"
// after validation. Input is nil, string, json.Number or bool.
type TestCase struct {
	ID             string      `json:"test_case"`
	Description    string      `json:"description"`
	ExpectedResult string      `json:"expected_result"`
	Input          interface{} `json:"input"`
}

// GenerationResult maps field keys to their accepted test cases.
// Keys preserves field-processing order; a key maps to an empty slice
// when every attempt for that field was exhausted.
type GenerationResult struct {
	Keys  []string
	Cases map[string][]TestCase
}

func NewGenerationResult() *GenerationResult {
	return &GenerationResult{Cases: make(map[string][]TestCase)}
}

// Add records a field's accepted cases, keeping insertion order.
func (r *GenerationResult) Add(key string, cases []TestCase) {
	if _, exists := r.Cases[key]; !exists {
		r.Keys = append(r.Keys, key)
	}
	r.Cases[key] = cases
}

// TotalCases returns the number of accepted test cases across fields.
func (r *GenerationResult) TotalCases() int {
	total := 0
	for _, cases := range r.Cases {
		total += len(cases)
	}
	return total
}

// FieldReport is the per-field entry of the final summary.
type FieldReport struct {
	FieldKey  string
	Attempts  int
	Generated int
	Status    string
	ErrorMsg  string
}
