package rules

import "testing"

func TestParseDataType(t *testing.T) {
	tests := []struct {
		label string
		want  DataType
	}{
		{"String", TypeString},
		{"VARCHAR", TypeString},
		{"Date", TypeDate},
		{"DATE", TypeDate},
		{"DateTime", TypeDateTime},
		{"date time", TypeDateTime},
		{"Timestamp", TypeDateTime},
		{"Integer", TypeInteger},
		{"int", TypeInteger},
		{"BigInt", TypeInteger},
		{"Float", TypeFloat},
		{"Decimal", TypeFloat},
		{"Numeric", TypeFloat},
		{"Boolean", TypeBoolean},
		{"bool", TypeBoolean},
		{"Flag", TypeBoolean},
		{"", TypeString},
		{"something else", TypeString},
	}
	for _, tt := range tests {
		if got := ParseDataType(tt.label); got != tt.want {
			t.Errorf("ParseDataType(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	for _, dt := range []DataType{TypeString, TypeDate, TypeDateTime, TypeInteger, TypeFloat, TypeBoolean} {
		if ParseDataType(dt.String()) != dt {
			t.Errorf("String/Parse round trip broken for %s", dt)
		}
	}
}

func TestFieldRuleSetKey(t *testing.T) {
	f := FieldRuleSet{SchemaName: "Customer", FieldName: "Email"}
	if f.Key() != "Customer.Email" {
		t.Errorf("Expected Customer.Email, got %s", f.Key())
	}
}

func TestGenerationResultOrder(t *testing.T) {
	r := NewGenerationResult()
	r.Add("B.b", []TestCase{{ID: "TC1"}})
	r.Add("A.a", []TestCase{})
	r.Add("B.b", []TestCase{{ID: "TC1"}, {ID: "TC2"}})

	if len(r.Keys) != 2 || r.Keys[0] != "B.b" || r.Keys[1] != "A.a" {
		t.Errorf("Keys should follow first-insertion order, got %v", r.Keys)
	}
	if r.TotalCases() != 2 {
		t.Errorf("Expected 2 total cases after re-add, got %d", r.TotalCases())
	}
}
