package engine

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

func TestValidateType(t *testing.T) {
	tests := []struct {
		name     string
		declared rules.DataType
		input    interface{}
		expected string
		want     bool
	}{
		{"null passes string", rules.TypeString, nil, "Pass", true},
		{"null passes integer", rules.TypeInteger, nil, "Pass", true},
		{"null passes boolean", rules.TypeBoolean, nil, "Fail", true},
		{"string ok", rules.TypeString, "hello", "Pass", true},
		{"number as string rejected for pass", rules.TypeString, json.Number("5"), "Pass", false},
		{"number as string kept for fail", rules.TypeString, json.Number("5"), "Fail", true},
		{"date iso", rules.TypeDate, "2024-03-15", "Pass", true},
		{"date iso valid even for fail", rules.TypeDate, "2024-03-15", "Fail", true},
		{"datetime with micros", rules.TypeDateTime, "2024-03-15 10:30:00.123456", "Pass", true},
		{"datetime without micros", rules.TypeDateTime, "2024-03-15 10:30:00", "Pass", true},
		{"date slashed ymd", rules.TypeDate, "2024/03/15", "Pass", true},
		{"date slashed mdy", rules.TypeDate, "03/15/2024", "Pass", true},
		{"bad date rejected for pass", rules.TypeDate, "15th of March", "Pass", false},
		{"bad date kept for fail", rules.TypeDate, "15th of March", "Fail", true},
		{"numeric date rejected for pass", rules.TypeDate, json.Number("20240315"), "Pass", false},
		{"bool native", rules.TypeBoolean, true, "Pass", true},
		{"bool titlecase string", rules.TypeBoolean, "True", "Pass", true},
		{"bool lowercase string", rules.TypeBoolean, "false", "Pass", true},
		{"bool one", rules.TypeBoolean, json.Number("1"), "Pass", true},
		{"bool zero", rules.TypeBoolean, json.Number("0"), "Pass", true},
		{"yes outside boolean domain", rules.TypeBoolean, "yes", "Pass", false},
		{"two outside boolean domain", rules.TypeBoolean, json.Number("2"), "Pass", false},
		{"yes kept for fail", rules.TypeBoolean, "yes", "Fail", true},
		{"integer lexeme", rules.TypeInteger, json.Number("5"), "Pass", true},
		{"negative integer", rules.TypeInteger, json.Number("-12"), "Pass", true},
		{"float lexeme not integer", rules.TypeInteger, json.Number("5.0"), "Pass", false},
		{"exponent not integer", rules.TypeInteger, json.Number("1e3"), "Pass", false},
		{"float lexeme kept for fail", rules.TypeInteger, json.Number("5.0"), "Fail", true},
		{"string not integer", rules.TypeInteger, "5", "Pass", false},
		{"float unconstrained", rules.TypeFloat, "anything", "Pass", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := rules.TestCase{ID: "TC", ExpectedResult: tt.expected, Input: tt.input}
			got, reason := ValidateType(tc, tt.declared)
			if got != tt.want {
				t.Errorf("ValidateType(%v, %s) = %v (%s), want %v",
					tt.input, tt.declared, got, reason, tt.want)
			}
		})
	}
}

func record(id, desc, result string, input interface{}) RawRecord {
	return RawRecord{
		"test_case":       id,
		"description":     desc,
		"expected_result": result,
		"input":           input,
	}
}

func TestValidateAndNormalize(t *testing.T) {
	v := NewValidator(zap.NewNop())
	field := rules.FieldRuleSet{
		SchemaName: "Customer",
		FieldName:  "Active",
		DataType:   rules.TypeBoolean,
		Mandatory:  true,
	}

	records := []RawRecord{
		record("TC1", "valid true", "Pass", true),
		record("TC2", "uppercased verdict", "PASS", "False"),
		record("TC3", "outside domain", "Pass", "yes"),
		record("TC4", "outside domain but failing", "Fail", "yes"),
		{"test_case": "TC5", "description": "no input key", "expected_result": "Pass"},
		record("TC6", "bad verdict", "Maybe", true),
		record("", "blank id", "Pass", true),
		record("TC8", "null ok", "Pass", nil),
	}

	cases := v.ValidateAndNormalize(records, field)

	wantIDs := []string{"TC1", "TC2", "TC4", "TC8"}
	if len(cases) != len(wantIDs) {
		t.Fatalf("Expected %d accepted cases, got %d", len(wantIDs), len(cases))
	}
	for i, id := range wantIDs {
		if cases[i].ID != id {
			t.Errorf("Expected case %d to be %s, got %s", i, id, cases[i].ID)
		}
	}
	if cases[1].ExpectedResult != "Pass" {
		t.Errorf("Expected PASS canonicalized to Pass, got %q", cases[1].ExpectedResult)
	}
}

func TestValidateAndNormalize_NonStringDescription(t *testing.T) {
	v := NewValidator(zap.NewNop())
	field := rules.FieldRuleSet{SchemaName: "S", FieldName: "F", DataType: rules.TypeString}

	cases := v.ValidateAndNormalize([]RawRecord{
		record("TC1", "", "Pass", "x"),
		{"test_case": "TC2", "description": json.Number("42"), "expected_result": "Pass", "input": "x"},
	}, field)
	if len(cases) != 2 {
		t.Fatalf("Expected 2 accepted cases, got %d", len(cases))
	}
	if cases[1].Description != "42" {
		t.Errorf("Expected numeric description coerced to \"42\", got %q", cases[1].Description)
	}
}

func TestValidateAndNormalize_RejectNullMandatoryPass(t *testing.T) {
	field := rules.FieldRuleSet{
		SchemaName: "Customer",
		FieldName:  "Email",
		DataType:   rules.TypeString,
		Mandatory:  true,
	}
	records := []RawRecord{
		record("TC1", "null for mandatory", "Pass", nil),
		record("TC2", "null fail is always fine", "Fail", nil),
	}

	permissive := NewValidator(zap.NewNop())
	if got := permissive.ValidateAndNormalize(records, field); len(got) != 2 {
		t.Errorf("Permissive validator should accept both, got %d", len(got))
	}

	strict := NewValidator(zap.NewNop())
	strict.RejectNullMandatoryPass = true
	got := strict.ValidateAndNormalize(records, field)
	if len(got) != 1 || got[0].ID != "TC2" {
		t.Errorf("Strict validator should keep only TC2, got %v", got)
	}
}
