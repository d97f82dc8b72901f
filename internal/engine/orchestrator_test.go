package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"tc-pump/internal/rules"
)

// scriptedClient replays a fixed sequence of responses, one per call.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedClient) Generate(_ context.Context, prompt string, _ int) (string, error) {
	c.prompts = append(c.prompts, prompt)
	i := c.calls
	c.calls++
	if i >= len(c.responses) {
		return "", errors.New("script exhausted")
	}
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	return c.responses[i], err
}

func boolField(name string) rules.FieldRuleSet {
	return rules.FieldRuleSet{
		SchemaName: "Customer",
		FieldName:  name,
		DataType:   rules.TypeBoolean,
		Mandatory:  true,
	}
}

const validBooleanResponse = `[{"test_case": "TC1", "description": "native true", "expected_result": "Pass", "input": true}]`

func TestOrchestrator_FirstAttemptSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{validBooleanResponse}}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{}, zap.NewNop())

	result, reports := o.Run(context.Background(), []rules.FieldRuleSet{boolField("Active")}, nil)

	if client.calls != 1 {
		t.Errorf("Expected 1 model call, got %d", client.calls)
	}
	if len(result.Cases["Customer.Active"]) != 1 {
		t.Fatalf("Expected 1 case for the field, got %d", len(result.Cases["Customer.Active"]))
	}
	if reports[0].Status != "OK" || reports[0].Attempts != 1 {
		t.Errorf("Unexpected report: %+v", reports[0])
	}
}

func TestOrchestrator_RetriesRecoverableFailures(t *testing.T) {
	client := &scriptedClient{
		responses: []string{
			"",
			`[{"test_case": "TC1", "description": "outside domain", "expected_result": "Pass", "input": "maybe"}]`,
			validBooleanResponse,
		},
	}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{MaxAttempts: 3}, zap.NewNop())

	result, reports := o.Run(context.Background(), []rules.FieldRuleSet{boolField("Active")}, nil)

	if client.calls != 3 {
		t.Errorf("Expected 3 model calls, got %d", client.calls)
	}
	if reports[0].Status != "OK" || reports[0].Attempts != 3 {
		t.Errorf("Unexpected report: %+v", reports[0])
	}
	if result.TotalCases() != 1 {
		t.Errorf("Expected 1 case total, got %d", result.TotalCases())
	}
}

func TestOrchestrator_ExhaustedFieldStaysInResult(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"not json", "not json", "not json"},
	}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{MaxAttempts: 3}, zap.NewNop())

	result, reports := o.Run(context.Background(), []rules.FieldRuleSet{boolField("Active")}, nil)

	cases, present := result.Cases["Customer.Active"]
	if !present {
		t.Fatal("Exhausted field must still appear in the result")
	}
	if len(cases) != 0 {
		t.Errorf("Expected empty case list, got %d", len(cases))
	}
	if reports[0].Status != "EXHAUSTED" || reports[0].Attempts != 3 {
		t.Errorf("Unexpected report: %+v", reports[0])
	}
	if reports[0].ErrorMsg == "" {
		t.Error("Exhausted report should carry an error message")
	}
}

func TestOrchestrator_ModelErrorIsRecoverable(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"", validBooleanResponse},
		errs:      []error{errors.New("rate limited"), nil},
	}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{}, zap.NewNop())

	_, reports := o.Run(context.Background(), []rules.FieldRuleSet{boolField("Active")}, nil)

	if reports[0].Status != "OK" || reports[0].Attempts != 2 {
		t.Errorf("Expected recovery on attempt 2, got %+v", reports[0])
	}
}

func TestOrchestrator_FieldIsolationAndOrder(t *testing.T) {
	client := &scriptedClient{
		responses: []string{
			"garbage", "garbage", "garbage",
			validBooleanResponse,
		},
	}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{MaxAttempts: 3}, zap.NewNop())

	progressed := 0
	fields := []rules.FieldRuleSet{boolField("Active"), boolField("Verified")}
	result, reports := o.Run(context.Background(), fields, func() { progressed++ })

	if progressed != 2 {
		t.Errorf("Expected 2 progress callbacks, got %d", progressed)
	}
	if len(reports) != 2 || reports[0].Status != "EXHAUSTED" || reports[1].Status != "OK" {
		t.Fatalf("A failed field must not poison the next one: %+v", reports)
	}
	wantKeys := []string{"Customer.Active", "Customer.Verified"}
	for i, key := range wantKeys {
		if result.Keys[i] != key {
			t.Errorf("Expected key %d to be %s, got %s", i, key, result.Keys[i])
		}
	}
}

func TestOrchestrator_PromptRebuiltPerAttempt(t *testing.T) {
	client := &scriptedClient{responses: []string{"", validBooleanResponse}}
	o := NewOrchestrator(client, NewValidator(zap.NewNop()), Config{}, zap.NewNop())

	o.Run(context.Background(), []rules.FieldRuleSet{boolField("Active")}, nil)

	if len(client.prompts) != 2 {
		t.Fatalf("Expected 2 prompts, got %d", len(client.prompts))
	}
	if client.prompts[0] != client.prompts[1] {
		t.Error("Prompt building should be deterministic for the same field")
	}
	if !strings.Contains(client.prompts[0], "Active") {
		t.Error("Prompt should mention the field name")
	}
}
