package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// MockClient fabricates plausible model responses offline. Used by
// dry runs and tests; responses are fence-wrapped JSON so the full
// normalization pipeline is exercised.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var dataTypeRe = regexp.MustCompile(`- Data Type: (\w+)`)

// Generate sniffs the declared type out of the prompt and returns a
// small canned test-case array for it.
func (c *MockClient) Generate(_ context.Context, prompt string, _ int) (string, error) {
	dataType := "String"
	if m := dataTypeRe.FindStringSubmatch(prompt); m != nil {
		dataType = m[1]
	}

	cases := mockCases(dataType)
	data, err := json.Marshal(cases)
	if err != nil {
		return "", fmt.Errorf("failed to encode mock response: %w", err)
	}
	return "```json\n" + string(data) + "\n```", nil
}

type mockCase struct {
	TestCase       string      `json:"test_case"`
	Description    string      `json:"description"`
	ExpectedResult string      `json:"expected_result"`
	Input          interface{} `json:"input"`
}

func mockCases(dataType string) []mockCase {
	switch dataType {
	case "Date", "DateTime":
		valid := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
		return []mockCase{
			{"TC001_Valid_Date", "Valid ISO date input", "Pass", valid.Format("2006-01-02")},
			{"TC002_Valid_DateTime", "Valid date with time component", "Pass", valid.Format("2006-01-02 15:04:05")},
			{"TC003_Invalid_Format", "Malformed date literal", "Fail", "not-a-date"},
			{"TC004_Null_Input", "Null date value", "Fail", nil},
		}
	case "Boolean":
		return []mockCase{
			{"TC001_Valid_True", "Native boolean true", "Pass", true},
			{"TC002_Valid_String", "String boolean literal", "Pass", "False"},
			{"TC003_Valid_Numeric", "Numeric boolean literal", "Pass", 1},
			{"TC004_Invalid_Value", "Value outside the boolean domain", "Fail", "maybe"},
		}
	case "Integer":
		return []mockCase{
			{"TC001_Valid_Basic", "Valid integer input", "Pass", gofakeit.Number(1, 1000)},
			{"TC002_Valid_Zero", "Zero boundary value", "Pass", 0},
			{"TC003_Invalid_Text", "Non-numeric input", "Fail", gofakeit.Word()},
			{"TC004_Null_Input", "Null integer value", "Fail", nil},
		}
	case "Float":
		return []mockCase{
			{"TC001_Valid_Basic", "Valid decimal input", "Pass", gofakeit.Price(0.99, 99.99)},
			{"TC002_Invalid_Text", "Non-numeric input", "Fail", gofakeit.Word()},
		}
	default:
		return []mockCase{
			{"TC001_Valid_Basic", "Basic valid string input", "Pass", gofakeit.Word()},
			{"TC002_Empty_Input", "Empty string input", "Fail", ""},
			{"TC003_Invalid_Type", "Numeric input for string field", "Fail", gofakeit.Number(1, 100)},
			{"TC004_Null_Input", "Null string value", "Fail", nil},
		}
	}
}
