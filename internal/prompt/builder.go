package prompt

import (
	"fmt"
	"strings"

	"tc-pump/internal/rules"
)

// DateFormats are the only literal date/time formats a generated
// "Pass" input may use, in priority order. They are quoted verbatim in
// prompts and matched by the date validator.
var DateFormats = []string{
	"YYYY-MM-DD HH:MM:SS.ffffff",
	"YYYY-MM-DD HH:MM:SS",
	"YYYY-MM-DD",
	"YYYY/MM/DD",
	"MM/DD/YYYY",
}

// BooleanLiterals is the closed value domain quoted in prompts for
// Boolean fields.
const BooleanLiterals = "True, False, true, false, 1, 0"

// Build renders the instruction set for one field. Pure function of
// the rule set and the type-format tables above.
func Build(field rules.FieldRuleSet) string {
	analysis := AnalyzeBusinessRules(field.BusinessRules)

	var info strings.Builder
	if strings.TrimSpace(field.ExpectedValues) != "" {
		fmt.Fprintf(&info, "\nExpected Values: %s", field.ExpectedValues)
	}
	switch field.DataType {
	case rules.TypeDate, rules.TypeDateTime:
		info.WriteString("\nFor Date fields, use these formats only:\n")
		for i, format := range DateFormats {
			if i > 0 {
				info.WriteByte('\n')
			}
			fmt.Fprintf(&info, "- %s", format)
		}
	case rules.TypeBoolean:
		fmt.Fprintf(&info, "\nFor Boolean fields, use values: %s", BooleanLiterals)
	}

	categories := buildCategories(field, analysis)
	ruleText := buildRuleAnalysisText(analysis)

	businessRules := field.BusinessRules
	if strings.TrimSpace(businessRules) == "" {
		businessRules = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate test cases for the field '%s' with following specifications:
- Data Type: %s
- Mandatory: %s
- Primary Key: %s
- Business Rules: %s%s

Analyzed Business Rules:%s

Requirements:
1. Include ONLY the JSON array of test cases in your response
2. Each test case must have these exact fields:
   - "test_case": A clear, unique identifier for the test
   - "description": Detailed explanation of what the test verifies
   - "expected_result": MUST be exactly "Pass" or "Fail"
   - "input": The test input value (can be null, string, number, or boolean)

3. Include these specific test categories:
%s

4. IMPORTANT: DO NOT create redundant test cases; focus on generating a concise set of tests
   that cover all the business rules and data type requirements efficiently.

Return the response in this exact format:
[
    {
        "test_case": "TC001_Valid_Basic",
        "description": "Basic valid input test",
        "expected_result": "Pass",
        "input": "example"
    }
]

IMPORTANT: Return ONLY the JSON array. No additional text, no code fences, no explanation.`,
		field.FieldName,
		field.DataType,
		yesNo(field.Mandatory),
		yesNo(field.PrimaryKey),
		businessRules,
		info.String(),
		ruleText,
		categories,
	)
	return b.String()
}

func buildCategories(field rules.FieldRuleSet, analysis RuleAnalysis) string {
	categories := []string{
		"Basic valid inputs",
		"Basic invalid inputs",
	}
	if field.Mandatory || !analysis.Nullable {
		categories = append(categories, "Null and empty handling (should fail for mandatory fields)")
	} else {
		categories = append(categories, "Null and empty handling (should pass for optional fields)")
	}
	categories = append(categories, "Boundary conditions and edge cases")
	if len(analysis.RequiredFormats) > 0 {
		categories = append(categories, "Format validation (testing required formats)")
	}
	if len(analysis.ValueConstraints) > 0 {
		categories = append(categories, "Value constraint validation")
	}
	if len(analysis.TransformationRules) > 0 {
		categories = append(categories, "Data transformation validation")
	}
	if len(analysis.ConditionalLogic) > 0 {
		categories = append(categories, "Conditional logic validation")
	}
	if field.PrimaryKey {
		categories = append(categories, "Primary key validation (uniqueness)")
	}
	categories = append(categories, "Explicit data type validation")

	var b strings.Builder
	for i, category := range categories {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "   - %s", category)
	}
	return b.String()
}

func buildRuleAnalysisText(analysis RuleAnalysis) string {
	var b strings.Builder
	appendSection := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:", title)
		for _, line := range lines {
			fmt.Fprintf(&b, "\n- %s", line)
		}
	}
	appendSection("Format Requirements", analysis.RequiredFormats)
	appendSection("Value Constraints", analysis.ValueConstraints)
	appendSection("Transformation Rules", analysis.TransformationRules)
	appendSection("Conditional Logic", analysis.ConditionalLogic)
	if b.Len() == 0 {
		return " none"
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
