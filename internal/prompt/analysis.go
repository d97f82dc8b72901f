package prompt

import "strings"

// RuleAnalysis is the keyword-level reading of a field's free-text
// business rules. The rule text is advisory input to prompt
// construction only; nothing here is enforced as a hard constraint.
type RuleAnalysis struct {
	Nullable            bool
	RequiredFormats     []string
	ValueConstraints    []string
	TransformationRules []string
	ConditionalLogic    []string
}

// AnalyzeBusinessRules scans the business-rule text line by line for
// keywords hinting at formats, constraints, transformations and
// conditional logic, so the prompt can ask for targeted coverage.
func AnalyzeBusinessRules(businessRules string) RuleAnalysis {
	analysis := RuleAnalysis{Nullable: true}

	text := strings.TrimSpace(businessRules)
	if text == "" {
		return analysis
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "cannot be null") || strings.Contains(lower, "cannot be blank") {
		analysis.Nullable = false
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowerLine := strings.ToLower(line)

		if strings.Contains(lowerLine, "format") {
			analysis.RequiredFormats = append(analysis.RequiredFormats, line)
		}
		if strings.Contains(lowerLine, "must be") || strings.Contains(lowerLine, "should be") {
			// Nullability lines are already covered above.
			if !strings.Contains(lowerLine, "null") && !strings.Contains(lowerLine, "blank") {
				analysis.ValueConstraints = append(analysis.ValueConstraints, line)
			}
		}
		if strings.Contains(lowerLine, "transform") || strings.Contains(lowerLine, "concatenation") {
			analysis.TransformationRules = append(analysis.TransformationRules, line)
		}
		if strings.Contains(lowerLine, "if ") || strings.Contains(lowerLine, "when ") {
			analysis.ConditionalLogic = append(analysis.ConditionalLogic, line)
		}
	}

	return analysis
}
