package rules

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// columnIndexes holds the detected positions of the rule columns.
// -1 means not found.
type columnIndexes struct {
	schemaName            int
	fieldName             int
	dataType              int
	businessRules         int
	mandatory             int
	fromSource            int
	primaryKey            int
	requiredForDeployment int
	deploymentValidation  int
	expectedValues        int
}

// detectColumns scans the header row and matches columns by keyword.
// Header labels vary between workbooks, so matching is fuzzy. The
// "required for deployment" check must come before the plain
// "deployment validation" one; the former label contains the latter.
func detectColumns(header []string) (columnIndexes, error) {
	idx := columnIndexes{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	for i, col := range header {
		label := strings.ToLower(strings.TrimSpace(col))
		switch {
		case strings.Contains(label, "schema name"):
			idx.schemaName = i
		case strings.Contains(label, "attribute"):
			idx.fieldName = i
		case strings.Contains(label, "data type"):
			idx.dataType = i
		case strings.Contains(label, "business rules"):
			idx.businessRules = i
		case strings.Contains(label, "mandatory"):
			idx.mandatory = i
		case strings.Contains(label, "required from source"):
			idx.fromSource = i
		case strings.Contains(label, "primary key"):
			idx.primaryKey = i
		case strings.Contains(label, "required for deployment"):
			idx.requiredForDeployment = i
		case strings.Contains(label, "deployment validation"):
			idx.deploymentValidation = i
		case strings.Contains(label, "expected values"):
			idx.expectedValues = i
		}
	}

	var missing []string
	for _, req := range []struct {
		name string
		pos  int
	}{
		{"schema name", idx.schemaName},
		{"attributes details", idx.fieldName},
		{"data type", idx.dataType},
		{"business rules", idx.businessRules},
		{"mandatory field", idx.mandatory},
		{"required from source", idx.fromSource},
		{"primary key", idx.primaryKey},
		{"required for deployment validation", idx.requiredForDeployment},
		{"deployment validation", idx.deploymentValidation},
	} {
		if req.pos < 0 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("could not detect required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// LoadExcel reads the rule workbook and extracts one FieldRuleSet per
// data row. Duplicate "{schema}.{field}" keys are an input error.
func LoadExcel(path, sheet string, logger *zap.Logger) ([]FieldRuleSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	idx, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var fields []FieldRuleSet
	for rowNum, row := range rows[1:] {
		schemaName := cell(row, idx.schemaName)
		fieldName := cell(row, idx.fieldName)
		if schemaName == "" || fieldName == "" {
			logger.Warn("skipping row without schema/field name", zap.Int("row", rowNum+2))
			continue
		}

		dataType := cell(row, idx.dataType)
		if dataType == "" {
			logger.Warn("skipping field without data type",
				zap.String("field", schemaName+"."+fieldName), zap.Int("row", rowNum+2))
			continue
		}

		field := FieldRuleSet{
			SchemaName:            schemaName,
			FieldName:             fieldName,
			DataType:              ParseDataType(dataType),
			Mandatory:             isYes(cell(row, idx.mandatory)),
			PrimaryKey:            isYes(cell(row, idx.primaryKey)),
			FromSource:            isYes(cell(row, idx.fromSource)),
			RequiredForDeployment: isYes(cell(row, idx.requiredForDeployment)),
			DeploymentValidation:  isYes(cell(row, idx.deploymentValidation)),
			BusinessRules:         cell(row, idx.businessRules),
			ExpectedValues:        cell(row, idx.expectedValues),
		}

		if seen[field.Key()] {
			return nil, fmt.Errorf("duplicate field key %q in sheet %q", field.Key(), sheet)
		}
		seen[field.Key()] = true
		fields = append(fields, field)
	}

	return fields, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}
