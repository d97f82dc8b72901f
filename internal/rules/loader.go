package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// rulesFile is the on-disk shape of the processed rules file:
// {"Schema": {"fields": {"field": {...}}}}
type rulesFile map[string]schemaEntry

type schemaEntry struct {
	Fields map[string]fieldEntry `json:"fields"`
}

// Pointer members so missing attributes are distinguishable from
// zero values; fields with missing attributes are skipped, not retried.
// The deployment flags are advisory, so a file without them still
// loads, with the flags defaulting to false.
type fieldEntry struct {
	DataType              *string `json:"data_type"`
	Mandatory             *bool   `json:"mandatory_field"`
	PrimaryKey            *bool   `json:"primary_key"`
	FromSource            bool    `json:"from_source"`
	RequiredForDeployment bool    `json:"required_for_deployment"`
	DeploymentValidation  bool    `json:"deployment_validation"`
	BusinessRules         string  `json:"business_rules"`
	ExpectedValues        string  `json:"expected_values"`
}

// LoadRules reads the processed rules file and returns the field
// specifications in deterministic (sorted key) order. An unreadable or
// unparsable file is fatal; individual fields with missing attributes
// are logged and dropped.
func LoadRules(path string, logger *zap.Logger) ([]FieldRuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var file rulesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", path, err)
	}

	schemaNames := make([]string, 0, len(file))
	for name := range file {
		schemaNames = append(schemaNames, name)
	}
	sort.Strings(schemaNames)

	var fields []FieldRuleSet
	for _, schemaName := range schemaNames {
		entry := file[schemaName]
		if len(entry.Fields) == 0 {
			logger.Warn("skipping schema without fields", zap.String("schema", schemaName))
			continue
		}

		fieldNames := make([]string, 0, len(entry.Fields))
		for name := range entry.Fields {
			fieldNames = append(fieldNames, name)
		}
		sort.Strings(fieldNames)

		for _, fieldName := range fieldNames {
			fe := entry.Fields[fieldName]
			if fe.DataType == nil || fe.Mandatory == nil || fe.PrimaryKey == nil {
				logger.Warn("skipping field with missing attributes",
					zap.String("field", schemaName+"."+fieldName))
				continue
			}
			fields = append(fields, FieldRuleSet{
				SchemaName:            schemaName,
				FieldName:             fieldName,
				DataType:              ParseDataType(*fe.DataType),
				Mandatory:             *fe.Mandatory,
				PrimaryKey:            *fe.PrimaryKey,
				FromSource:            fe.FromSource,
				RequiredForDeployment: fe.RequiredForDeployment,
				DeploymentValidation:  fe.DeploymentValidation,
				BusinessRules:         fe.BusinessRules,
				ExpectedValues:        fe.ExpectedValues,
			})
		}
	}

	return fields, nil
}

// SaveRules writes field specifications back to the nested rules file
// shape consumed by LoadRules.
func SaveRules(fields []FieldRuleSet, path string) error {
	file := make(rulesFile)
	for _, f := range fields {
		entry, ok := file[f.SchemaName]
		if !ok {
			entry = schemaEntry{Fields: make(map[string]fieldEntry)}
		}
		dataType := f.DataType.String()
		mandatory := f.Mandatory
		primaryKey := f.PrimaryKey
		entry.Fields[f.FieldName] = fieldEntry{
			DataType:              &dataType,
			Mandatory:             &mandatory,
			PrimaryKey:            &primaryKey,
			FromSource:            f.FromSource,
			RequiredForDeployment: f.RequiredForDeployment,
			DeploymentValidation:  f.DeploymentValidation,
			BusinessRules:         f.BusinessRules,
			ExpectedValues:        f.ExpectedValues,
		}
		file[f.SchemaName] = entry
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file %s: %w", path, err)
	}
	return nil
}
