package rules

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const sampleRules = `{
  "Customer": {
    "fields": {
      "Email": {
        "data_type": "String",
        "mandatory_field": true,
        "primary_key": false,
        "from_source": true,
        "required_for_deployment": true,
        "deployment_validation": false,
        "business_rules": "Cannot be null. Format must be a valid email.",
        "expected_values": ""
      },
      "Active": {
        "data_type": "Boolean",
        "mandatory_field": false,
        "primary_key": false,
        "business_rules": "",
        "expected_values": "True, False"
      },
      "Broken": {
        "mandatory_field": true,
        "primary_key": false,
        "business_rules": "missing data_type"
      }
    }
  },
  "Order": {
    "fields": {
      "ID": {
        "data_type": "Integer",
        "mandatory_field": true,
        "primary_key": true,
        "business_rules": "",
        "expected_values": ""
      }
    }
  },
  "Empty": {}
}`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write rules fixture: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	fields, err := LoadRules(writeRules(t, sampleRules), zap.NewNop())
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}

	// Broken is skipped, Empty contributes nothing, keys come sorted.
	wantKeys := []string{"Customer.Active", "Customer.Email", "Order.ID"}
	if len(fields) != len(wantKeys) {
		t.Fatalf("Expected %d fields, got %d", len(wantKeys), len(fields))
	}
	for i, key := range wantKeys {
		if fields[i].Key() != key {
			t.Errorf("Expected field %d to be %s, got %s", i, key, fields[i].Key())
		}
	}

	email := fields[1]
	if email.DataType != TypeString || !email.Mandatory || email.PrimaryKey {
		t.Errorf("Unexpected Email attributes: %+v", email)
	}
	if !email.FromSource || !email.RequiredForDeployment || email.DeploymentValidation {
		t.Errorf("Unexpected Email deployment flags: %+v", email)
	}
	id := fields[2]
	if id.DataType != TypeInteger || !id.PrimaryKey {
		t.Errorf("Unexpected ID attributes: %+v", id)
	}
	// The ID entry omits the advisory flags; they default to false.
	if id.FromSource || id.RequiredForDeployment || id.DeploymentValidation {
		t.Errorf("Missing advisory flags should default to false: %+v", id)
	}
}

func TestLoadRulesErrors(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop()); err == nil {
		t.Error("Expected error for a missing file")
	}
	if _, err := LoadRules(writeRules(t, "{not json"), zap.NewNop()); err == nil {
		t.Error("Expected error for an unparsable file")
	}
}

func TestSaveRulesRoundTrip(t *testing.T) {
	original := []FieldRuleSet{
		{SchemaName: "Customer", FieldName: "Email", DataType: TypeString, Mandatory: true, FromSource: true, RequiredForDeployment: true, BusinessRules: "Cannot be null"},
		{SchemaName: "Customer", FieldName: "Score", DataType: TypeFloat, DeploymentValidation: true},
		{SchemaName: "Order", FieldName: "ID", DataType: TypeInteger, Mandatory: true, PrimaryKey: true},
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := SaveRules(original, path); err != nil {
		t.Fatalf("SaveRules failed: %v", err)
	}

	loaded, err := LoadRules(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("Expected %d fields back, got %d", len(original), len(loaded))
	}
	for i, want := range original {
		if loaded[i] != want {
			t.Errorf("Field %d changed in round trip: got %+v, want %+v", i, loaded[i], want)
		}
	}
}
