package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) DriverName() string {
	return "oracle"
}

func (d *OracleDialect) CreateTableQuery(table string) string {
	// Oracle raises ORA-00955 when the table exists; swallow it in a
	// PL/SQL block so creation stays idempotent.
	return fmt.Sprintf(`BEGIN
	EXECUTE IMMEDIATE 'CREATE TABLE %s (
		field_key VARCHAR2(255) NOT NULL,
		test_case VARCHAR2(255) NOT NULL,
		description CLOB,
		expected_result VARCHAR2(4) NOT NULL,
		input CLOB NULL
	)';
EXCEPTION
	WHEN OTHERS THEN
		IF SQLCODE != -955 THEN RAISE; END IF;
END;`, table)
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index)
}
