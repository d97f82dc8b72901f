package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) DriverName() string {
	return "sqlserver"
}

func (d *MSSQLDialect) CreateTableQuery(table string) string {
	// MSSQL has no CREATE TABLE IF NOT EXISTS; guard via OBJECT_ID.
	return fmt.Sprintf(`IF OBJECT_ID('%s', 'U') IS NULL
CREATE TABLE %s (
	field_key NVARCHAR(255) NOT NULL,
	test_case NVARCHAR(255) NOT NULL,
	description NVARCHAR(MAX),
	expected_result NVARCHAR(4) NOT NULL,
	input NVARCHAR(MAX) NULL
)`, table, table)
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *MSSQLDialect) TruncateQuery(table string) string {
	// DELETE avoids TRUNCATE's stricter permissions.
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index)
}
