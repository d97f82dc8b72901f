package dialect

// Dialect abstracts database-specific SQL for the result sink.
type Dialect interface {
	// DriverName returns the database/sql driver name to open.
	DriverName() string

	// Query Generation
	CreateTableQuery(table string) string
	InsertQuery(table string, cols []string) string
	TruncateQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1, etc.
}
