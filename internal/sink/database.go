package sink

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"tc-pump/internal/dialect"
	"tc-pump/internal/rules"
)

// DefaultTable is the result table name when the config names none.
const DefaultTable = "generated_test_cases"

// DatabaseSink persists accepted test cases into a relational table,
// one row per case, inside a single transaction.
type DatabaseSink struct {
	db     *sql.DB
	d      dialect.Dialect
	table  string
	logger *zap.Logger
}

func NewDatabaseSink(db *sql.DB, d dialect.Dialect, table string, logger *zap.Logger) *DatabaseSink {
	if table == "" {
		table = DefaultTable
	}
	return &DatabaseSink{db: db, d: d, table: table, logger: logger}
}

// EnsureTable creates the result table when it does not exist yet.
func (s *DatabaseSink) EnsureTable() error {
	if _, err := s.db.Exec(s.d.CreateTableQuery(s.table)); err != nil {
		return fmt.Errorf("failed to ensure table %s: %w", s.table, err)
	}
	return nil
}

// Clean removes previously persisted rows.
func (s *DatabaseSink) Clean() error {
	if _, err := s.db.Exec(s.d.TruncateQuery(s.table)); err != nil {
		return fmt.Errorf("failed to clean table %s: %w", s.table, err)
	}
	s.logger.Info("cleaned result table", zap.String("table", s.table))
	return nil
}

var resultColumns = []string{"field_key", "test_case", "description", "expected_result", "input"}

func (s *DatabaseSink) Write(result *rules.GenerationResult) error {
	if err := s.EnsureTable(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.d.InsertQuery(s.table, resultColumns)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, key := range result.Keys {
		for _, tc := range result.Cases[key] {
			var input interface{}
			if tc.Input != nil {
				input = InputString(tc.Input)
			}
			if _, err := stmt.Exec(key, tc.ID, tc.Description, tc.ExpectedResult, input); err != nil {
				return fmt.Errorf("failed to insert case %s for %s: %w", tc.ID, key, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inserts: %w", err)
	}
	s.logger.Info("saved test cases", zap.String("table", s.table), zap.Int("rows", inserted))
	return nil
}
