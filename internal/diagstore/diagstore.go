// Package diagstore is the optional SQLite-backed diagnostic sink behind
// coolc's --diagnostics-db flag: every diagnostic of a run is persisted so
// they can be queried across many runs later.
package diagstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/coolang/coolc/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL,
	severity TEXT NOT NULL,
	code     TEXT NOT NULL,
	file     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	column   INTEGER NOT NULL,
	message  TEXT NOT NULL
);
`

// Store wraps a *sql.DB holding the diagnostics table.
type Store struct {
	db *sql.DB
}

// Open creates (if absent) and opens the SQLite database at path, ensuring
// the diagnostics table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping diagnostics db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create diagnostics table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists every diagnostic in bag under runID.
func (s *Store) RecordRun(runID string, bag *diagnostics.Bag) error {
	stmt, err := s.db.Prepare(`INSERT INTO diagnostics (run_id, severity, code, file, line, column, message) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range bag.Entries() {
		if _, err := stmt.Exec(runID, d.Severity.String(), string(d.Code), d.Position.File, d.Position.Line, d.Position.Column, d.Message); err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}
	return nil
}
