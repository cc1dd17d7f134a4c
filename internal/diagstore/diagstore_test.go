package diagstore

import (
	"path/filepath"
	"testing"

	"github.com/coolang/coolc/internal/diagnostics"
)

func TestRecordRunPersistsDiagnostics(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "diagnostics.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	bag := &diagnostics.Bag{}
	bag.Addf(diagnostics.Error, diagnostics.CodeDivisionByZero, diagnostics.Position{File: "a.cl", Line: 3, Column: 5}, "division by zero")

	if err := store.RecordRun("run-1", bag); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	var count int
	row := store.db.QueryRow(`SELECT COUNT(*) FROM diagnostics WHERE run_id = ?`, "run-1")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}
