// Package sqlite provides the SQLite connection factory and migration
// runner for the scheduler. Uses modernc.org/sqlite, a pure-Go driver, so
// the binary builds without CGO.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Registers the modernc driver under the name "sqlite".
	_ "modernc.org/sqlite"
)

// NewDB opens (or creates) the database at path and applies the PRAGMAs the
// scheduler depends on: WAL journaling for concurrent readers, foreign key
// enforcement, and a busy timeout so bursts of registrations don't surface
// SQLITE_BUSY to callers. Use ":memory:" in tests.
func NewDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("sqlite.NewDB: parent directory %q does not exist", dir)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.NewDB: open %q: %w", path, err)
	}

	// WAL allows concurrent readers; SQLite serializes writers itself.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.NewDB: ping %q: %w", path, err)
	}

	return db, nil
}
