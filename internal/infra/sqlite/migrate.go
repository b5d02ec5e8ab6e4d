package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
)

// Schema migrations are embedded so the binary carries its own schema and
// never depends on files on disk. Applied versions are tracked in
// schema_migrations, making MigrateUp idempotent.
//
//go:embed migrations/*.up.sql
var migrationFS embed.FS

// MigrateUp applies all pending *.up.sql migrations in filename order, one
// transaction per migration. Already-applied versions are skipped.
func MigrateUp(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("migrate: ensure migrations table: %w", err)
	}

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("migrate: read embedded migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	// Numeric prefixes (001_, 002_, ...) make lexicographic order the
	// application order.
	sort.Strings(names)

	for _, name := range names {
		version := versionFromFilename(name)

		applied, checkErr := isApplied(db, version)
		if checkErr != nil {
			return fmt.Errorf("migrate: check applied %d: %w", version, checkErr)
		}
		if applied {
			continue
		}

		content, readErr := migrationFS.ReadFile("migrations/" + name)
		if readErr != nil {
			return fmt.Errorf("migrate: read %s: %w", name, readErr)
		}
		if applyErr := apply(db, version, name, string(content)); applyErr != nil {
			return fmt.Errorf("migrate: apply %s: %w", name, applyErr)
		}
	}

	return nil
}

// MigrationVersion returns the highest applied migration version, or 0 when
// the database is fresh.
func MigrationVersion(db *sql.DB) (int, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return 0, fmt.Errorf("migrate: ensure migrations table: %w", err)
	}

	var version int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("migrate: query version: %w", err)
	}
	return version, nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER NOT NULL PRIMARY KEY,
			name        TEXT    NOT NULL,
			applied_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// versionFromFilename extracts the numeric prefix: "001_init.up.sql" → 1.
func versionFromFilename(name string) int {
	var version int
	if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
		return 0
	}
	return version
}

func isApplied(db *sql.DB, version int) (bool, error) {
	var count int
	row := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func apply(db *sql.DB, version int, name, content string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(content); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
