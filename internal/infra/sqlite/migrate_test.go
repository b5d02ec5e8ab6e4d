package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/y149604146/qwen-agent-scheduler/internal/infra/sqlite"
)

func TestMigrate_RunsAllMigrations(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)

	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v; want nil", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("SELECT COUNT(*) FROM schema_migrations error = %v", err)
	}
	if count == 0 {
		t.Error("schema_migrations has 0 rows after MigrateUp; want > 0")
	}
}

// Re-running MigrateUp on an already-migrated DB must be a no-op.
func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)

	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() first run error = %v; want nil", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() second run error = %v; want nil (idempotent)", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count after second run: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d; want 1", count)
	}
}

func TestMigrate_RegisteredMethodTableCreated(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	assertTableExists(t, db, "registered_method")
}

func TestMigrate_AuditLogTableCreated(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	assertTableExists(t, db, "audit_log")
}

// Method names are the upsert key; the schema must reject duplicates.
func TestMigrate_MethodNameUnique(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	insert := `
		INSERT INTO registered_method (id, name, description, parameters_json, return_kind, module_path, function_name, created_at, updated_at)
		VALUES (?, 'add', 'Add integers', '[]', 'integer', 'tools.calculator', 'add', datetime('now'), datetime('now'))
	`
	if _, err := db.Exec(insert, "m-1"); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if _, err := db.Exec(insert, "m-2"); err == nil {
		t.Error("duplicate method name INSERT succeeded; want UNIQUE constraint error")
	}
}

// The driver maps TIMESTAMP decltypes to time.Time; the store and audit scan
// paths read their created_at/updated_at columns directly into time.Time and
// depend on that mapping.
func TestMigrate_TimestampColumnsScanAsTime(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	want := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	_, err := db.Exec(`
		INSERT INTO registered_method (id, name, description, parameters_json, return_kind, module_path, function_name, created_at, updated_at)
		VALUES ('m-1', 'add', 'Add integers', '[]', 'integer', 'tools.calculator', 'add', ?, ?)
	`, want, want)
	if err != nil {
		t.Fatalf("insert error = %v", err)
	}

	var got time.Time
	if err := db.QueryRow("SELECT created_at FROM registered_method WHERE id = 'm-1'").Scan(&got); err != nil {
		t.Fatalf("scan created_at into time.Time error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("created_at = %v; want %v", got, want)
	}
}

func TestMigrate_Version(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	version, err := sqlite.MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v; want nil", err)
	}
	if version == 0 {
		t.Error("MigrationVersion() = 0; want > 0 after MigrateUp")
	}
}

func TestMigrationVersion_NoMigrations(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)

	version, err := sqlite.MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v", err)
	}
	if version != 0 {
		t.Errorf("MigrationVersion() = %d; want 0 on fresh DB", version)
	}
}

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		tableName,
	).Scan(&name)

	if err == sql.ErrNoRows {
		t.Errorf("table %q not found in sqlite_master after MigrateUp", tableName)
		return
	}
	if err != nil {
		t.Fatalf("assertTableExists(%q) query error = %v", tableName, err)
	}
}
