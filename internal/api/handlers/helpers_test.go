package handlers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/sqlite"
	"github.com/y149604146/qwen-agent-scheduler/internal/tools"
)

// testEnv wires the domain services handler tests exercise.
type testEnv struct {
	db        *sql.DB
	engine    *method.Engine
	registrar *method.Registrar
	registry  *method.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("sqlite.NewDB failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("sqlite.MigrateUp failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	moduleSet := method.NewModuleSet()
	tools.Register(moduleSet)
	resolver := method.NewCachedResolver(moduleSet)
	registry := method.NewRegistry(resolver.Invalidate)
	registrar := method.NewRegistrar(method.NewStore(db), registry, nil)
	engine := method.NewEngine(registry, resolver, 5*time.Second)

	return &testEnv{db: db, engine: engine, registrar: registrar, registry: registry}
}

// registerBuiltins registers the builtin tool declarations.
func (e *testEnv) registerBuiltins(t *testing.T) {
	t.Helper()
	_, n, err := e.registrar.RegisterAll(context.Background(), tools.Declarations())
	if err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	if n == 0 {
		t.Fatalf("no builtin methods registered")
	}
}
