// qwen-agent-scheduler — dynamic method registration and invocation service.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/y149604146/qwen-agent-scheduler/internal/api"
	"github.com/y149604146/qwen-agent-scheduler/internal/api/handlers"
	"github.com/y149604146/qwen-agent-scheduler/internal/domain/audit"
	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/config"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/configfile"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/eventbus"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/sqlite"
	schedmcp "github.com/y149604146/qwen-agent-scheduler/internal/mcp"
	"github.com/y149604146/qwen-agent-scheduler/internal/server"
	"github.com/y149604146/qwen-agent-scheduler/internal/tools"
	"github.com/y149604146/qwen-agent-scheduler/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("scheduler", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	switch fs.Arg(0) {
	case "", "serve":
		return serve(out, false)
	case "mcp":
		return serve(out, true)
	case "migrate":
		return migrate(out)
	case "register":
		return registerFromFile(out, fs.Args()[1:])
	case "version":
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", fs.Arg(0))
		printHelp(out)
		return 2
	}
}

// app holds the wired application services shared by the serve, mcp, and
// register commands.
type app struct {
	db        *sql.DB
	engine    *method.Engine
	registrar *method.Registrar
	registry  *method.Registry
	audit     *audit.Service
	bus       *eventbus.Bus
}

func buildApp(cfg config.Config) (*app, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	moduleSet := method.NewModuleSet()
	tools.Register(moduleSet)

	resolver := method.NewCachedResolver(moduleSet)
	registry := method.NewRegistry(resolver.Invalidate)
	store := method.NewStore(db)
	bus := eventbus.New()
	registrar := method.NewRegistrar(store, registry, bus)
	engine := method.NewEngineWithBus(registry, resolver, cfg.InvokeTimeout, bus)
	auditService := audit.NewService(db)

	ctx := context.Background()

	// Persisted snapshot first, then any builtin not yet in the store.
	// Re-registering would clobber edited copies of builtin declarations.
	if _, err := registrar.LoadRegistry(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("load registry: %w", err)
	}
	for _, decl := range tools.Declarations() {
		if _, err := registry.Get(decl.Name); err == nil {
			continue
		}
		if _, _, err := registrar.Register(ctx, decl); err != nil {
			db.Close()
			return nil, fmt.Errorf("register builtin method %q: %w", decl.Name, err)
		}
	}

	return &app{
		db:        db,
		engine:    engine,
		registrar: registrar,
		registry:  registry,
		audit:     auditService,
		bus:       bus,
	}, nil
}

func serve(out io.Writer, overMCP bool) int {
	cfg := config.Load()
	a, err := buildApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := audit.NewRecorder(a.audit)
	go recorder.Start(ctx, a.bus)

	if overMCP {
		fmt.Fprintf(out, "%s — serving %d methods over MCP stdio\n", version.String(), a.registry.Len()) //nolint:errcheck
		defer a.db.Close()
		if err := schedmcp.NewServer(a.engine, a.registry).Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "mcp server error: %v\n", err)
			return 1
		}
		return 0
	}

	issuer, err := handlers.NewTokenIssuer(cfg.APIClientID, cfg.APIClientSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}

	srvConfig := server.DefaultConfig()
	srvConfig.Host = cfg.HTTPHost
	srvConfig.Port = cfg.HTTPPort
	srv := server.NewServer(a.db, api.Deps{
		Engine:    a.engine,
		Registrar: a.registrar,
		Registry:  a.registry,
		Audit:     a.audit,
		Issuer:    issuer,
	}, srvConfig)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
			return 1
		}
		return 0
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
}

func migrate(out io.Writer) int {
	cfg := config.Load()
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		return 1
	}
	ver, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read migration version: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "database at %s migrated to version %d\n", cfg.DBPath, ver) //nolint:errcheck
	return 0
}

// registerFromFile loads a JSON/YAML registration config and registers every
// valid declaration, printing a per-method summary.
func registerFromFile(out io.Writer, args []string) int {
	fs := flag.NewFlagSet("scheduler register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "Path to a JSON or YAML methods file")
	if err := fs.Parse(args); err != nil || *path == "" {
		fmt.Fprintln(os.Stderr, "usage: scheduler register -config <methods.json|methods.yaml>")
		return 2
	}

	decls, err := configfile.LoadMethods(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	a, err := buildApp(config.Load())
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	defer a.db.Close()

	results, registered, err := a.registrar.RegisterAll(context.Background(), decls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registration aborted: %v\n", err)
		return 1
	}

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(out, "registered %s\n", res.MethodName) //nolint:errcheck
			continue
		}
		fmt.Fprintf(out, "skipped %s:\n", res.MethodName) //nolint:errcheck
		for _, msg := range res.Errors {
			fmt.Fprintf(out, "  - %s\n", msg) //nolint:errcheck
		}
	}
	fmt.Fprintf(out, "%d of %d methods registered\n", registered, len(decls)) //nolint:errcheck

	if registered < len(decls) {
		return 1
	}
	return 0
}

func printHelp(out io.Writer) {
	helpText := `qwen-agent-scheduler — method registration and invocation service

Usage:
  scheduler [command] [options]

Commands:
  serve        Start the HTTP server (default)
  mcp          Serve registered methods as MCP tools over stdio
  migrate      Run database migrations
  register     Register methods from a JSON or YAML config file
  version      Show version information

Options:
  --version    Show version information
  --help       Show this help message

Examples:
  scheduler serve
  scheduler register -config methods.yaml
  scheduler mcp`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
