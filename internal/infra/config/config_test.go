package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.DBPath != "scheduler.db" {
		t.Errorf("DBPath = %q; want %q", cfg.DBPath, "scheduler.db")
	}
	if cfg.HTTPHost != "0.0.0.0" {
		t.Errorf("HTTPHost = %q; want %q", cfg.HTTPHost, "0.0.0.0")
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d; want 8080", cfg.HTTPPort)
	}
	if cfg.InvokeTimeout != 30*time.Second {
		t.Errorf("InvokeTimeout = %v; want 30s", cfg.InvokeTimeout)
	}
	if cfg.APIClientID != "scheduler" {
		t.Errorf("APIClientID = %q; want %q", cfg.APIClientID, "scheduler")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_DB_PATH", "/tmp/custom.db")
	t.Setenv("SCHEDULER_HTTP_PORT", "9090")
	t.Setenv("SCHEDULER_INVOKE_TIMEOUT_SECONDS", "5")
	t.Setenv("SCHEDULER_API_CLIENT_SECRET", "hunter2")

	cfg := Load()

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %q; want override", cfg.DBPath)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d; want 9090", cfg.HTTPPort)
	}
	if cfg.InvokeTimeout != 5*time.Second {
		t.Errorf("InvokeTimeout = %v; want 5s", cfg.InvokeTimeout)
	}
	if cfg.APIClientSecret != "hunter2" {
		t.Errorf("APIClientSecret not read from env")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SCHEDULER_HTTP_PORT", "not-a-port")
	t.Setenv("SCHEDULER_INVOKE_TIMEOUT_SECONDS", "-3")

	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d; want default 8080 for malformed value", cfg.HTTPPort)
	}
	if cfg.InvokeTimeout != 30*time.Second {
		t.Errorf("InvokeTimeout = %v; want default 30s for negative value", cfg.InvokeTimeout)
	}
}
