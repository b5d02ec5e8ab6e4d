// Package config provides application-wide configuration loaded from env vars.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for the scheduler.
type Config struct {
	// Storage
	DBPath string // SCHEDULER_DB_PATH — default: "scheduler.db"

	// HTTP server
	HTTPHost string // SCHEDULER_HTTP_HOST — default: "0.0.0.0"
	HTTPPort int    // SCHEDULER_HTTP_PORT — default: 8080

	// Invocation
	InvokeTimeout time.Duration // SCHEDULER_INVOKE_TIMEOUT_SECONDS — default: 30s

	// API auth
	APIClientID     string // SCHEDULER_API_CLIENT_ID — default: "scheduler"
	APIClientSecret string // SCHEDULER_API_CLIENT_SECRET — default: "" (auth endpoint disabled when empty)
}

const (
	envKeyDBPath          = "SCHEDULER_DB_PATH"
	envKeyHTTPHost        = "SCHEDULER_HTTP_HOST"
	envKeyHTTPPort        = "SCHEDULER_HTTP_PORT"
	envKeyInvokeTimeout   = "SCHEDULER_INVOKE_TIMEOUT_SECONDS"
	envKeyAPIClientID     = "SCHEDULER_API_CLIENT_ID"
	envKeyAPIClientSecret = "SCHEDULER_API_CLIENT_SECRET"
)

const defaultInvokeTimeout = 30 * time.Second

// Load reads configuration from environment variables, applying defaults for
// missing or malformed values.
func Load() Config {
	return Config{
		DBPath:          envOr(envKeyDBPath, "scheduler.db"),
		HTTPHost:        envOr(envKeyHTTPHost, "0.0.0.0"),
		HTTPPort:        envIntOr(envKeyHTTPPort, 8080),
		InvokeTimeout:   envSecondsOr(envKeyInvokeTimeout, defaultInvokeTimeout),
		APIClientID:     envOr(envKeyAPIClientID, "scheduler"),
		APIClientSecret: os.Getenv(envKeyAPIClientSecret),
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envSecondsOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
