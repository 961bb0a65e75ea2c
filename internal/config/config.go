// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Sheets   SheetsConfig
	Supplies SuppliesConfig
	Lock     LockConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StoreConfig holds tabular store settings.
type StoreConfig struct {
	// Driver selects the store backend: memory, sqlite, or postgres (default: sqlite)
	Driver string `env:"STORE_DRIVER" default:"sqlite"`

	// DSN is the backend connection string: a file path for sqlite,
	// a connection URL for postgres, ignored for memory.
	// Supports both STORE_DSN and DATABASE_URL env vars for compatibility.
	DSN string `env:"STORE_DSN" envAlt:"DATABASE_URL" default:"trackhub.db"`
}

// SheetsConfig holds the table names used by the entity engines.
// Defaults match the original workbook tab names.
type SheetsConfig struct {
	// Clients is the client records table (default: Clients)
	Clients string `env:"SHEET_CLIENTS" default:"Clients"`

	// Pets is the pet records table (default: Pets)
	Pets string `env:"SHEET_PETS" default:"Pets"`

	// Orders is the supply orders table (default: Supplies_Orders)
	Orders string `env:"SHEET_ORDERS" default:"Supplies_Orders"`

	// Lines is the supply order line-items table (default: Supplies_Lines)
	Lines string `env:"SHEET_LINES" default:"Supplies_Lines"`

	// Audit is the append-only audit trail table (default: _sys_Audit)
	Audit string `env:"SHEET_AUDIT" default:"_sys_Audit"`
}

// SuppliesConfig holds supply-order settings.
type SuppliesConfig struct {
	// OrderIDFloor is the 12-digit starting point for generated order IDs
	// (default: 200000000000)
	OrderIDFloor string `env:"ORDER_ID_FLOOR" default:"200000000000"`

	// FleaTickBrands is the comma-separated list of flea/tick med brands
	// offered to the UI.
	FleaTickBrands []string `env:"FLEA_TICK_BRANDS"`
}

// LockConfig holds settings for the store-wide write lock taken around
// each read-decide-write sequence.
type LockConfig struct {
	// Mode controls behavior when the lock cannot be acquired within Wait:
	// "lenient" proceeds unlocked, "strict" rejects the write (default: lenient)
	Mode string `env:"LOCK_MODE" default:"lenient"`

	// Wait is how long to wait for the lock before giving up (default: 5s)
	Wait time.Duration `env:"LOCK_WAIT" default:"5s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey enables X-API-Key validation on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Strict reports whether lock acquisition failures should reject the write.
func (c *LockConfig) Strict() bool {
	return c.Mode == "strict"
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
