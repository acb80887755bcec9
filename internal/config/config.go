// Package config provides centralized configuration management for crmdesk.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Session    SessionConfig
	Import     ImportConfig
	List       ListConfig
	Rate       RateLimitConfig
	Security   SecurityConfig
	Logging    LoggingConfig
	History    HistoryConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// BackendConfig holds settings for the CRM REST backend.
type BackendConfig struct {
	// URL is the backend origin; "/api" is appended (default: http://localhost:5000)
	URL string `env:"CRM_API_URL" envAlt:"VITE_API_URL" default:"http://localhost:5000"`

	// Timeout bounds each backend call. Zero leaves the transport default in place.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"0s"`
}

// SessionConfig holds settings for the local session store.
type SessionConfig struct {
	// DBPath is the sqlite file holding token, user and remembered email (default: crmdesk-session.db)
	DBPath string `env:"SESSION_DB_PATH" default:"crmdesk-session.db"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum accepted import file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10485760"`

	// ErrorPreview is how many per-row errors are listed before the overflow count (default: 10)
	ErrorPreview int `env:"IMPORT_ERROR_PREVIEW" default:"10"`

	// MaxConcurrent is how many imports may be in flight across all operators (default: 4)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`
}

// ListConfig holds list view settings shared by every screen.
type ListConfig struct {
	// PageSize is the fixed number of rows per page (default: 10)
	PageSize int `env:"LIST_PAGE_SIZE" default:"10"`

	// Timezone is the IANA zone used to resolve date range bounds (default: Local)
	Timezone string `env:"LIST_TIMEZONE" default:"Local"`
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
	// RequireAPIKey enables X-API-Key authentication on /api (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HistoryConfig holds the optional import history database.
type HistoryConfig struct {
	// DatabaseURL is a PostgreSQL connection string. Empty disables import history.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// RetentionDays is how long history entries are kept; 0 keeps them forever (default: 90)
	RetentionDays int `env:"HISTORY_RETENTION_DAYS" default:"90"`

	// PruneInterval is how often expired entries are removed (default: 24h)
	PruneInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" default:"24h"`
}

// ValidationConfig holds client-side form validation settings.
type ValidationConfig struct {
	// PhoneRegion is the default region for numbers without a country code (default: US)
	PhoneRegion string `env:"PHONE_REGION" default:"US"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// APIBase returns the backend URL with the "/api" prefix the backend mounts its routes under.
func (c *BackendConfig) APIBase() string {
	u := c.URL
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u + "/api"
}

// HistoryEnabled reports whether import history should be recorded.
func (c *HistoryConfig) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

// Location resolves the list time zone. Unknown names fall back to time.Local.
func (c *ListConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
