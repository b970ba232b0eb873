// Package config loads application configuration from environment variables.
// All variables use the PLAN_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Catalog    CatalogConfig
	Navigation NavigationConfig
	Session    SessionConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL runs the
// planner on the bundled catalog only.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
	Migrate  bool // apply the schema at startup
}

// CacheConfig holds Redis connection settings. An empty URL keeps
// navigation state and settings in process memory.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// CatalogConfig holds activity library settings.
type CatalogConfig struct {
	Path    string
	Refresh time.Duration // 0 disables periodic refresh
}

// NavigationConfig holds handoff settings.
type NavigationConfig struct {
	TTL time.Duration
}

// SessionConfig holds lesson session defaults.
type SessionConfig struct {
	DefaultSeconds int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with PLAN_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PLAN_SERVER_PORT", 8080),
			Host: envStr("PLAN_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("PLAN_DATABASE_URL", ""),
			MaxConns: envInt("PLAN_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("PLAN_DATABASE_MIN_CONNS", 5),
			Migrate:  envBool("PLAN_DATABASE_MIGRATE", true),
		},
		Cache: CacheConfig{
			URL: envStr("PLAN_CACHE_URL", ""),
			TTL: envDuration("PLAN_CACHE_TTL", 10*time.Minute),
		},
		Catalog: CatalogConfig{
			Path:    envStr("PLAN_CATALOG_PATH", "./content"),
			Refresh: envDuration("PLAN_CATALOG_REFRESH", 5*time.Minute),
		},
		Navigation: NavigationConfig{
			TTL: envDuration("PLAN_NAVIGATION_TTL", 30*time.Minute),
		},
		Session: SessionConfig{
			DefaultSeconds: envInt("PLAN_SESSION_DEFAULT_SECONDS", 600),
		},
		Log: LogConfig{
			Level:  envStr("PLAN_LOG_LEVEL", "info"),
			Format: envStr("PLAN_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PLAN_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("PLAN_LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("PLAN_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	if c.Catalog.Refresh < 0 {
		return fmt.Errorf("PLAN_CATALOG_REFRESH must not be negative, got %s", c.Catalog.Refresh)
	}

	if c.Navigation.TTL <= 0 {
		return fmt.Errorf("PLAN_NAVIGATION_TTL must be positive, got %s", c.Navigation.TTL)
	}

	if c.Session.DefaultSeconds <= 0 {
		return fmt.Errorf("PLAN_SESSION_DEFAULT_SECONDS must be positive, got %d", c.Session.DefaultSeconds)
	}

	return nil
}

// HasDatabase reports whether a content store database is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasCache reports whether a Redis cache is configured.
func (c *Config) HasCache() bool {
	return c.Cache.URL != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

// envDuration accepts Go durations ("90s", "5m") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
