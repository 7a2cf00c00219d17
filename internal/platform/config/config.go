// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, content client, player) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Both binaries (cmd/api and cmd/reader) read the same schema.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported values for STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the mushaf binaries.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Library store (bookmarks and settings)
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"./data/mushaf.db"`

	// Relational Database (PostgreSQL), required when StoreDriver is postgres.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath overrides the embedded SQL migrations with a directory.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Content caching is disabled when empty.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	// Content provider
	ContentAPIURL        string        `env:"CONTENT_API_URL"        envDefault:"https://api.quran.com/api/v4"`
	ContentLocale        string        `env:"CONTENT_LOCALE"         envDefault:"en"`
	ContentScript        string        `env:"CONTENT_SCRIPT"         envDefault:"text_uthmani"`
	ContentTranslationID int           `env:"CONTENT_TRANSLATION_ID" envDefault:"131"`
	ContentRecitationID  int           `env:"CONTENT_RECITATION_ID"  envDefault:"7"`
	ContentPageSize      int           `env:"CONTENT_PAGE_SIZE"      envDefault:"50"`
	ContentTimeout       time.Duration `env:"CONTENT_TIMEOUT"        envDefault:"10s"`
	ContentRPS           float64       `env:"CONTENT_RPS"            envDefault:"5"`

	// Audio playback
	AudioBaseURL string `env:"AUDIO_BASE_URL" envDefault:"https://verses.quran.com/"`
	AudioPlayer  string `env:"AUDIO_PLAYER"   envDefault:"mpv --no-video --really-quiet"`

	// StateDir overrides the process-local state directory (defaults to XDG_STATE_HOME/mushaf).
	StateDir string `env:"STATE_DIR"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field requirements that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config: SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ContentPageSize < 1 {
		return fmt.Errorf("config: CONTENT_PAGE_SIZE must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins accepted outside development.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
