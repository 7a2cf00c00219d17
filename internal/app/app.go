// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the shared infrastructure of both binaries.

It opens the library store selected by configuration (embedded SQLite or
PostgreSQL), connects the optional Redis cache, and builds the content client
with any stored reader preferences applied on top of the environment defaults.
*/
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/library/bookmark"
	"github.com/taibuivan/mushaf/internal/library/setting"
	"github.com/taibuivan/mushaf/internal/platform/config"
	"github.com/taibuivan/mushaf/internal/platform/constants"
	"github.com/taibuivan/mushaf/internal/platform/migration"
	"github.com/taibuivan/mushaf/internal/platform/postgres"
	"github.com/taibuivan/mushaf/internal/platform/redis"
	"github.com/taibuivan/mushaf/internal/platform/sqlite"
)

// # Library Store

// Library bundles the repositories of the selected store driver.
type Library struct {
	Driver    string
	Bookmarks bookmark.Repository
	Settings  setting.Repository

	ping  func(context.Context) error
	close func()
}

// OpenLibrary connects the configured store and applies its schema.
//
// PostgreSQL runs the versioned migrations; SQLite creates its tables in place.
func OpenLibrary(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Library, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			pool.Close()
			return nil, err
		}
		return postgresLibrary(pool), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return sqliteLibrary(db), nil
	}

	return nil, fmt.Errorf("app: unsupported store driver %q", cfg.StoreDriver)
}

func postgresLibrary(pool *pgxpool.Pool) *Library {
	return &Library{
		Driver:    config.DriverPostgres,
		Bookmarks: bookmark.NewPostgresRepository(pool),
		Settings:  setting.NewPostgresRepository(pool),
		ping:      func(ctx context.Context) error { return postgres.Ping(ctx, pool) },
		close:     pool.Close,
	}
}

func sqliteLibrary(db *sql.DB) *Library {
	return &Library{
		Driver:    config.DriverSQLite,
		Bookmarks: bookmark.NewSQLiteRepository(db),
		Settings:  setting.NewSQLiteRepository(db),
		ping:      func(ctx context.Context) error { return sqlite.Ping(ctx, db) },
		close:     func() { _ = db.Close() },
	}
}

// Ping checks the store connection.
func (l *Library) Ping(ctx context.Context) error {
	return l.ping(ctx)
}

// Close releases the store connection.
func (l *Library) Close() {
	if l.close != nil {
		l.close()
	}
}

// # Cache

// OpenCache connects Redis when REDIS_URL is set. It returns nil otherwise.
func OpenCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*goredis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Info("content_cache_disabled")
		return nil, nil
	}
	return redis.NewClient(ctx, cfg.RedisURL, logger)
}

// # Content

// ContentOptions derives the provider options from configuration and
// stored settings. Stored values win; unparsable or unknown ones are ignored.
func ContentOptions(cfg *config.Config, settings map[string]string, logger *slog.Logger) content.Options {
	opts := content.Options{
		Locale:        cfg.ContentLocale,
		Script:        cfg.ContentScript,
		TranslationID: cfg.ContentTranslationID,
		RecitationID:  cfg.ContentRecitationID,
		PageSize:      cfg.ContentPageSize,
	}

	if value, ok := settings[constants.SettingLocale]; ok && value != "" {
		opts.Locale = value
	}
	if value, ok := settings[constants.SettingScript]; ok {
		if slices.Contains(content.Scripts, value) {
			opts.Script = value
		} else {
			logger.Warn("setting_ignored", slog.String("key", constants.SettingScript), slog.String("value", value))
		}
	}
	opts.TranslationID = intSetting(settings, constants.SettingTranslation, opts.TranslationID, logger)
	opts.RecitationID = intSetting(settings, constants.SettingRecitation, opts.RecitationID, logger)

	return opts
}

func intSetting(settings map[string]string, key string, fallback int, logger *slog.Logger) int {
	value, ok := settings[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logger.Warn("setting_ignored", slog.String("key", key), slog.String("value", value))
		return fallback
	}
	return n
}

// NewContentClient builds the provider client, wrapped in the Redis
// read-through cache when rdb is non-nil.
func NewContentClient(cfg *config.Config, opts content.Options, rdb *goredis.Client, logger *slog.Logger) content.Client {
	client := content.NewHTTPClient(content.ClientConfig{
		BaseURL: cfg.ContentAPIURL,
		Options: opts,
		Timeout: cfg.ContentTimeout,
		RPS:     cfg.ContentRPS,
	}, logger)

	if rdb == nil {
		return client
	}
	return content.NewCachedClient(client, content.NewRedisCache(rdb, cfg.CacheTTL), client.Options().Scope(), logger)
}
