// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the PostgreSQL library schema with golang-migrate.
//
// Only the postgres store driver uses it; the SQLite driver creates its tables
// on open. Migrations come from the binary (package data) unless a directory
// is configured through MIGRATION_PATH.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/taibuivan/mushaf/data"
)

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - migrationsPath: Directory of .sql files; empty selects the embedded set.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := open(dsn, migrationsPath)
	if err != nil {
		return err
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if err := errors.Join(sourceError, dbError); err != nil {
			logger.Warn("migration_close_failed", slog.Any("error", err))
		}
	}()
	migrator.Log = &migrateLogger{logger: logger}

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

func open(dsn, migrationsPath string) (*migrate.Migrate, error) {
	databaseURL := pgx5DSN(dsn)

	if migrationsPath != "" {
		migrator, err := migrate.New("file://"+migrationsPath, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("migration: open %s: %w", migrationsPath, err)
		}
		return migrator, nil
	}

	embedded, err := embeddedSource()
	if err != nil {
		return nil, err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", embedded, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: open embedded set: %w", err)
	}
	return migrator, nil
}

func embeddedSource() (source.Driver, error) {
	sub, err := fs.Sub(data.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration: embedded set: %w", err)
	}
	driver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: embedded set: %w", err)
	}
	return driver, nil
}

// pgx5DSN rewrites postgres:// URLs to the pgx5:// scheme the driver registers.
func pgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
