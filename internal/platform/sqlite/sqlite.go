// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the local, single-user library database.
//
// # Architecture
//
// It is the on-disk counterpart of package postgres: the reader binary and
// small deployments keep bookmarks and settings in one SQLite file. The
// modernc.org/sqlite driver is pure Go, so no CGO toolchain is needed.
//
// The schema is created on open (CREATE TABLE IF NOT EXISTS); there is no
// migration history for the local file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/taibuivan/mushaf/internal/platform/database/schema"
)

// pragmas are applied through the DSN so every pooled connection gets them.
const pragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Open opens (or creates) the SQLite database at path and ensures the schema exists.
//
// # Parameters
//   - ctx: Context for the initial ping and schema statements.
//   - path: File path, or ":memory:" for a throwaway database.
//   - logger: Structured logger for lifecycle events.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	db, err := sql.Open("sqlite", path+separator+pragmas)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// A single connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	logger.Info("sqlite_database_ready", slog.String("path", path))
	return db, nil
}

// Ping verifies that the SQLite handle is usable.
func Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	bookmark := schema.LibraryBookmark
	setting := schema.SystemSetting

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s INTEGER PRIMARY KEY AUTOINCREMENT,
			%s INTEGER NOT NULL CHECK (%s BETWEEN 1 AND 114),
			%s INTEGER NOT NULL CHECK (%s >= 1),
			%s INTEGER NOT NULL
		)`,
			bookmark.LocalTable,
			bookmark.ID,
			bookmark.Chapter, bookmark.Chapter,
			bookmark.VerseNumber, bookmark.VerseNumber,
			bookmark.CreatedAt,
		),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s DESC, %s DESC)`,
			bookmark.LocalTable, bookmark.CreatedAt, bookmark.LocalTable, bookmark.CreatedAt, bookmark.ID),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s TEXT PRIMARY KEY,
			%s TEXT NOT NULL,
			%s INTEGER NOT NULL
		)`,
			setting.LocalTable,
			setting.Key,
			setting.Value,
			setting.UpdatedAt,
		),
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	return nil
}
