// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/internal/platform/sqlite"
)

func TestOpen_CreatesSchemaAndReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "library.db")

	db, err := sqlite.Open(ctx, path, slog.Default())
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO setting (key, value, updatedat) VALUES ('k', 'v', 1)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must keep the data and tolerate the existing schema.
	db, err = sqlite.Open(ctx, path, slog.Default())
	require.NoError(t, err)
	defer db.Close()

	var value string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM setting WHERE key = 'k'`).Scan(&value))
	assert.Equal(t, "v", value)
	assert.NoError(t, sqlite.Ping(ctx, db))
}

func TestOpen_RejectsInvalidChapter(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:", slog.Default())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO bookmark (chapter, versenumber, createdat) VALUES (115, 1, 1)`)
	assert.Error(t, err)
}
