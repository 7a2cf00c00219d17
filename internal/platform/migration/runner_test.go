// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/data"
)

func TestPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/mushaf", "pgx5://u:p@db:5432/mushaf"},
		{"postgresql://u:p@db/mushaf?sslmode=disable", "pgx5://u:p@db/mushaf?sslmode=disable"},
		{"pgx5://db/mushaf", "pgx5://db/mushaf"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pgx5DSN(tt.in), tt.in)
	}
}

func TestEmbeddedSource(t *testing.T) {
	names, err := fs.Glob(data.Migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/000001_library.up.sql")

	source, err := embeddedSource()
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	body, identifier, err := source.ReadUp(first)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "library", identifier)

	ddl, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(ddl), "library.bookmark")
}
