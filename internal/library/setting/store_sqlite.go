// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taibuivan/mushaf/internal/platform/database/schema"
	"github.com/taibuivan/mushaf/internal/platform/dberr"
)

// SQLiteRepository implements [Repository] on the local SQLite file.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository constructs a SQLite backed settings store.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// All implements [Repository].
func (repository *SQLiteRepository) All(context context.Context) (map[string]string, error) {
	table := schema.SystemSetting
	query := fmt.Sprintf(`SELECT %s, %s FROM %s`, table.Key, table.Value, table.LocalTable)

	rows, err := repository.db.QueryContext(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_settings")
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, dberr.Wrap(err, resourceName, "scan_setting")
		}
		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName, "iterate_settings")
	}
	return settings, nil
}

// Set implements [Repository].
func (repository *SQLiteRepository) Set(context context.Context, key, value string) error {
	table := schema.SystemSetting
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)
		ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s
	`,
		table.LocalTable, table.Key, table.Value, table.UpdatedAt,
		table.Key,
		table.Value, table.Value,
		table.UpdatedAt, table.UpdatedAt,
	)

	_, err := repository.db.ExecContext(context, query, key, value, repository.now().UnixMilli())
	return dberr.Wrap(err, resourceName, "upsert_setting")
}
