// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mushaf/internal/platform/database/schema"
	"github.com/taibuivan/mushaf/internal/platform/dberr"
)

const resourceName = "Setting"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed settings store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// All implements [Repository].
func (repository *PostgresRepository) All(context context.Context) (map[string]string, error) {
	table := schema.SystemSetting
	query := fmt.Sprintf(`SELECT %s, %s FROM %s`, table.Key, table.Value, table.Table)

	rows, err := repository.db.Query(context, query)
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

/*
Set upserts a setting.

Description: Uses ON CONFLICT on the key to overwrite in place.
*/
func (repository *PostgresRepository) Set(context context.Context, key, value string) error {
	table := schema.SystemSetting
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = NOW()
	`,
		table.Table, table.Key, table.Value, table.UpdatedAt,
		table.Key,
		table.Value, table.Value, table.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query, key, value)
	return dberr.Wrap(err, resourceName, "upsert_setting")
}
