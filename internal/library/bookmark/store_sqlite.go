// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taibuivan/mushaf/internal/platform/apperr"
	"github.com/taibuivan/mushaf/internal/platform/database/schema"
	"github.com/taibuivan/mushaf/internal/platform/dberr"
)

// SQLiteRepository implements [Repository] on the local SQLite file.
// Timestamps are stored as Unix milliseconds.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository constructs a SQLite backed bookmark store.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// List implements [Repository].
func (repository *SQLiteRepository) List(context context.Context) ([]*Bookmark, error) {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
	`,
		table.ID, table.Chapter, table.VerseNumber, table.CreatedAt,
		table.LocalTable,
		table.CreatedAt, table.ID,
	)

	return repository.query(context, query)
}

// Page implements [Repository].
func (repository *SQLiteRepository) Page(context context.Context, limit, offset int) ([]*Bookmark, int, error) {
	table := schema.LibraryBookmark

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.LocalTable)
	if err := repository.db.QueryRowContext(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_bookmarks")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT ? OFFSET ?
	`,
		table.ID, table.Chapter, table.VerseNumber, table.CreatedAt,
		table.LocalTable,
		table.CreatedAt, table.ID,
	)

	bookmarks, err := repository.query(context, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

func (repository *SQLiteRepository) query(context context.Context, query string, args ...any) ([]*Bookmark, error) {
	rows, err := repository.db.QueryContext(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_bookmarks")
	}
	defer rows.Close()

	bookmarks := []*Bookmark{}
	for rows.Next() {
		var createdAt int64
		bookmark := &Bookmark{}
		if err := rows.Scan(&bookmark.ID, &bookmark.Chapter, &bookmark.VerseNumber, &createdAt); err != nil {
			return nil, dberr.Wrap(err, resourceName, "scan_bookmark")
		}
		bookmark.CreatedAt = time.UnixMilli(createdAt).UTC()
		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName, "iterate_bookmarks")
	}
	return bookmarks, nil
}

// Create implements [Repository].
func (repository *SQLiteRepository) Create(context context.Context, bookmark *Bookmark) error {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)`,
		table.LocalTable, table.Chapter, table.VerseNumber, table.CreatedAt)

	createdAt := repository.now().UTC().Truncate(time.Millisecond)

	result, err := repository.db.ExecContext(context, query, bookmark.Chapter, bookmark.VerseNumber, createdAt.UnixMilli())
	if err != nil {
		return dberr.Wrap(err, resourceName, "create_bookmark")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return dberr.Wrap(err, resourceName, "create_bookmark_id")
	}

	bookmark.ID = id
	bookmark.CreatedAt = createdAt
	return nil
}

// Delete implements [Repository].
func (repository *SQLiteRepository) Delete(context context.Context, id int64) error {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table.LocalTable, table.ID)

	result, err := repository.db.ExecContext(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_bookmark")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_bookmark_rows")
	}
	if affected == 0 {
		return apperr.NotFound(resourceName)
	}
	return nil
}
