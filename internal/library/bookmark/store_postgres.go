// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mushaf/internal/platform/apperr"
	"github.com/taibuivan/mushaf/internal/platform/database/schema"
	"github.com/taibuivan/mushaf/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed bookmark store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List returns all bookmarks, newest first.

Returns:
  - []*Bookmark: Ordered list (never nil)
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Bookmark, error) {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
	`,
		table.ID, table.Chapter, table.VerseNumber, table.CreatedAt,
		table.Table,
		table.CreatedAt, table.ID,
	)

	return repository.query(context, query)
}

/*
Page returns one window of bookmarks and the total count.

Returns:
  - []*Bookmark: At most limit entries
  - int: Total rows in the table
*/
func (repository *PostgresRepository) Page(context context.Context, limit, offset int) ([]*Bookmark, int, error) {
	table := schema.LibraryBookmark

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_bookmarks")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		table.ID, table.Chapter, table.VerseNumber, table.CreatedAt,
		table.Table,
		table.CreatedAt, table.ID,
	)

	bookmarks, err := repository.query(context, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Bookmark, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "list_bookmarks")
	}
	defer rows.Close()

	bookmarks := []*Bookmark{}
	for rows.Next() {
		bookmark := &Bookmark{}
		if err := rows.Scan(&bookmark.ID, &bookmark.Chapter, &bookmark.VerseNumber, &bookmark.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, resourceName, "scan_bookmark")
		}
		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName, "iterate_bookmarks")
	}
	return bookmarks, nil
}

/*
Create inserts a bookmark and returns its generated id and timestamp.

Parameters:
  - context: context.Context
  - bookmark: *Bookmark
*/
func (repository *PostgresRepository) Create(context context.Context, bookmark *Bookmark) error {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		RETURNING %s, %s
	`,
		table.Table, table.Chapter, table.VerseNumber, table.CreatedAt,
		table.ID, table.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, bookmark.Chapter, bookmark.VerseNumber).
		Scan(&bookmark.ID, &bookmark.CreatedAt)
	return dberr.Wrap(err, resourceName, "create_bookmark")
}

/*
Delete removes a bookmark by id.

Returns:
  - error: NOT_FOUND when no row matched
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.LibraryBookmark
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_bookmark")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceName)
	}
	return nil
}
