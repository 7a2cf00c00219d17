// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import "context"

// # Bookmark Data Access

// Repository defines the data access contract for bookmarks.
type Repository interface {

	/*
		List returns every bookmark, newest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Bookmark: Ordered by created_at descending, id descending
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*Bookmark, error)

	/*
		Page returns one window of the same ordering plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int (rows per page)
		  - offset: int (rows to skip)

		Returns:
		  - []*Bookmark: At most limit entries
		  - int: Total number of bookmarks
		  - error: Database retrieval failures
	*/
	Page(context context.Context, limit, offset int) ([]*Bookmark, int, error)

	/*
		Create persists a new bookmark and fills its ID and CreatedAt.

		Parameters:
		  - context: context.Context
		  - bookmark: *Bookmark

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, bookmark *Bookmark) error

	/*
		Delete removes a bookmark by id.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: NOT_FOUND if no row matched, or persistence failures
	*/
	Delete(context context.Context, id int64) error
}
