// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bookmark manages saved verse bookmarks.

Bookmarks are anonymous and unowned: the library belongs to whoever runs the
instance. Duplicates are permitted; each save is its own entry.

# Core Responsibility

  - Persistence: [Repository] with PostgreSQL and SQLite implementations.
  - Rules: [Service] validates that the verse exists before saving.
  - Transport: [Handler] exposes /api/bookmarks.
*/
package bookmark

import "time"

// # Core Entities

// Bookmark is one saved verse.
type Bookmark struct {
	ID          int64     `json:"id"`
	Chapter     int       `json:"chapter"`
	VerseNumber int       `json:"verse_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput is the body of POST /api/bookmarks.
type CreateInput struct {
	Chapter     int `json:"chapter"`
	VerseNumber int `json:"verse_number"`
}

// # Field Identifiers

const (
	FieldChapter     = "chapter"
	FieldVerseNumber = "verse_number"
	FieldID          = "id"
)

// resourceName is used in NOT_FOUND messages.
const resourceName = "Bookmark"
