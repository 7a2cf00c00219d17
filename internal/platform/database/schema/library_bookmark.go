package schema

import "github.com/taibuivan/mushaf/internal/platform/constants"

// LibraryBookmarkTable represents the 'library.bookmark' table
type LibraryBookmarkTable struct {
	Table       string
	LocalTable  string
	ID          string
	Chapter     string
	VerseNumber string
	CreatedAt   string
}

// LibraryBookmark is the schema definition for library.bookmark
var LibraryBookmark = LibraryBookmarkTable{
	Table:       constants.SchemaLibrary + ".bookmark",
	LocalTable:  "bookmark",
	ID:          "id",
	Chapter:     "chapter",
	VerseNumber: "versenumber",
	CreatedAt:   "createdat",
}
