// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/validate"
	"github.com/taibuivan/mushaf/pkg/pagination"
)

// # Service Layer

// Service orchestrates business rules for bookmarks.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new bookmark [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns all bookmarks, newest first.
func (service *Service) List(ctx context.Context) ([]*Bookmark, error) {
	return service.repo.List(ctx)
}

// Page returns one page of bookmarks, newest first, with its metadata.
func (service *Service) Page(ctx context.Context, params pagination.Params) ([]*Bookmark, pagination.Meta, error) {
	bookmarks, total, err := service.repo.Page(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return bookmarks, pagination.NewMeta(params, total), nil
}

/*
Create validates and stores a bookmark.

Parameters:
  - ctx: context.Context
  - chapter: int (1–114)
  - verseNumber: int (within the chapter's verse count)

Returns:
  - *Bookmark: Stored entity with id and created_at
  - error: VALIDATION_ERROR or persistence failures
*/
func (service *Service) Create(ctx context.Context, chapter, verseNumber int) (*Bookmark, error) {
	v := &validate.Validator{}
	v.Range(FieldChapter, chapter, 1, locator.ChapterCount)
	if count := locator.VerseCount(chapter); count > 0 {
		v.Range(FieldVerseNumber, verseNumber, 1, count)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	bookmark := &Bookmark{Chapter: chapter, VerseNumber: verseNumber}
	if err := service.repo.Create(ctx, bookmark); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "bookmark_created",
		slog.Int64("bookmark_id", bookmark.ID),
		slog.String("verse_key", locator.VerseKey{Chapter: chapter, Verse: verseNumber}.String()),
	)
	return bookmark, nil
}

// Delete removes a bookmark by id.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return validate.RequiredError(FieldID, "Must be a positive integer")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "bookmark_deleted", slog.Int64("bookmark_id", id))
	return nil
}
