// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/mushaf/internal/platform/request"
	"github.com/taibuivan/mushaf/internal/platform/respond"
	"github.com/taibuivan/mushaf/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for bookmarks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new bookmark [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with bookmark endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listBookmarks)
	router.Post("/", handler.createBookmark)
	router.Delete("/{id}", handler.deleteBookmark)

	return router
}

/*
GET /api/bookmarks.

Description: Lists bookmarks, newest first.

Request (Query):
  - page: int (default 1)
  - limit: int (default 50, max 200)

Response:
  - 200: []Bookmark with pagination meta
*/
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	bookmarks, meta, err := handler.service.Page(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, bookmarks, meta)
}

/*
POST /api/bookmarks.

Request (Body):
  - chapter: int
  - verse_number: int

Response:
  - 201: Bookmark: Created entity
  - 400: VALIDATION_ERROR: Invalid JSON or verse
*/
func (handler *Handler) createBookmark(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.service.Create(request.Context(), input.Chapter, input.VerseNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, bookmark)
}

/*
DELETE /api/bookmarks/{id}.

Response:
  - 204: Deleted
  - 400: VALIDATION_ERROR: Malformed id
  - 404: NOT_FOUND: No such bookmark
*/
func (handler *Handler) deleteBookmark(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
