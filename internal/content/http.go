// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/apperr"
	requestutil "github.com/taibuivan/mushaf/internal/platform/request"
	"github.com/taibuivan/mushaf/internal/platform/respond"
	"github.com/taibuivan/mushaf/internal/platform/validate"
)

// # Handler Implementation

// Handler proxies the content provider through this service, so clients
// benefit from the shared cache.
type Handler struct {
	client Client
}

// NewHandler constructs a new content [Handler].
func NewHandler(client Client) *Handler {
	return &Handler{client: client}
}

// ChapterRoutes returns the router mounted at /api/chapters.
func (handler *Handler) ChapterRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listChapters)
	return router
}

// VerseRoutes returns the router mounted at /api/verses.
func (handler *Handler) VerseRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{mode}/{id}", handler.listVerses)
	return router
}

/*
GET /api/chapters.

Description: Returns the chapter catalog.

Response:
  - 200: []Chapter
  - 502: UPSTREAM_ERROR: Provider unreachable or malformed response
  - 504: UPSTREAM_TIMEOUT: Provider did not answer in time
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	chapters, err := handler.client.Chapters(request.Context())
	if err != nil {
		respond.Error(writer, request, upstreamError(err))
		return
	}

	respond.OK(writer, chapters)
}

/*
GET /api/verses/{mode}/{id}.

Description: Returns the verse sequence of one locator.

Request:
  - mode: chapter|surah|division|juz|page
  - id: int (within the mode's range)

Response:
  - 200: Sequence
  - 400: VALIDATION_ERROR: Unknown mode or out-of-range id
  - 502: UPSTREAM_ERROR: Provider failure
*/
func (handler *Handler) listVerses(writer http.ResponseWriter, request *http.Request) {
	mode, err := locator.ParseMode(requestutil.Param(request, "mode"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("mode", "Must be one of: chapter, division, page"))
		return
	}

	id, err := strconv.Atoi(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("id", "Must be an integer"))
		return
	}

	loc, err := locator.New(mode, id)
	if err != nil {
		lo, hi := mode.Bounds()
		v := &validate.Validator{}
		v.Range("id", id, lo, hi)
		respond.Error(writer, request, v.Err())
		return
	}

	seq, err := handler.client.Verses(request.Context(), loc)
	if err != nil {
		respond.Error(writer, request, upstreamError(err))
		return
	}

	respond.OK(writer, seq)
}

func upstreamError(err error) error {
	var fetchErr *FetchError
	switch {
	case !errors.As(err, &fetchErr):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.GatewayTimeout("Content provider timed out", err)
	default:
		return apperr.BadGateway("Content provider unavailable", err)
	}
}
