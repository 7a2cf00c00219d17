// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/internal/content"
)

func newContentRouter(client content.Client) http.Handler {
	handler := content.NewHandler(client)
	router := chi.NewRouter()
	router.Mount("/api/chapters", handler.ChapterRoutes())
	router.Mount("/api/verses", handler.VerseRoutes())
	return router
}

func TestHandler_Verses(t *testing.T) {
	router := newContentRouter(&countingClient{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/verses/juz/30", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data content.Sequence `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "division:30", body.Data.Locator.String())
	assert.Len(t, body.Data.Verses, 1)
}

func TestHandler_VersesValidation(t *testing.T) {
	router := newContentRouter(&countingClient{})

	for _, path := range []string{"/api/verses/page/605", "/api/verses/verse/1", "/api/verses/chapter/x"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, path)
	}
}

func TestHandler_UpstreamFailure(t *testing.T) {
	router := newContentRouter(&countingClient{err: &content.FetchError{Op: "chapters", Err: errors.New("down")}})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/chapters", nil))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UPSTREAM_ERROR")
	assert.NotContains(t, recorder.Body.String(), "down")
}

func TestHandler_UpstreamTimeout(t *testing.T) {
	cause := fmt.Errorf("get chapters: %w", context.DeadlineExceeded)
	router := newContentRouter(&countingClient{err: &content.FetchError{Op: "chapters", Err: cause}})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/chapters", nil))

	assert.Equal(t, http.StatusGatewayTimeout, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UPSTREAM_TIMEOUT")
}
