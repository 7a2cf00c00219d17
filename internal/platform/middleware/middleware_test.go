// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/internal/platform/constants"
	"github.com/taibuivan/mushaf/internal/platform/ctxutil"
	"github.com/taibuivan/mushaf/internal/platform/middleware"
)

type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

/*
TestRequestID_GeneratesAndPropagates verifies a fresh ID is attached to context and response.
*/
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRequestID_KeepsClientValue verifies a client supplied ID is reused.
*/
func TestRequestID_KeepsClientValue(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "client-id", recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestCORS_Origins checks the allow-list outside development.
*/
func TestCORS_Origins(t *testing.T) {
	cfg := corsConfig{origins: []string{"https://reader.example"}}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"listed", "https://reader.example", true},
		{"unlisted", "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRateLimit_RejectsBurstOverflow verifies the token bucket answers 429 once drained.
*/
func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

/*
TestRequestID_ReplacesMalformedValue verifies unsafe client ids are not echoed.
*/
func TestRequestID_ReplacesMalformedValue(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, bad := range []string{"line\nbreak", strings.Repeat("a", 65), "semi;colon"} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRequestID, bad)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		got := recorder.Header().Get(constants.HeaderXRequestID)
		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36)
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := middleware.CORS(corsConfig{development: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	request := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRateLimit_SeparateClientsAndRetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.5, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(addr string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = addr
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:1").Code)

	limited := serve("10.0.0.1:2")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "2", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "TOO_MANY_REQUESTS")
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}
