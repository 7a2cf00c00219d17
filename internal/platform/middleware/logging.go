// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/mushaf/internal/platform/ctxutil"
)

// probePaths are polled by orchestrators and logged at debug level only.
var probePaths = map[string]bool{"/health": true, "/ready": true}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *responseRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseRecorder) Write(body []byte) (int, error) {
	n, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += n
	return n, err
}

// StructuredLogger scopes a logger to each request and logs its outcome.
//
// The level follows the status class: 5xx at error, 4xx at warn, the rest at
// info (debug for health probes).
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &responseRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= 500:
				level = slog.LevelError
			case recorder.status >= 400:
				level = slog.LevelWarn
			case probePaths[request.URL.Path]:
				level = slog.LevelDebug
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}
