// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/taibuivan/mushaf/internal/platform/apperr"
	"github.com/taibuivan/mushaf/internal/platform/ctxutil"
)

// PanicRecovery converts a handler panic into a logged 500.
//
// [http.ErrAbortHandler] is re-raised so the server still aborts the response.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				writeError(writer, http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred")
			}()

			next.ServeHTTP(writer, request)
		})
	}
}
