// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: [RequestID] assigns a correlation id.
  - Log: [StructuredLogger] scopes a logger to the request and records the outcome.
  - Guard: [RateLimit] and [CORS].
  - Safe: [PanicRecovery] turns a handler panic into a 500.

Domain handlers (bookmarks, settings, content proxy) stay free of
infrastructure-level concerns.
*/
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// RealIP extracts the client address, preferring proxy headers.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// writeError emits the error envelope used by the respond package.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldError: message,
		constants.FieldCode:  code,
	})
}
