// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every mushaf HTTP handler speaks.

Services return [*AppError] values for anything a client may see: invalid
locators or verse keys, missing bookmarks, storage constraint violations and
content provider outages. [respond.Error] renders them as

	{"error": "...", "code": "...", "details": [...]}

and converts any other error into an opaque 500.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnprocessable   = "UNPROCESSABLE"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
)

// AppError carries an HTTP status, a code from the list above, a client-safe
// message and optional field details.
//
// # Security
//
// Cause is logged server-side and never serialized, so SQL text and provider
// URLs stay out of responses.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Bookmark").
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unprocessable is a 422 for well-formed input the store refuses.
func Unprocessable(msg string) *AppError {
	return &AppError{
		Code:       CodeUnprocessable,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// # Server Errors (5xx)

// Internal wraps an unexpected failure. The client sees a generic message.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// BadGateway reports a content provider failure.
func BadGateway(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeUpstream,
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// GatewayTimeout reports a content provider call that ran out of time.
func GatewayTimeout(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamTimeout,
		Message:    msg,
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsNotFound reports whether err carries a NOT_FOUND [AppError].
func IsNotFound(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == CodeNotFound
}
