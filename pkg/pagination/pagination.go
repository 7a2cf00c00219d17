// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// Pages are requested with "page" and "limit" query parameters and described
// to the client by a [Meta] block next to the data.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 50
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 200
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from Page and Limit.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta describes page p of a collection holding total items.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

// FromRequest parses "page" and "limit". Missing, malformed or out-of-range
// values fall back to [DefaultPage] and [DefaultLimit].
func FromRequest(request *http.Request) Params {
	page := intQuery(request, "page", DefaultPage)
	limit := intQuery(request, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

func intQuery(request *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(request.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}
