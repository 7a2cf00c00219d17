// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mushaf/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	cases := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=0&limit=0", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=x&limit=1000", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tc := range cases {
		request := httptest.NewRequest("GET", "/api/bookmarks"+tc.query, nil)
		assert.Equal(t, tc.want, pagination.FromRequest(request), tc.query)
	}
}

func TestMeta(t *testing.T) {
	params := pagination.Params{Page: 2, Limit: 10}
	assert.Equal(t, 10, params.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 10}.Offset())

	meta := pagination.NewMeta(params, 21)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, meta)
	assert.Equal(t, 0, pagination.NewMeta(pagination.Params{Page: 1}, 5).TotalPages)
}
