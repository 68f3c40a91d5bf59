// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pipemill/pkg/pagination"
)

/*
TestFromRequest clamps bad input instead of failing the request.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=-5", 1, 20, 0},
		{"?page=abc&limit=1000", 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestMeta rounds the page count up.
*/
func TestMeta(t *testing.T) {
	meta := pagination.Params{Page: 2, Limit: 20}.Meta(41)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, meta)
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
}
