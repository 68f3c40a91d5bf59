// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package document manages the downloadable document library: certificates,
declarations and technical sheets.

Documents are not translated. Each file is tagged with the language it is
written in, which may be any registered language, including the display-only
ones that the site itself is not translated into.
*/
package document

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Language  i18n.Lang `json:"language"`
	Category  string    `json:"category"`
	FileURL   string    `json:"file_url"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows listings. Empty fields do not filter.
type Filter struct {
	Language   i18n.Lang
	Category   string
	ActiveOnly bool
}
