// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

const FieldName = "name"

// Category groups brochures on the public product pages.
type Category struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Name         string            `json:"name"`
	Translations i18n.Translations `json:"translations"`
	SortOrder    int               `json:"sort_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (c *Category) LocalizedFields() i18n.Translations { return c.Translations }

func (c *Category) BaseField(field string) string {
	if field == FieldName {
		return c.Name
	}
	return ""
}

// View is a category resolved into one display language.
type View struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func (c *Category) Localize(lang i18n.Lang) View {
	return View{ID: c.ID, Slug: c.Slug, Name: i18n.Resolve(c, FieldName, lang), SortOrder: c.SortOrder}
}
