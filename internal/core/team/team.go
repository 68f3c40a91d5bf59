// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package team manages the people shown on the "About us" page.
package team

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

const (
	FieldRole = "role"
	FieldBio  = "bio"
)

var TranslatedFields = []string{FieldRole, FieldBio}

// Member is one person on the team page. Names are not translated.
type Member struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Bio          string            `json:"bio"`
	PhotoURL     string            `json:"photo_url"`
	Email        string            `json:"email"`
	Translations i18n.Translations `json:"translations"`
	Active       bool              `json:"active"`
	SortOrder    int               `json:"sort_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (m *Member) LocalizedFields() i18n.Translations { return m.Translations }

func (m *Member) BaseField(field string) string {
	switch field {
	case FieldRole:
		return m.Role
	case FieldBio:
		return m.Bio
	}
	return ""
}

type View struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
	Email    string `json:"email,omitempty"`
}

func (m *Member) Localize(lang i18n.Lang) View {
	fields := i18n.ResolveAll(m, lang, TranslatedFields...)
	return View{
		ID:       m.ID,
		Name:     m.Name,
		Role:     fields[FieldRole],
		Bio:      fields[FieldBio],
		PhotoURL: m.PhotoURL,
		Email:    m.Email,
	}
}
