// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package project manages reference projects: completed installations shown on
// the public site with per-language title, description and location.
package project

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// Status is the publication state of a project.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// Statuses lists every valid [Status].
var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusDraft)}

// Translated field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLocation    = "location"
)

// TranslatedFields lists the fields carried per language.
var TranslatedFields = []string{FieldTitle, FieldDescription, FieldLocation}

// RequiredFields must be present in the default language before a save.
var RequiredFields = []string{FieldTitle, FieldDescription}

// Project is a reference installation.
//
// Title, Description and Location mirror the English translation; they are
// derived on every save and kept for legacy readers.
type Project struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Location     string            `json:"location"`
	Year         *int              `json:"year"`
	ImageURL     string            `json:"image_url"`
	Gallery      []string          `json:"gallery"`
	Translations i18n.Translations `json:"translations"`
	Status       Status            `json:"status"`
	Active       bool              `json:"active"`
	SortOrder    int               `json:"sort_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Filter narrows admin listings.
type Filter struct {
	Status Status
	Query  string
}

// LocalizedFields implements [i18n.Localized].
func (p *Project) LocalizedFields() i18n.Translations { return p.Translations }

// BaseField implements [i18n.Localized].
func (p *Project) BaseField(field string) string {
	switch field {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldLocation:
		return p.Location
	}
	return ""
}

// IsPublished reports whether the project is shown on the public site.
func (p *Project) IsPublished() bool {
	return p.Active && p.Status == StatusActive
}

// View is a project resolved into one display language.
type View struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Year        *int     `json:"year,omitempty"`
	ImageURL    string   `json:"image_url"`
	Gallery     []string `json:"gallery"`
}

// Localize resolves the translated fields for lang.
func (p *Project) Localize(lang i18n.Lang) View {
	fields := i18n.ResolveAll(p, lang, TranslatedFields...)
	return View{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       fields[FieldTitle],
		Description: fields[FieldDescription],
		Location:    fields[FieldLocation],
		Year:        p.Year,
		ImageURL:    p.ImageURL,
		Gallery:     p.Gallery,
	}
}
