// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package position manages the open positions listed on the careers page.
package position

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// EmploymentType is the contract kind of a position.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

var EmploymentTypes = []string{
	string(EmploymentFullTime), string(EmploymentPartTime),
	string(EmploymentContract), string(EmploymentInternship),
}

const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldRequirements = "requirements"
)

var (
	TranslatedFields = []string{FieldTitle, FieldDescription, FieldRequirements}
	RequiredFields   = []string{FieldTitle, FieldDescription}
)

// Position is an open role. Location and employment type are not translated.
type Position struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Requirements   string            `json:"requirements"`
	Location       string            `json:"location"`
	EmploymentType EmploymentType    `json:"employment_type"`
	Translations   i18n.Translations `json:"translations"`
	Active         bool              `json:"active"`
	SortOrder      int               `json:"sort_order"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (p *Position) LocalizedFields() i18n.Translations { return p.Translations }

func (p *Position) BaseField(field string) string {
	switch field {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldRequirements:
		return p.Requirements
	}
	return ""
}

// View is a position resolved into one display language.
type View struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Requirements   string         `json:"requirements"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
}

func (p *Position) Localize(lang i18n.Lang) View {
	fields := i18n.ResolveAll(p, lang, TranslatedFields...)
	return View{
		ID:             p.ID,
		Title:          fields[FieldTitle],
		Description:    fields[FieldDescription],
		Requirements:   fields[FieldRequirements],
		Location:       p.Location,
		EmploymentType: p.EmploymentType,
	}
}
