// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package brochure

import (
	"strings"
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// Status is the publication state of a brochure row.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"

	// StatusDraft marks rows produced by the translation pipeline awaiting review.
	StatusDraft Status = "draft"
)

// Statuses lists every valid [Status].
var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusDraft)}

// Brochure is one language variant of a product brochure.
//
// Rows of the same logical brochure share TranslationGroup. Category, ImageURL,
// Status, Active and SortOrder are shared across the group; Name, Description and
// PDFURL belong to the row.
type Brochure struct {
	ID                  string    `json:"id"`
	Language            i18n.Lang `json:"language"`
	TranslationGroup    string    `json:"translation_group,omitempty"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	PDFURL              string    `json:"pdf_url"`
	ImageURL            string    `json:"image_url"`
	Status              Status    `json:"status"`
	Active              bool      `json:"active"`
	SortOrder           int       `json:"sort_order"`
	TranslationMetadata *Metadata `json:"translation_metadata,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Metadata records how a row was produced by the translation pipeline.
type Metadata struct {
	SourceLanguage     i18n.Lang `json:"sourceLanguage"`
	OriginalBrochureID string    `json:"originalBrochureId"`
	WordCount          int       `json:"wordCount"`
	TranslatedAt       time.Time `json:"translatedAt"`
}

// Filter narrows admin listings. Empty fields do not filter.
type Filter struct {
	Language i18n.Lang
	Category string
	Status   Status
	Group    string
	Query    string
}

// Localized field names used in translation maps.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPDFURL      = "pdf_url"
)

// LocalizedFields lists the per-language fields of a brochure. The PDF is a
// per-language asset, so it travels with the text.
var LocalizedFields = []string{FieldName, FieldDescription, FieldPDFURL}

// # Translation Group Row

func (b *Brochure) RowID() string        { return b.ID }
func (b *Brochure) Lang() i18n.Lang      { return b.Language }
func (b *Brochure) GroupID() string      { return b.TranslationGroup }
func (b *Brochure) SetGroupID(id string) { b.TranslationGroup = id }
func (b *Brochure) Created() time.Time   { return b.CreatedAt }

// SimilarityKey buckets legacy rows for retroactive grouping.
func (b *Brochure) SimilarityKey() (string, string) {
	return b.Name, b.Category
}

// Sibling returns an unsaved row for lang sharing the receiver's group-wide fields.
// The PDF is per language and is not copied.
func (b *Brochure) Sibling(lang i18n.Lang) *Brochure {
	return &Brochure{
		Language:  lang,
		Category:  b.Category,
		ImageURL:  b.ImageURL,
		Status:    b.Status,
		Active:    b.Active,
		SortOrder: b.SortOrder,
	}
}

// ApplyShared copies the group-wide fields of src.
//
// Status and Active only travel between published rows: a draft keeps its own
// until an editor publishes it, and a draft primary never unpublishes siblings.
func (b *Brochure) ApplyShared(src *Brochure) bool {
	changed := false

	if b.Category != src.Category {
		b.Category, changed = src.Category, true
	}
	if b.ImageURL != src.ImageURL {
		b.ImageURL, changed = src.ImageURL, true
	}
	if b.SortOrder != src.SortOrder {
		b.SortOrder, changed = src.SortOrder, true
	}

	if b.Status != StatusDraft && src.Status != StatusDraft {
		if b.Status != src.Status {
			b.Status, changed = src.Status, true
		}
		if b.Active != src.Active {
			b.Active, changed = src.Active, true
		}
	}

	return changed
}

// ApplyLocalized sets name, description and PDF from fields. A blank name is
// ignored so a row can never lose its name; the others are set whenever present.
func (b *Brochure) ApplyLocalized(fields i18n.Fields) bool {
	changed := false

	if name, ok := fields[FieldName]; ok && strings.TrimSpace(name) != "" && name != b.Name {
		b.Name, changed = name, true
	}
	if description, ok := fields[FieldDescription]; ok && description != b.Description {
		b.Description, changed = description, true
	}
	if pdf, ok := fields[FieldPDFURL]; ok && pdf != b.PDFURL {
		b.PDFURL, changed = pdf, true
	}

	return changed
}

// Clone returns a deep copy.
func (b *Brochure) Clone() *Brochure {
	c := *b
	if b.TranslationMetadata != nil {
		metadata := *b.TranslationMetadata
		c.TranslationMetadata = &metadata
	}
	return &c
}

// IsPublished reports whether the row is visible on the public site.
func (b *Brochure) IsPublished() bool {
	return b.Active && b.Status == StatusActive
}
