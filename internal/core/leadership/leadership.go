// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package leadership manages the single leadership message on the "About us" page.
package leadership

import (
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// MessageID is the primary key of the only leadership row.
const MessageID = "main"

const (
	FieldMessage     = "message"
	FieldAuthorName  = "author_name"
	FieldAuthorTitle = "author_title"
)

var (
	TranslatedFields = []string{FieldMessage, FieldAuthorName, FieldAuthorTitle}
	RequiredFields   = []string{FieldMessage, FieldAuthorName}
)

type Message struct {
	ID           string            `json:"id"`
	Message      string            `json:"message"`
	AuthorName   string            `json:"author_name"`
	AuthorTitle  string            `json:"author_title"`
	PhotoURL     string            `json:"photo_url"`
	Translations i18n.Translations `json:"translations"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (m *Message) LocalizedFields() i18n.Translations { return m.Translations }

func (m *Message) BaseField(field string) string {
	switch field {
	case FieldMessage:
		return m.Message
	case FieldAuthorName:
		return m.AuthorName
	case FieldAuthorTitle:
		return m.AuthorTitle
	}
	return ""
}

type View struct {
	Message     string `json:"message"`
	AuthorName  string `json:"author_name"`
	AuthorTitle string `json:"author_title"`
	PhotoURL    string `json:"photo_url"`
}

func (m *Message) Localize(lang i18n.Lang) View {
	fields := i18n.ResolveAll(m, lang, TranslatedFields...)
	return View{
		Message:     fields[FieldMessage],
		AuthorName:  fields[FieldAuthorName],
		AuthorTitle: fields[FieldAuthorTitle],
		PhotoURL:    m.PhotoURL,
	}
}
