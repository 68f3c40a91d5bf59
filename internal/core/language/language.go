// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package language exposes the site's language catalogue: the codes content may
// be translated into and the wider set accepted as document tags.
package language

import "github.com/taibuivan/pipemill/internal/i18n"

// Language is one catalogue entry as shown by the language switcher and the
// admin language tabs.
type Language struct {
	Code         i18n.Lang `json:"code"`
	Name         string    `json:"name"`
	NativeName   string    `json:"native_name"`
	Translatable bool      `json:"translatable"`
	Default      bool      `json:"default"`
}

// Filter narrows the catalogue. A nil Translatable lists everything.
type Filter struct {
	Translatable *bool
}

func fromRegistry(entry i18n.Language) *Language {
	return &Language{
		Code:         entry.Code,
		Name:         entry.Name,
		NativeName:   entry.NativeName,
		Translatable: entry.Translatable,
		Default:      entry.Code == i18n.Default,
	}
}
