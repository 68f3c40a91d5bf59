// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

// Localized is implemented by every record shown on a public page.
type Localized interface {
	// LocalizedFields returns the record's translations map (may be nil).
	LocalizedFields() Translations

	// BaseField returns the record's own bare value for field (may be "").
	BaseField(field string) string
}

// Resolve returns the display value of field for lang.
//
// Fallback order, first non-blank wins:
//
//  1. translations[lang][field]
//  2. translations["en"][field]
//  3. the record's bare field
//  4. ""
//
// The result depends only on the arguments.
func Resolve(r Localized, field string, lang Lang) string {
	if r == nil {
		return ""
	}
	return ResolveValue(r.LocalizedFields(), r.BaseField(field), field, lang)
}

// ResolveValue is [Resolve] for callers holding the parts rather than a [Localized].
func ResolveValue(t Translations, bare, field string, lang Lang) string {
	if v := GetField(t, lang, field); v != "" {
		return v
	}
	if v := GetField(t, Default, field); v != "" {
		return v
	}
	if !isBlank(bare) {
		return bare
	}
	return ""
}

// ResolveAll resolves several fields at once.
func ResolveAll(r Localized, lang Lang, fields ...string) Fields {
	out := make(Fields, len(fields))
	for _, f := range fields {
		out[f] = Resolve(r, f, lang)
	}
	return out
}
