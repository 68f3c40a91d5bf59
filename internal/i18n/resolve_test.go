// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pipemill/internal/i18n"
)

// record is a minimal [i18n.Localized] for table tests.
type record struct {
	translations i18n.Translations
	bare         i18n.Fields
}

func (r record) LocalizedFields() i18n.Translations { return r.translations }
func (r record) BaseField(field string) string      { return r.bare[field] }

/*
TestResolve_FallbackTiers covers each of the four fallback tiers.
*/
func TestResolve_FallbackTiers(t *testing.T) {
	tests := []struct {
		name   string
		record record
		lang   i18n.Lang
		want   string
	}{
		{
			name: "tier1_requested_language",
			record: record{
				translations: i18n.Translations{i18n.MK: {"title": "Наслов"}, i18n.EN: {"title": "Title"}},
				bare:         i18n.Fields{"title": "Bare"},
			},
			lang: i18n.MK,
			want: "Наслов",
		},
		{
			name: "tier2_english",
			record: record{
				translations: i18n.Translations{i18n.MK: {"title": ""}, i18n.EN: {"title": "Title"}},
				bare:         i18n.Fields{"title": "Bare"},
			},
			lang: i18n.MK,
			want: "Title",
		},
		{
			name: "whitespace_only_counts_as_empty",
			record: record{
				translations: i18n.Translations{i18n.MK: {"title": "  "}, i18n.EN: {"title": "Title"}},
				bare:         i18n.Fields{"title": "Bare"},
			},
			lang: i18n.MK,
			want: "Title",
		},
		{
			name: "whitespace_everywhere_is_empty",
			record: record{
				translations: i18n.Translations{i18n.MK: {"title": "\t"}, i18n.EN: {"title": " \n "}},
				bare:         i18n.Fields{"title": "   "},
			},
			lang: i18n.MK,
			want: "",
		},
		{
			name: "padded_value_returned_verbatim",
			record: record{
				translations: i18n.Translations{i18n.MK: {"title": " Наслов "}},
			},
			lang: i18n.MK,
			want: " Наслов ",
		},
		{
			name: "tier3_bare_field",
			record: record{
				translations: i18n.Translations{i18n.DE: {"title": "  "}},
				bare:         i18n.Fields{"title": "Bare"},
			},
			lang: i18n.DE,
			want: "Bare",
		},
		{
			name:   "tier3_nil_translations",
			record: record{bare: i18n.Fields{"title": "Bare"}},
			lang:   i18n.MK,
			want:   "Bare",
		},
		{
			name:   "tier4_nothing",
			record: record{translations: i18n.Translations{i18n.EN: {}}},
			lang:   i18n.DE,
			want:   "",
		},
		{
			name: "requested_en_uses_en",
			record: record{
				translations: i18n.Translations{i18n.EN: {"title": "Title"}, i18n.MK: {"title": "Наслов"}},
			},
			lang: i18n.EN,
			want: "Title",
		},
		{
			name: "unsupported_language_falls_to_en",
			record: record{
				translations: i18n.Translations{i18n.EN: {"title": "Title"}},
			},
			lang: i18n.Lang("xx"),
			want: "Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Resolve(tt.record, "title", tt.lang))

			// Deterministic: repeated calls give identical output.
			assert.Equal(t, i18n.Resolve(tt.record, "title", tt.lang), i18n.Resolve(tt.record, "title", tt.lang))
		})
	}
}

/*
TestResolveAll resolves several fields with independent fallbacks.
*/
func TestResolveAll(t *testing.T) {
	r := record{
		translations: i18n.Translations{
			i18n.EN: {"title": "Title", "description": "Desc"},
			i18n.MK: {"title": "Наслов"},
		},
	}

	got := i18n.ResolveAll(r, i18n.MK, "title", "description", "location")
	assert.Equal(t, i18n.Fields{"title": "Наслов", "description": "Desc", "location": ""}, got)
}

/*
TestMatch checks Accept-Language negotiation against the translatable set.
*/
func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   i18n.Lang
	}{
		{"", i18n.EN},
		{"mk-MK,mk;q=0.9,en;q=0.8", i18n.MK},
		{"de-AT", i18n.DE},
		{"ja", i18n.EN},
		{"not a header;;;", i18n.EN},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Match(tt.header))
		})
	}
}

/*
TestParseLang normalizes case and whitespace.
*/
func TestParseLang(t *testing.T) {
	code, ok := i18n.ParseLang(" MK ")
	assert.True(t, ok)
	assert.Equal(t, i18n.MK, code)

	_, ok = i18n.ParseLang("xx")
	assert.False(t, ok)

	assert.True(t, i18n.IsSupported(i18n.DE))
	assert.False(t, i18n.IsSupported(i18n.HR))
	assert.True(t, i18n.IsDisplayTag(i18n.HR))
}
