// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n is the multilingual core shared by every content domain.

It owns three things:

  - Language registry: the codes the site understands and what each may be used for.
  - Translation Field Model: [Translations], a language → field → string map with
    pure, non-clobbering mutators and completeness checks.
  - Localized Read Resolver: [Resolve], the fixed fallback order used by every
    public read path.

Nothing in this package performs I/O.
*/
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a short language code such as "en" or "mk".
type Lang string

// Language codes known to the site.
const (
	EN Lang = "en"
	MK Lang = "mk"
	DE Lang = "de"
	FR Lang = "fr"
	AL Lang = "al"
	IT Lang = "it"
	ES Lang = "es"
	BG Lang = "bg"
	SR Lang = "sr"
	HR Lang = "hr"
)

// Default is the authoritative language and the fallback of last resort.
const Default = EN

// Language describes a registry entry.
type Language struct {
	Code       Lang   `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`

	// Translatable languages may carry translated content and be a translation
	// pipeline target. The rest are display-only document tags.
	Translatable bool `json:"translatable"`

	tag language.Tag
}

// registry is ordered: translatable languages first, Default at index 0.
var registry = []Language{
	{Code: EN, Name: "English", NativeName: "English", Translatable: true, tag: language.English},
	{Code: MK, Name: "Macedonian", NativeName: "Македонски", Translatable: true, tag: language.Macedonian},
	{Code: DE, Name: "German", NativeName: "Deutsch", Translatable: true, tag: language.German},
	{Code: FR, Name: "French", NativeName: "Français", tag: language.French},
	{Code: AL, Name: "Albanian", NativeName: "Shqip", tag: language.Albanian},
	{Code: IT, Name: "Italian", NativeName: "Italiano", tag: language.Italian},
	{Code: ES, Name: "Spanish", NativeName: "Español", tag: language.Spanish},
	{Code: BG, Name: "Bulgarian", NativeName: "Български", tag: language.Bulgarian},
	{Code: SR, Name: "Serbian", NativeName: "Српски", tag: language.Serbian},
	{Code: HR, Name: "Croatian", NativeName: "Hrvatski", tag: language.Croatian},
}

var supportedMatcher = language.NewMatcher(supportedTags())

// Languages returns a copy of the full registry.
func Languages() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// Supported returns the translatable language codes, Default first.
func Supported() []Lang {
	var out []Lang
	for _, l := range registry {
		if l.Translatable {
			out = append(out, l.Code)
		}
	}
	return out
}

// DisplayOnly returns the codes accepted only as document tags.
func DisplayOnly() []Lang {
	var out []Lang
	for _, l := range registry {
		if !l.Translatable {
			out = append(out, l.Code)
		}
	}
	return out
}

// Lookup returns the registry entry for code.
func Lookup(code Lang) (Language, bool) {
	for _, l := range registry {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// ParseLang lower-cases and trims raw and reports whether it is a registered code.
func ParseLang(raw string) (Lang, bool) {
	code := Lang(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := Lookup(code)
	return code, ok
}

// IsSupported reports whether code is a translatable language.
func IsSupported(code Lang) bool {
	l, ok := Lookup(code)
	return ok && l.Translatable
}

// IsDisplayTag reports whether code is any registered language, translatable or not.
func IsDisplayTag(code Lang) bool {
	_, ok := Lookup(code)
	return ok
}

// Strings converts codes to plain strings, e.g. for validate.OneOf.
func Strings(codes []Lang) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// Match picks the best translatable language for an Accept-Language header value.
// Unparseable or empty input yields [Default].
func Match(acceptLanguage string) Lang {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, index, confidence := supportedMatcher.Match(tags...)
	if confidence == language.No {
		return Default
	}

	return Supported()[index]
}

func supportedTags() []language.Tag {
	var tags []language.Tag
	for _, l := range registry {
		if l.Translatable {
			tags = append(tags, l.tag)
		}
	}
	return tags
}
