// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for projects and brochure
// categories (e.g., "water-supply-systems"). Titles are often entered in
// Macedonian first, so Cyrillic is transliterated rather than dropped.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)

	// cyrillic romanizes lowercase Macedonian, Serbian and Bulgarian letters.
	cyrillic = strings.NewReplacer(
		"а", "a", "б", "b", "в", "v", "г", "g", "д", "d", "ѓ", "gj", "ђ", "dj",
		"е", "e", "ж", "zh", "з", "z", "ѕ", "dz", "и", "i", "ј", "j", "й", "y",
		"к", "k", "л", "l", "љ", "lj", "м", "m", "н", "n", "њ", "nj", "о", "o",
		"п", "p", "р", "r", "с", "s", "т", "t", "ќ", "kj", "ћ", "c", "у", "u",
		"ф", "f", "х", "h", "ц", "c", "ч", "ch", "џ", "dzh", "ш", "sh", "щ", "sht",
		"ъ", "a", "ь", "", "ю", "yu", "я", "ya",
	)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Converts to lowercase and transliterates Cyrillic.
// 2. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 3. Removes combining marks (accents).
// 4. Replaces non-alphanumeric characters with hyphens.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Lowercase before transliteration; ѓ and ќ would otherwise decompose to г and к
	result := cyrillic.Replace(strings.ToLower(s))

	// 2. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ = transform.String(t, result)

	// 3. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 4. Clean up hyphenation
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
