// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pipemill/pkg/slug"
)

/*
TestFrom covers Latin accents, Cyrillic transliteration and punctuation cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Water-supply Systems", "water-supply-systems"},
		{"accents", "Rohrsysteme für Kläranlagen", "rohrsysteme-fur-klaranlagen"},
		{"macedonian", "Водни цевки", "vodni-cevki"},
		{"macedonian digraphs", "Ѓорче Петров ќе", "gjorche-petrov-kje"},
		{"punctuation", "  PE-HD / PVC  (Ø110) ", "pe-hd-pvc-110"},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
