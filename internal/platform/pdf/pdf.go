// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pdf extracts plain text from brochure PDFs for translation.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"
)

var (
	// ErrNoText is returned for a readable PDF without extractable text (e.g. a scan).
	ErrNoText = errors.New("pdf: no extractable text")

	// ErrUnreadable is returned when the data is not a PDF the parser can read.
	ErrUnreadable = errors.New("pdf: unreadable document")
)

var (
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// Extractor turns PDF bytes into text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

/*
Extract returns the text content of a PDF.

Returns:
  - string: the text, whitespace tidied
  - error: [ErrUnreadable], [ErrNoText], or ctx's error
*/
func (extractor *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrUnreadable
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if recovered := recover(); recovered != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrUnreadable, recovered)
		}
	}()

	reader, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var buffer strings.Builder
	if _, err := io.Copy(&buffer, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text = tidy(buffer.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
