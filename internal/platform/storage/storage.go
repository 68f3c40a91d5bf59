// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage keeps uploaded files (brochure PDFs, images) on the local disk.

Files are stored flat under one directory with a random name and served back
under a public URL prefix. The translation pipeline reads them back through
[Local.Open], which only accepts URLs this package produced.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

var (
	// ErrExternal is returned by Open for absolute http(s) URLs.
	ErrExternal = errors.New("storage: file is hosted externally")

	// ErrNotFound is returned by Open when the file does not exist.
	ErrNotFound = errors.New("storage: file not found")

	// ErrInvalidPath is returned by Open for URLs outside the public prefix.
	ErrInvalidPath = errors.New("storage: invalid file path")
)

// allowedExtensions lists the accepted upload types, lowercase without the dot.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"svg":  true,
}

// Upload describes a stored file.
type Upload struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// Local stores files in a directory on disk.
type Local struct {
	dir        string
	publicPath string
	maxBytes   int64
}

// NewLocal prepares dir and returns a [Local] serving files under publicPath.
func NewLocal(dir, publicPath string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Local{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// Dir returns the directory files are stored in.
func (local *Local) Dir() string { return local.dir }

// PublicPath returns the URL prefix of stored files, without a trailing slash.
func (local *Local) PublicPath() string { return local.publicPath }

// MaxBytes returns the upload size cap.
func (local *Local) MaxBytes() int64 { return local.maxBytes }

/*
Upload stores the contents of reader under a fresh random name.

The body is copied to a temporary file first and renamed into place only when
it fits the size cap, so a rejected upload never leaves a partial file behind.

Returns:
  - Upload: the public URL and stored size
  - error: VALIDATION_ERROR for a disallowed extension, PAYLOAD_TOO_LARGE over the cap
*/
func (local *Local) Upload(ctx context.Context, name string, reader io.Reader) (Upload, error) {
	ext, err := extension(name)
	if err != nil {
		return Upload{}, err
	}
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}

	temp, err := os.CreateTemp(local.dir, ".upload-*")
	if err != nil {
		return Upload{}, fmt.Errorf("storage: create temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	size, copyErr := io.Copy(temp, io.LimitReader(reader, local.maxBytes+1))
	closeErr := temp.Close()
	if copyErr != nil {
		return Upload{}, fmt.Errorf("storage: write upload: %w", copyErr)
	}
	if closeErr != nil {
		return Upload{}, fmt.Errorf("storage: close upload: %w", closeErr)
	}
	if size > local.maxBytes {
		return Upload{}, apperr.PayloadTooLarge(local.maxBytes)
	}

	stored := uuid.New() + "." + ext
	if err := os.Rename(tempPath, filepath.Join(local.dir, stored)); err != nil {
		return Upload{}, fmt.Errorf("storage: store upload: %w", err)
	}

	return Upload{
		URL:          local.publicPath + "/" + stored,
		OriginalName: filepath.Base(name),
		Size:         size,
	}, nil
}

/*
Open returns the contents of a file previously stored by [Local.Upload].

Returns:
  - io.ReadCloser: the file, to be closed by the caller
  - int64: its size in bytes
  - error: ErrExternal, ErrInvalidPath or ErrNotFound
*/
func (local *Local) Open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	lower := strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return nil, 0, ErrExternal
	}

	name, err := local.resolve(url)
	if err != nil {
		return nil, 0, err
	}

	file, err := os.Open(filepath.Join(local.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("storage: open %s: %w", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	return file, info.Size(), nil
}

// resolve maps a public URL to a file name inside the upload directory.
func (local *Local) resolve(url string) (string, error) {
	prefix := local.publicPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrInvalidPath
	}

	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || path.Clean(name) != name {
		return "", ErrInvalidPath
	}
	return name, nil
}

// extension returns the lowercase extension of name when it is allowed.
func extension(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !allowedExtensions[ext] {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "file",
			Message: "File type is not allowed (pdf, jpg, jpeg, png, webp, svg)",
		})
	}
	return ext, nil
}
