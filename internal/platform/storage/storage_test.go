// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/ctxutil"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/storage"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

func newLocal(t *testing.T, maxBytes int64) *storage.Local {
	t.Helper()
	local, err := storage.NewLocal(t.TempDir(), "/uploads/", maxBytes)
	require.NoError(t, err)
	return local
}

/*
TestUploadAndOpen stores a PDF and reads it back through its public URL.
*/
func TestUploadAndOpen(t *testing.T) {
	local := newLocal(t, 1024)
	ctx := context.Background()

	upload, err := local.Upload(ctx, "Water Pipes.PDF", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(upload.URL, ".pdf"))

	// Stored names are time-ordered UUIDv7s.
	stored := strings.TrimSuffix(strings.TrimPrefix(upload.URL, "/uploads/"), ".pdf")
	require.True(t, uuid.IsValid(stored), stored)
	assert.Equal(t, byte('7'), stored[14])

	assert.Equal(t, "Water Pipes.PDF", upload.OriginalName)
	assert.Equal(t, int64(13), upload.Size)

	file, size, err := local.Open(ctx, upload.URL)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(content))
	assert.Equal(t, int64(13), size)
}

/*
TestUpload_Rejects covers the extension allow list and the size cap. A rejected
upload leaves nothing in the directory.
*/
func TestUpload_Rejects(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code string
	}{
		{"executable", "setup.exe", "MZ", "VALIDATION_ERROR"},
		{"no_extension", "brochure", "x", "VALIDATION_ERROR"},
		{"too_large", "big.pdf", strings.Repeat("x", 11), "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := newLocal(t, 10)

			_, err := local.Upload(context.Background(), tt.file, strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.As(err).Code)

			entries, err := os.ReadDir(local.Dir())
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

/*
TestUpload_ExactlyAtLimit accepts a file of exactly the cap.
*/
func TestUpload_ExactlyAtLimit(t *testing.T) {
	local := newLocal(t, 10)

	upload, err := local.Upload(context.Background(), "a.png", strings.NewReader(strings.Repeat("x", 10)))
	require.NoError(t, err)
	assert.Equal(t, int64(10), upload.Size)
}

/*
TestOpen_Rejects checks that only stored local files can be opened.
*/
func TestOpen_Rejects(t *testing.T) {
	local := newLocal(t, 1024)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(local.Dir()), "secret.pdf"), []byte("x"), 0o600))

	tests := []struct {
		name string
		url  string
		err  error
	}{
		{"external_https", "https://cdn.example.com/a.pdf", storage.ErrExternal},
		{"external_http_upper", "HTTP://cdn.example.com/a.pdf", storage.ErrExternal},
		{"traversal", "/uploads/../secret.pdf", storage.ErrInvalidPath},
		{"nested", "/uploads/sub/a.pdf", storage.ErrInvalidPath},
		{"other_prefix", "/static/a.pdf", storage.ErrInvalidPath},
		{"prefix_only", "/uploads/", storage.ErrInvalidPath},
		{"missing", "/uploads/nope.pdf", storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := local.Open(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

/*
TestHandler_Upload drives the multipart endpoint and serves the stored file back.
*/
func TestHandler_Upload(t *testing.T) {
	local := newLocal(t, 1024)
	handler := storage.NewHandler(local)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("note", "ignored"))
	part, err := form.CreateFormFile("file", "catalogue.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleEditor)}))

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"original_name":"catalogue.pdf"`)

	entries, err := os.ReadDir(local.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	fileRecorder := httptest.NewRecorder()
	handler.Files().ServeHTTP(fileRecorder, httptest.NewRequest(http.MethodGet, "/uploads/"+entries[0].Name(), nil))
	assert.Equal(t, http.StatusOK, fileRecorder.Code)
	assert.Equal(t, "%PDF-1.7", fileRecorder.Body.String())

	listing := httptest.NewRecorder()
	handler.Files().ServeHTTP(listing, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	assert.Equal(t, http.StatusNotFound, listing.Code)
}

/*
TestHandler_Upload_RequiresEditor rejects anonymous uploads.
*/
func TestHandler_Upload_RequiresEditor(t *testing.T) {
	handler := storage.NewHandler(newLocal(t, 1024))

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
