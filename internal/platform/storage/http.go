// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/ctxutil"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/validate"
)

// multipartOverhead is the allowance for boundaries and part headers on top of the file cap.
const multipartOverhead = 1 << 20

// Handler exposes uploads over HTTP.
type Handler struct {
	local *Local
}

// NewHandler constructs an upload [Handler].
func NewHandler(local *Local) *Handler {
	return &Handler{local: local}
}

// Routes returns the upload API. Every route requires the editor role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.RequireRole(sec.RoleEditor)).Post("/", handler.upload)
	return router
}

// Files serves stored files. Directory listings are never produced.
func (handler *Handler) Files() http.Handler {
	files := http.FileServer(noListing{http.Dir(handler.local.Dir())})
	return http.StripPrefix(handler.local.PublicPath(), files)
}

/*
POST /api/v1/uploads.

Description: Stores one file sent as multipart/form-data.

Request:
  - file: multipart part (pdf, jpg, jpeg, png, webp, svg)

Response:
  - 201: Upload
  - 400: missing part or disallowed type
  - 413: file over MAX_UPLOAD_BYTES
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.local.MaxBytes()+multipartOverhead)

	reader, err := request.MultipartReader()
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(constants.UploadFormField, "Expected a multipart/form-data body"))
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respond.Error(writer, request, handler.readError(err))
			return
		}
		if part.FormName() != constants.UploadFormField || part.FileName() == "" {
			part.Close()
			continue
		}

		upload, err := handler.local.Upload(request.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				err = apperr.PayloadTooLarge(handler.local.MaxBytes())
			}
			respond.Error(writer, request, err)
			return
		}

		ctxutil.GetLogger(request.Context()).Info("file_uploaded",
			slog.String("url", upload.URL),
			slog.Int64("size", upload.Size),
		)
		respond.Created(writer, upload)
		return
	}

	respond.Error(writer, request, validate.RequiredError(constants.UploadFormField, "A file is required"))
}

func (handler *Handler) readError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.PayloadTooLarge(handler.local.MaxBytes())
	}
	return validate.RequiredError(constants.UploadFormField, "Malformed multipart body")
}

// noListing hides directories from [http.FileServer].
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	if strings.HasSuffix(name, "/") {
		return nil, os.ErrNotExist
	}

	file, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
