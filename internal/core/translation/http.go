// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/sec"
)

// Handler implements the HTTP layer of the translation pipeline.
type Handler struct {
	service *Service
}

// NewHandler constructs a translation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the translation job endpoints. Every route requires the editor role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleEditor))

	jobPath := "/{" + constants.TranslationJobIDParam + "}"

	router.Post("/", handler.start)
	router.Get(jobPath, handler.get)
	router.Delete(jobPath, handler.cancel)
	router.Post(jobPath+"/create", handler.create)

	return router
}

/*
POST /api/v1/translations.

Description: Translates a brochure's PDF into another language and stages a
draft for review. Runs to completion within the request.

Request (Body):
  - brochure_id: string
  - target_language: string (en, mk or de; not the brochure's own)

Response:
  - 202: Job (REVIEW_READY, possibly with warnings)
  - 400: missing or invalid target language
  - 404: unknown brochure
  - 422: NO_PDF, EXTERNAL_PDF, PDF_NOT_FOUND, NO_TEXT, PDF_TOO_LONG
  - 502: translation failed
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	var input StartInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	job, err := handler.service.Start(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Accepted(writer, job)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	job, err := handler.service.Get(request.Context(), requestutil.Param(request, constants.TranslationJobIDParam))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, job)
}

/*
DELETE /api/v1/translations/{jobID}.

Response:
  - 204: job discarded
  - 404: unknown or expired job
*/
func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Cancel(request.Context(), requestutil.Param(request, constants.TranslationJobIDParam)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/translations/{jobID}/create.

Description: Stores the reviewed draft as a new brochure row. An empty body
stores the suggestion unchanged.

Request (Body):
  - Draft: JSON object (optional)

Response:
  - 201: Brochure
  - 400: validation failure
  - 404: unknown or expired job
  - 409: the source group already has this language
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var draft *Draft
	if request.ContentLength != 0 {
		draft = &Draft{}
		if err := requestutil.DecodeJSON(request, draft); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	row, err := handler.service.Create(request.Context(), requestutil.Param(request, constants.TranslationJobIDParam), draft)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, row)
}
