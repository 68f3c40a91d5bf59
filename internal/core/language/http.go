// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listLanguages)
	router.Get("/{code}", handler.getLanguage)
	return router
}

/*
GET /api/v1/languages.

Request:
  - translatable: bool (optional)

Response:
  - 200: []Language
*/
func (handler *Handler) listLanguages(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	if raw := request.URL.Query().Get("translatable"); raw != "" {
		translatable, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("translatable", "Must be true or false"))
			return
		}
		filter.Translatable = &translatable
	}

	langs, err := handler.service.ListLanguages(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, langs)
}

func (handler *Handler) getLanguage(writer http.ResponseWriter, request *http.Request) {
	lang, err := handler.service.GetLanguage(request.Context(), requestutil.Param(request, "code"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lang)
}
