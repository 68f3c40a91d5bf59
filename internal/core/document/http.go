// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/middleware"
	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the document library endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listPublic)

	// ## Editor
	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))

		editor.Get("/admin", handler.list)
		editor.Get("/admin/{id}", handler.get)
		editor.Post("/", handler.create)
		editor.Put("/{id}", handler.update)

		editor.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.delete)
	})

	return router
}

/*
GET /api/v1/documents.

Request:
  - language: string (optional, any registered code including display-only ones)
  - category: string (optional)

Response:
  - 200: []Document
  - 400: unknown language code
*/
func (handler *Handler) listPublic(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	documents, err := handler.service.ListPublic(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, documents)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	documents, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, documents)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	d, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, d)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	d, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, d)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	d, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, d)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func filterFromRequest(request *http.Request) (Filter, error) {
	language, err := requestutil.LangQuery(request, "language")
	if err != nil {
		return Filter{}, err
	}
	return Filter{Language: language, Category: request.URL.Query().Get("category")}, nil
}
