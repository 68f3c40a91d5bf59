// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPublic)

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

// GET /api/v1/categories: every category in the negotiated language.
func (handler *Handler) listPublic(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.ListPublic(request.Context(), requestutil.Lang(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	c, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, c)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	c, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, c)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
