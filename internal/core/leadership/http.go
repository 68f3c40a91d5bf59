// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leadership

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

	router.Get("/", handler.getPublic)

	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))

		editor.Get("/admin", handler.get)
		editor.Put("/", handler.save)
	})

	return router
}

/*
GET /api/v1/leadership.

Response:
  - 200: View (in the negotiated language)
  - 404: nothing saved yet
*/
func (handler *Handler) getPublic(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.GetPublic(request.Context(), requestutil.Lang(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	m, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, m)
}

// PUT /api/v1/leadership: replaces the message with the request body.
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	m, err := handler.service.Save(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, m)
}
