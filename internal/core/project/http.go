// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/middleware"
	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/pagination"
)

// Handler implements the HTTP layer for reference projects.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the project endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listPublic)
	router.Get("/{id}", handler.getPublic)

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

// # Public Endpoints

/*
GET /api/v1/projects.

Response:
  - 200: []View (resolved into the negotiated language)
*/
func (handler *Handler) listPublic(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.ListPublic(request.Context(), requestutil.Lang(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

/*
GET /api/v1/projects/{id}.

Request:
  - id: string (UUID or slug)

Response:
  - 200: View
  - 404: unknown or unpublished
*/
func (handler *Handler) getPublic(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.GetPublic(request.Context(), requestutil.ID(request, "id"), requestutil.Lang(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

// # Editor Endpoints

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	status := queryParams.Get("status")
	if status != "" {
		if err := (&validate.Validator{}).OneOf("status", status, Statuses...).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	filter := Filter{Status: Status(status), Query: queryParams.Get("q")}

	projects, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, projects, paginationParams.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	p, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, p)
}

/*
POST /api/v1/projects.

Request (Body):
  - Input: JSON object

Response:
  - 201: Project
  - 400: validation failure, including a blank English title or description
  - 409: slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, p)
}

// PUT /api/v1/projects/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, p)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
