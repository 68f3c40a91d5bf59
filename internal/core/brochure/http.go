// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package brochure

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

// # Handler Implementation

// Handler implements the HTTP layer for brochures and their translation groups.
type Handler struct {
	service *Service
}

// NewHandler constructs a brochure [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the brochure endpoints.
//
//   - Public: published brochures in the negotiated language.
//   - Editor: any row, group editing, single-row edits.
//   - Admin: deletion and legacy group repair.
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
		editor.Get("/groups/{groupID}", handler.getGroup)
		editor.Post("/groups", handler.saveGroup)
		editor.Patch("/{id}", handler.update)

		editor.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.delete)
		editor.With(middleware.RequireRole(sec.RoleAdmin)).Post("/groups/repair", handler.groupSimilar)
	})

	return router
}

// # Public Endpoints

/*
GET /api/v1/brochures.

Description: Lists published brochures, one per translation group, in the
negotiated language with English as the fallback.

Request:
  - lang: string (optional, overrides negotiation)
  - category: string (optional)

Response:
  - 200: []Brochure
*/
func (handler *Handler) listPublic(writer http.ResponseWriter, request *http.Request) {
	brochures, err := handler.service.ListPublic(request.Context(), requestutil.Lang(request), request.URL.Query().Get("category"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brochures)
}

/*
GET /api/v1/brochures/{id}.

Response:
  - 200: Brochure (the sibling in the negotiated language when published)
  - 404: ErrNotFound: unknown or unpublished
*/
func (handler *Handler) getPublic(writer http.ResponseWriter, request *http.Request) {
	brochure, err := handler.service.GetPublic(request.Context(), requestutil.ID(request, "id"), requestutil.Lang(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brochure)
}

// # Editor Endpoints

/*
GET /api/v1/brochures/admin.

Request:
  - language, category, status, group, q: string (optional filters)
  - page, limit: int

Response:
  - 200: []Brochure (paginated, drafts included)
  - 400: unknown language or status
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	language, err := requestutil.LangQuery(request, "language")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := queryParams.Get("status")
	if status != "" {
		if err := (&validate.Validator{}).OneOf("status", status, Statuses...).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	filter := Filter{
		Language: language,
		Category: queryParams.Get("category"),
		Status:   Status(status),
		Group:    queryParams.Get("group"),
		Query:    queryParams.Get("q"),
	}

	brochures, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, brochures, paginationParams.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	brochure, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brochure)
}

/*
GET /api/v1/brochures/groups/{groupID}.

Response:
  - 200: GroupView (rows ordered by language, plus per-language completeness)
  - 404: unknown group
*/
func (handler *Handler) getGroup(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Group(request.Context(), requestutil.Param(request, "groupID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
POST /api/v1/brochures/groups.

Description: Creates or edits a brochure in several languages at once.

Request (Body):
  - GroupInput: JSON object

Response:
  - 200: SaveResult (existing group edited)
  - 201: SaveResult (new group)
  - 400: validation failure, including a blank English name
*/
func (handler *Handler) saveGroup(writer http.ResponseWriter, request *http.Request) {
	var input GroupInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SaveGroup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.ID == "" {
		respond.Created(writer, result)
		return
	}
	respond.OK(writer, result)
}

/*
PATCH /api/v1/brochures/{id}.

Request (Body):
  - Patch: JSON object, omitted fields unchanged

Response:
  - 200: Brochure
  - 400: validation failure
  - 404: unknown row
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	brochure, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brochure)
}

// # Admin Endpoints

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/brochures/groups/repair.

Description: Groups legacy rows with the same name and category. Safe to repeat.

Response:
  - 200: group.Report
*/
func (handler *Handler) groupSimilar(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.service.GroupSimilar(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}
