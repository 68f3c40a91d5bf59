// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/middleware"
	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
	"github.com/taibuivan/pipemill/internal/platform/sec"
)

// Handler implements the account administration endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs an account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the account endpoints. Every route requires the admin role.
//
// # Endpoints
//   - GET  /               : Lists accounts.
//   - POST /               : Creates an account.
//   - GET  /{id}           : Returns one account.
//   - PATCH /{id}          : Changes display name, role or active flag.
//   - PUT  /{id}/password  : Resets the password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Put("/{id}/password", handler.resetPassword)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
POST /api/v1/accounts.

Request (Body):
  - CreateInput: username, email, password, display_name, role

Response:
  - 201: User
  - 400: validation failure
  - 409: username or email already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

/*
PATCH /api/v1/accounts/{id}.

Response:
  - 200: User
  - 403: changing your own role or deactivating yourself
  - 404: unknown account
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), claims.UserID, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input PasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ResetPassword(request.Context(), requestutil.ID(request, "id"), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
