// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	requestutil "github.com/taibuivan/pipemill/internal/platform/request"
	"github.com/taibuivan/pipemill/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the back-office authentication endpoints.
type Handler struct {
	authService  *Service
	secureCookie bool
}

// NewHandler constructs a [Handler]. secureCookie marks the session cookie
// HTTPS-only and should be set outside development.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{authService: service, secureCookie: secureCookie}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Opens a session and returns an access token.
//   - POST /logout : Revokes the current session.
//   - GET  /me     : Returns the signed-in account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Login authenticates an editor and opens a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a bearer token. Browser clients
also receive it as an HttpOnly session cookie.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: access_token, token_type, expires_in, user
  - 400: missing login or password
  - 401: ErrUnauthorized: invalid credentials or deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:     input.Login,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.AccessToken,
		Path:     constants.SessionCookiePath,
		Expires:  session.ExpiresAt,
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(time.Until(session.ExpiresAt) / time.Second),
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Deletes the session named by the token and clears the cookie.
The token is rejected from then on.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)
	if err := handler.authService.Logout(request.Context(), claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	respond.NoContent(writer)
}

/*
Me returns the signed-in account.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: ErrUnauthorized: not signed in
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.authService.Me(request.Context(), requestutil.Claims(request).UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
