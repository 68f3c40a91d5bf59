// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/pipemill/internal/core/brochure"
	"github.com/taibuivan/pipemill/internal/core/category"
	"github.com/taibuivan/pipemill/internal/core/document"
	"github.com/taibuivan/pipemill/internal/core/language"
	"github.com/taibuivan/pipemill/internal/core/leadership"
	"github.com/taibuivan/pipemill/internal/core/position"
	"github.com/taibuivan/pipemill/internal/core/project"
	"github.com/taibuivan/pipemill/internal/core/team"
	"github.com/taibuivan/pipemill/internal/core/translation"
	"github.com/taibuivan/pipemill/internal/platform/config"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	"github.com/taibuivan/pipemill/internal/platform/storage"
	"github.com/taibuivan/pipemill/internal/users/account"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and a Mount in [NewServer].
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles back-office login, logout and the current account.
	Auth *auth.Handler

	// Account lets administrators manage back-office accounts.
	Account *account.Handler

	Brochure    *brochure.Handler
	Project     *project.Handler
	Category    *category.Handler
	Position    *position.Handler
	Team        *team.Handler
	Leadership  *leadership.Handler
	Document    *document.Handler
	Language    *language.Handler
	Translation *translation.Handler

	// Uploads accepts files and serves them back under the public path.
	Uploads *storage.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.AllowedOriginSuffix, cfg.ExtraOrigins))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.Language())
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// Uploaded files are public; the upload endpoint itself is not.
	r.Handle(cfg.UploadPublicPath+"/*", h.Uploads.Files())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		// Translations call the language model and run past the global timeout.
		api.Mount("/translations", h.Translation.Routes())
		api.Mount("/uploads", h.Uploads.Routes())

		api.Group(func(api chi.Router) {
			api.Use(chimw.Timeout(constants.GlobalRequestTimeout))

			api.Mount("/auth", h.Auth.Routes())
			api.Mount("/accounts", h.Account.Routes())
			api.Mount("/brochures", h.Brochure.Routes())
			api.Mount("/projects", h.Project.Routes())
			api.Mount("/categories", h.Category.Routes())
			api.Mount("/positions", h.Position.Routes())
			api.Mount("/team", h.Team.Routes())
			api.Mount("/leadership", h.Leadership.Routes())
			api.Mount("/documents", h.Document.Routes())
			api.Mount("/languages", h.Language.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      2*cfg.LLMTimeout + constants.DefaultWriteTimeout, // text and metadata calls
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
