// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Pipemill content API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and .env).
//  2. Initialize structured logger.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis when configured; otherwise keep sessions and jobs in memory.
//  5. Wire repositories, services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/pipemill/internal/api"
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
	"github.com/taibuivan/pipemill/internal/platform/llm"
	"github.com/taibuivan/pipemill/internal/platform/logger"
	"github.com/taibuivan/pipemill/internal/platform/migration"
	"github.com/taibuivan/pipemill/internal/platform/pdf"
	pgstore "github.com/taibuivan/pipemill/internal/platform/postgres"
	redisstore "github.com/taibuivan/pipemill/internal/platform/redis"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/storage"
	"github.com/taibuivan/pipemill/internal/users/account"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Loaded before the logger because the logger's sinks are configurable.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failure: load configuration:", err)
		os.Exit(1)
	}

	// ── 2. Logger ──────────────────────────────────────────────────────────
	log, closeLog := logger.New(logger.Options{
		App:        "pipemill",
		Debug:      cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	slog.SetDefault(log)
	defer func() { _ = closeLog() }()

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis", cfg.HasRedis()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.HasRedis() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	var (
		sessions auth.SessionStore
		jobs     translation.JobStore
	)
	if rdb != nil {
		sessions = auth.NewRedisSessionStore(rdb)
		jobs = translation.NewRedisJobStore(rdb)
	} else {
		log.Warn("redis_not_configured", slog.String("fallback", "memory"))
		sessions = auth.NewMemorySessionStore()
		jobs = translation.NewMemoryJobStore()
	}

	// ── 5. Health handlers ────────────────────────────────────────────────
	checks := []api.HealthCheck{{
		Name:  "postgres",
		Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}}
	if rdb != nil {
		checks = append(checks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 6. Auth ───────────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	authService := auth.NewService(auth.NewUserRepository(pool), sessions, tokens, cfg.SessionTTL, log)
	accountService := account.NewService(account.NewRepository(pool), log)

	if cfg.BootstrapAdminUsername != "" {
		created, err := accountService.Bootstrap(startupCtx, account.CreateInput{
			Username: cfg.BootstrapAdminUsername,
			Email:    cfg.BootstrapAdminEmail,
			Password: cfg.BootstrapAdminPassword,
		})
		must(log, err, "bootstrap admin account")
		if created {
			log.Info("admin_account_bootstrapped", slog.String("username", cfg.BootstrapAdminUsername))
		}
	}

	// ── 7. Content domains ────────────────────────────────────────────────
	brochureService := brochure.NewService(brochure.NewPostgresRepository(pool), log)
	projectService := project.NewService(project.NewPostgresRepository(pool), log)
	categoryService := category.NewService(category.NewPostgresRepository(pool), log)
	positionService := position.NewService(position.NewPostgresRepository(pool), log)
	teamService := team.NewService(team.NewPostgresRepository(pool), log)
	leadershipService := leadership.NewService(leadership.NewPostgresRepository(pool), log)
	documentService := document.NewService(document.NewPostgresRepository(pool), log)
	languageService := language.NewService(language.NewRegistryRepository(), log)

	// ── 8. Uploads & translation ──────────────────────────────────────────
	files, err := storage.NewLocal(cfg.UploadDir, cfg.UploadPublicPath, cfg.MaxUploadBytes)
	must(log, err, "initialize upload storage")

	if cfg.LLMAPIKey == "" {
		log.Warn("llm_api_key_missing", slog.String("effect", "translations will fail"))
	}
	model := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	translationService := translation.NewService(
		brochureService,
		files,
		pdf.NewExtractor(),
		model,
		jobs,
		translation.Settings{ModelTimeout: cfg.LLMTimeout, JobTTL: cfg.TranslationJobTTL},
		log,
	)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        auth.NewHandler(authService, cfg.IsProduction()),
		Account:     account.NewHandler(accountService),
		Brochure:    brochure.NewHandler(brochureService),
		Project:     project.NewHandler(projectService),
		Category:    category.NewHandler(categoryService),
		Position:    position.NewHandler(positionService),
		Team:        team.NewHandler(teamService),
		Leadership:  leadership.NewHandler(leadershipService),
		Document:    document.NewHandler(documentService),
		Language:    language.NewHandler(languageService),
		Translation: translation.NewHandler(translationService),
		Uploads:     storage.NewHandler(files),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		serverCancel()
		pool.Close()
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
