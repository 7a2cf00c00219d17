// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the mushaf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the library store (SQLite, or PostgreSQL with migrations).
//  4. Connect to Redis when configured.
//  5. Build the content client from config and stored settings.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/mushaf/internal/api"
	"github.com/taibuivan/mushaf/internal/app"
	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/library/bookmark"
	"github.com/taibuivan/mushaf/internal/library/setting"
	"github.com/taibuivan/mushaf/internal/platform/config"
	"github.com/taibuivan/mushaf/internal/platform/constants"
	redisstore "github.com/taibuivan/mushaf/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Library Store ──────────────────────────────────────────────────
	library, err := app.OpenLibrary(startupCtx, cfg, log)
	must(log, err, "open library store")
	defer func() {
		log.Info("closing library store", slog.String("driver", library.Driver))
		library.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := app.OpenCache(startupCtx, cfg, log)
	must(log, err, "connect to redis")
	if rdb != nil {
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Content Provider ───────────────────────────────────────────────
	settingService := setting.NewService(library.Settings, log)
	stored, err := settingService.All(startupCtx)
	must(log, err, "read stored settings")
	contentClient := app.NewContentClient(cfg, app.ContentOptions(cfg, stored, log), rdb, log)

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	checks := []api.HealthCheck{{Name: library.Driver, Check: library.Ping}}
	if rdb != nil {
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Bookmark:  bookmark.NewHandler(bookmark.NewService(library.Bookmarks, log)),
		Setting:   setting.NewHandler(settingService),
		Content:   content.NewHandler(contentClient),
	}

	// The rate limiter janitor lives as long as the process.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
