// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/config"
	"github.com/piwpisz/bip-go/internal/handler"
	"github.com/piwpisz/bip-go/internal/middleware"
	"github.com/piwpisz/bip-go/internal/render"
	"github.com/piwpisz/bip-go/internal/scheduler"
	"github.com/piwpisz/bip-go/internal/service"
	"github.com/piwpisz/bip-go/internal/session"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/web"
)

// Version information, injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "bip - Biuletyn Informacji Publicznej\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_DB_PATH            SQLite database path (default: ./data/bip.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_APP_URL            Public base URL for sitemap links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_CACHE_TTL          Menu/settings cache TTL in seconds (default: 300)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_PREVIEW_FALLBACK   Serve drafts for menu items without published content\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIP_DO_SEED            Seed the default admin account on startup\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("bip %s (commit: %s)\n", appVersion, appGitCommit)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database seeded")
	}

	queries := store.New(db)

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	menuSimple := cache.New(cacheTTL)
	menuSimple.StartCleanup(time.Minute)
	defer menuSimple.Stop()
	settingsSimple := cache.New(cacheTTL)
	settingsSimple.StartCleanup(time.Minute)
	defer settingsSimple.Stop()

	menuCache := cache.NewMenuCache(queries, menuSimple)
	settingsCache := cache.NewSettingsCache(queries, settingsSimple)

	menus := service.NewMenuService(menuCache)
	resolver := service.NewPathResolver(queries, menus, settingsCache, cfg.PreviewFallback)
	counter := service.NewViewCounter(queries)

	siteName := "Biuletyn Informacji Publicznej"
	if name, ok, err := settingsCache.Get(ctx, store.SettingSiteName); err == nil && ok && name != "" {
		siteName = name
	}

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates,
		SiteName:    siteName,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	frontendHandler := handler.NewFrontendHandler(handler.FrontendConfig{
		Queries:  queries,
		Resolver: resolver,
		Menus:    menus,
		Settings: settingsCache,
		Renderer: renderer,
		Counter:  counter,
		AppURL:   cfg.AppURL,
		Logger:   logger,
	})
	authHandler := handler.NewAuthHandler(queries, sessionManager, loginProtection, logger)
	adminHandler := handler.NewAdminHandler(queries, menuCache, settingsCache, logger)

	sched := scheduler.New(counter, menuCache, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Admin API: sessions and CSRF only where state changes happen.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
			[]byte(cfg.SessionSecret)[:32], cfg.IsDevelopment())))

		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, queries))
			r.Get("/me", authHandler.Me)
			adminHandler.Routes(r)
		})
	})

	// Public frontend.
	frontendHandler.Routes(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
