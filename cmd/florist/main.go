// Copyright (c) 2025-2026 Oleg Ivanchenko
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
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/tharabouqet/florist/internal/admin"
	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/cache"
	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/config"
	"github.com/tharabouqet/florist/internal/handler"
	"github.com/tharabouqet/florist/internal/handler/api"
	"github.com/tharabouqet/florist/internal/logging"
	"github.com/tharabouqet/florist/internal/media"
	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/middleware"
	"github.com/tharabouqet/florist/internal/scheduler"
	"github.com/tharabouqet/florist/internal/session"
	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/storage"
	"github.com/tharabouqet/florist/internal/store"
	"github.com/tharabouqet/florist/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Uploaded images never change under the same key.
const uploadsMaxAge = 604800

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "florist - storefront and back-office API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_DB_PATH           SQLite database path (default: ./data/florist.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_STORAGE_DRIVER    Image storage: local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_TIMEZONE          Store time zone for delivery dates (default: Asia/Jakarta)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_REDIS_URL         Redis URL for the shared settings cache (optional)\n")
	_, _ = fmt.Fprintf(os.Stderr, "  FLORIST_METRICS_TOKEN     Bearer token for /metrics scrapes (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.New(appVersion, appGitCommit, appBuildTime)
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Dev:   cfg.IsDevelopment(),
	})
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)
	slog.Info("starting florist", "version", info.Version, "commit", info.GitCommit, "env", cfg.Env)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database seeded", "admin", store.DefaultAdminEmail)
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	appCache, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cacheTTL,
	})
	defer func() { _ = appCache.Close() }()
	slog.Info("cache initialized", "backend", backend)

	queries := store.New(db)
	hub := settings.NewHub(queries, appCache, cacheTTL)
	if err := hub.Refresh(ctx); err != nil {
		slog.Warn("initial settings load failed, serving defaults", "error", err)
	}
	unsubscribe := hub.Subscribe(func(v settings.Values) {
		slog.Info("store settings changed", "store_name", v[settings.KeyStoreName])
	})
	defer unsubscribe()

	bucket, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	slog.Info("image storage ready", "bucket", fmt.Sprint(bucket))

	uploader, err := media.NewUploader(bucket, nil)
	if err != nil {
		return fmt.Errorf("initializing uploader: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	appMetrics := metrics.New()
	observer := auth.NewObserver()
	defer observer.Subscribe(func(e auth.Event) {
		slog.Info("admin session changed", "event", string(e.Kind), "user_id", e.UserID, "ip", e.IP)
	})()

	adminService := admin.New(db)

	sched := scheduler.New(logger, cfg.Location())
	if err := sched.RegisterSettingsRefresh(cfg.SettingsRefresh, hub, appMetrics); err != nil {
		return fmt.Errorf("scheduling settings refresh: %w", err)
	}
	if err := sched.RegisterOrphanReport(scheduler.OrphanReportSchedule, adminService); err != nil {
		return fmt.Errorf("scheduling orphan report: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	apiHandler := api.NewHandler(api.Deps{
		DB:              db,
		Catalog:         catalog.NewProvider(queries, hub),
		Settings:        hub,
		Admin:           adminService,
		Uploader:        uploader,
		Sessions:        sessionManager,
		Observer:        observer,
		LoginProtection: loginProtection,
		Metrics:         appMetrics,
		Jobs:            sched,
		PageSize:        cfg.PageSize,
		PublicBaseURL:   cfg.PublicBaseURL,
		Location:        cfg.Location(),
	})

	uploadsDir := ""
	if cfg.StorageDriver == config.StorageLocal {
		uploadsDir = cfg.UploadsDir
	}
	healthHandler := handler.NewHealthHandler(db, appCache, uploadsDir, info)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(appMetrics.Middleware)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadSession(sessionManager, db))

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.PublicBaseURL)
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "trusted_origins", csrfConfig.TrustedOrigins)

	publicLimiter := middleware.NewRateLimiter(20, 40)
	defer publicLimiter.Close()

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.With(middleware.RequireAdminOrToken(cfg.MetricsToken)).Handle("/metrics", appMetrics.Handler())

	if uploadsDir != "" {
		uploads := http.StripPrefix(storage.LocalURLPath+"/", http.FileServer(http.Dir(uploadsDir)))
		r.Handle(storage.LocalURLPath+"/*", middleware.StaticCache(uploadsMaxAge)(uploads))
	}

	r.With(publicLimiter.Middleware()).Post(api.RouteOrderForm, apiHandler.OrderRedirect)

	r.Route(api.RouteAPIPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(publicLimiter.Middleware())
			apiHandler.RegisterPublicRoutes(r)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Use(loginProtection.Middleware())
			r.Use(csrfMiddleware)
			apiHandler.RegisterAuthRoutes(r)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Use(csrfMiddleware)
			apiHandler.RegisterAdminRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      90 * time.Second, // image uploads are compressed in-request
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
