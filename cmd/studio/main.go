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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halcyonlabs/studio-api/internal/auth"
	"github.com/halcyonlabs/studio-api/internal/cache"
	"github.com/halcyonlabs/studio-api/internal/config"
	"github.com/halcyonlabs/studio-api/internal/gateway"
	"github.com/halcyonlabs/studio-api/internal/handler/api"
	"github.com/halcyonlabs/studio-api/internal/imaging"
	"github.com/halcyonlabs/studio-api/internal/logging"
	"github.com/halcyonlabs/studio-api/internal/mail"
	"github.com/halcyonlabs/studio-api/internal/metrics"
	"github.com/halcyonlabs/studio-api/internal/middleware"
	"github.com/halcyonlabs/studio-api/internal/store"
	"github.com/halcyonlabs/studio-api/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Studio API - content backend for the studio site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ADMIN_TOKEN     Shared secret for admin operations\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_PATH         SQLite database path (default: ./data/studio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_UPLOADS_DIR     Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_CORS_ORIGINS    Comma-separated origins allowed to call the API\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_REDIS_URL       Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SMTP_HOST       SMTP relay for contact notifications (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("studio-api %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
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

	// Ensure data directory exists
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
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	eventStore := store.NewEventStore(db)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, eventStore))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Published-list cache: Redis when configured, in-memory otherwise
	listCache := cache.New(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
	defer func() {
		if err := listCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Contact notification mail, best effort
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender mail.Sender
	if cfg.MailEnabled() {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		slog.Info("contact notifications enabled", "smtp_host", cfg.SMTPHost)
	} else {
		slog.Info("contact notifications disabled (SMTP not configured)")
	}
	notifier := mail.NewNotifier(sender, logger, mail.NotifierConfig{
		From: cfg.NotifyFrom,
		To:   strings.Split(cfg.NotifyTo, ","),
	})
	notifier.Start(ctx)
	defer notifier.Stop()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	authenticator := auth.NewStaticSecret(cfg.AdminToken)
	contentStore := store.NewContentStore(db)

	router := buildRouter(routerDeps{
		cfg:           cfg,
		db:            db,
		logger:        logger,
		authenticator: authenticator,
		contentStore:  contentStore,
		contactStore:  store.NewContactStore(db),
		eventStore:    eventStore,
		listCache:     listCache,
		notifier:      notifier,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// routerDeps bundles everything the HTTP surface needs.
type routerDeps struct {
	cfg           *config.Config
	db            *sql.DB
	logger        *slog.Logger
	authenticator auth.Authenticator
	contentStore  *store.ContentStore
	contactStore  *store.ContactStore
	eventStore    *store.EventStore
	listCache     cache.Cache
	notifier      *mail.Notifier
}

func buildRouter(deps routerDeps) *chi.Mux {
	cacheTTL := time.Duration(deps.cfg.CacheTTL) * time.Second

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(deps.cfg.CORSOrigins))
	r.Use(middleware.Identity(deps.authenticator))

	resource := func(path string, register func(chi.Router)) {
		r.Route(path, func(sub chi.Router) { register(sub) })
	}

	resource("/api/blogs", api.NewResource(gateway.Blogs(deps.contentStore), api.ResourceConfig{
		Singular: "blog", Plural: "blogs", Label: "Blog",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)
	resource("/api/positions", api.NewResource(gateway.Positions(deps.contentStore), api.ResourceConfig{
		Singular: "position", Plural: "positions", Label: "Position",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)
	resource("/api/work", api.NewResource(gateway.WorkPosts(deps.contentStore), api.ResourceConfig{
		Singular: "post", Plural: "posts", Label: "Work post",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)
	resource("/api/reviews", api.NewResource(gateway.Reviews(deps.contentStore), api.ResourceConfig{
		Singular: "review", Plural: "reviews", Label: "Review",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)
	resource("/api/events", api.NewResource(gateway.Events(deps.contentStore), api.ResourceConfig{
		Singular: "event", Plural: "events", Label: "Event",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)
	resource("/api/team", api.NewResource(gateway.TeamMembers(deps.contentStore), api.ResourceConfig{
		Singular: "member", Plural: "members", Label: "Team member",
		Cache: deps.listCache, CacheTTL: cacheTTL, Logger: deps.logger,
	}).Register)

	contact := api.NewContactHandler(deps.contactStore, deps.notifier, deps.logger)
	r.Post("/api/contact", contact.Create)
	r.Get("/api/contact", contact.List)

	admin := api.NewAdminHandler(deps.authenticator, deps.logger)
	r.Post("/api/admin/login", admin.Login)

	events := api.NewEventLogHandler(deps.eventStore, deps.logger)
	r.Get("/api/admin/events", events.List)

	upload := api.NewUploadHandler(imaging.NewProcessor(deps.cfg.UploadsDir), deps.cfg.MaxUploadBytes(), deps.logger)
	r.Post("/api/upload", upload.Upload)

	health := api.NewHealthHandler(deps.db, deps.logger)
	r.Get("/api/healthz", health.Check)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Serve stored uploads
	uploadsDir := http.Dir(deps.cfg.UploadsDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	return r
}
