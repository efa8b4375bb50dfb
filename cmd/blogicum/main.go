// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Blogicum server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
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

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/database"
	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/internal/router"
	"blogicum/internal/session"
	"blogicum/internal/storage"
	"blogicum/internal/store"
	"blogicum/internal/store/memstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.StorageBackend,
		"page_size", cfg.PostsPerPage,
	)

	deps := blog.Deps{PageSize: cfg.PostsPerPage}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		mem := memstore.New()
		deps.Posts = mem.Posts()
		deps.Categories = mem.Categories()
		deps.Locations = mem.Locations()
		deps.Comments = mem.Comments()
		deps.Users = mem.Users()
		slog.Warn("using in-memory storage, data is lost on restart")

	default:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}

		deps.Posts = store.NewPostStore(db)
		deps.Categories = store.NewCategoryStore(db)
		deps.Locations = store.NewLocationStore(db)
		deps.Comments = store.NewCommentStore(db)
		deps.Users = store.NewUserStore(db)
	}

	// Connect to Valkey (sessions + listing cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := cfg.IsProduction()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	listings := cache.NewListingCache(valkeyClient, cfg.ListingCacheTTL)

	// S3-compatible object storage is optional; without it image uploads
	// answer 503.
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		deps.Images = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	svc := blog.New(deps)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Public: handlers.NewPublic(svc, listings),
		Posts:  handlers.NewPosts(svc, listings),
		Auth:   handlers.NewAuth(svc, sessionStore, listings, cfg.SiteName),
		Staff:  handlers.NewStaff(svc, listings),
	}, router.Options{
		Secure:      secureCookies,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
