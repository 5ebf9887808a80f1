// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// ChemTrade is a B2B/B2C chemical trading storefront API. This binary
// wires configuration, storage, sessions, search, and the HTTP server
// together and runs until interrupted.
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

	"github.com/redis/go-redis/v9"

	"chemtrade/internal/cache"
	"chemtrade/internal/config"
	"chemtrade/internal/content"
	"chemtrade/internal/database"
	"chemtrade/internal/enrich"
	"chemtrade/internal/handlers"
	"chemtrade/internal/mail"
	"chemtrade/internal/router"
	"chemtrade/internal/search"
	"chemtrade/internal/session"
	"chemtrade/internal/storage"
	"chemtrade/internal/store"
	"chemtrade/internal/store/memory"
	"chemtrade/internal/store/postgres"
	"chemtrade/internal/taxonomy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Storage backend. Memory mode serves demos and local development
	// without any external services; postgres is the production path.
	var stores *store.Stores
	switch cfg.StoreDriver {
	case config.DriverMemory:
		stores, _ = memory.Open(cfg.SnapshotPath)
		slog.Info("using in-memory store", "snapshot", cfg.SnapshotPath)
	case config.DriverPostgres:
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
		stores = postgres.New(db)
	}

	if cfg.IsDev() {
		if err := database.Seed(stores); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// Valkey backs sessions and the response cache. In development both
	// fall back to in-process behavior when it is unreachable; production
	// refuses to start without it.
	var valkeyClient *redis.Client
	valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unreachable, using in-process sessions and no response cache", "error", err)
		valkeyClient = nil
	}

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responseCache := cache.NewResponseCache(valkeyClient, 0)

	// Product search index. The index is a derived view of the catalog,
	// so it is rebuilt from the store on every startup.
	idx, err := search.Open(cfg.SearchIndexPath)
	if err != nil {
		slog.Error("failed to open search index", "error", err)
		os.Exit(1)
	}
	if err := idx.Rebuild(stores.Products); err != nil {
		slog.Error("failed to rebuild search index", "error", err)
		os.Exit(1)
	}

	// Object storage for spec sheets. Optional: nil disables uploads and
	// presigned downloads but the rest of the API works.
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region,
		cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate,
		cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Info("object storage not configured, spec sheet endpoints disabled")
	}

	var mailer mail.Mailer
	if cfg.SMTPHost == "" {
		mailer = mail.LogMailer{}
		slog.Info("smtp not configured, logging outgoing mail")
	} else {
		mailer = mail.NewSMTP(cfg.SMTPAddr(), cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	contentService := content.NewService(stores.Content, nil)
	taxonomyManager := taxonomy.NewManager(contentService, stores.Products)

	// Enrichment providers are ordered by preference; the client falls
	// through to the next provider when one misses.
	var enricher *enrich.Client
	switch cfg.EnrichProvider {
	case "cactus":
		enricher = enrich.NewClient(enrich.NewCactus(""), enrich.NewPubChem(""))
	default:
		enricher = enrich.NewClient(enrich.NewPubChem(""), enrich.NewCactus(""))
	}

	h := router.Handlers{
		Auth:     handlers.NewAuth(sessionStore, stores.Users),
		Content:  handlers.NewAdminContent(contentService, responseCache),
		Taxonomy: handlers.NewAdminTaxonomy(taxonomyManager, responseCache),
		Products: handlers.NewAdminProducts(stores.Products, idx, responseCache, storageClient, enricher),
		Orders:   handlers.NewAdminOrders(stores.Orders, stores.Inquiries),
		Public:   handlers.NewPublic(contentService, stores, idx, responseCache, storageClient, mailer, cfg.SMTPFrom),
	}

	r := router.New(sessionStore, h)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an interrupt and drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
