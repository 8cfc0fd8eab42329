// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/opsboard/internal/api"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/cache"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/datasource"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
	"github.com/tomtom215/opsboard/internal/models"
	"github.com/tomtom215/opsboard/internal/supervisor"
	"github.com/tomtom215/opsboard/internal/supervisor/services"
	ws "github.com/tomtom215/opsboard/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "opsboard",
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential component wiring
func run(cfg *config.Config) error {
	startTime := time.Now()

	logging.Info().
		Str("version", version).
		Str("data_source", cfg.Data.Source).
		Str("cache_type", cfg.Cache.Type).
		Bool("auth_disabled", cfg.Auth.Disabled).
		Msg("Starting Opsboard with supervisor tree")
	logging.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	if cfg.ShouldWarnAboutDevSecret() {
		logging.Warn().Msg("JWT_SECRET is the built-in development secret; set a real secret in production")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* accepts WebSocket upgrades from any origin")
	}
	if cfg.Auth.Disabled {
		logging.Warn().Msg("Authentication disabled (DISABLE_AUTH=true); every caller is served as Developer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.SetAppInfo(version)
	uptimeStop := make(chan struct{})
	defer close(uptimeStop)
	metrics.StartUptimeTracker(startTime, 15*time.Second, uptimeStop)

	// Data layer
	backend, err := cache.NewBackend(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	if backend != nil {
		defer func() {
			if err := backend.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing cache backend")
			}
		}()
		logging.Info().Str("backend", backend.Name()).Dur("ttl", cfg.Cache.CacheTimeout()).Msg("Cache initialized")
	} else {
		logging.Info().Msg("Cache disabled (CACHE_TYPE=none)")
	}

	provider := datasource.NewProvider(cfg, datasource.Options{})
	memo := cache.NewMemoizer[models.Dataset](backend, cfg.Cache.CacheTimeout(), datasource.CacheNamespace)
	repo := datasource.NewRepository(provider, memo, cfg.Data.MaxRows, nil)
	logging.Info().Str("provider", repo.ProviderName()).Int("max_rows", cfg.Data.MaxRows).Msg("Data provider selected")

	// RBAC and dashboard
	gate, err := authz.NewGate(&cfg.Auth)
	if err != nil {
		return err
	}
	dash, err := dashboard.New(repo, gate, nil)
	if err != nil {
		return err
	}

	var validator *auth.Validator
	if !cfg.Auth.Disabled {
		validator, err = auth.NewValidator(&cfg.Auth, nil)
		if err != nil {
			return err
		}
	}
	authMiddleware := auth.NewMiddleware(validator, cfg.Auth.Disabled)

	// HTTP surface
	wsHub := ws.NewHub()
	chiMw := api.NewChiMiddlewareFromConfig(&cfg.Server)
	handler := api.NewHandler(cfg, dash, gate, wsHub, chiMw)
	router := api.NewRouter(handler, authMiddleware, gate, chiMw)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	if cfg.Cache.WarmOnStart {
		tree.AddDataService(services.NewCacheWarmService(repo, cfg.Data.ProviderTimeout))
		logging.Info().Msg("Cache warm-up added to supervisor tree")
	}
	if bb, ok := backend.(*cache.BadgerBackend); ok {
		tree.AddDataService(services.NewBadgerGCService(bb, services.DefaultGCInterval, services.DefaultGCDiscardRatio))
		logging.Info().Str("dir", cfg.Cache.Dir).Msg("Badger value log GC added to supervisor tree")
	}
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	err = tree.Serve(ctx)

	unstopped, reportErr := tree.UnstoppedServiceReport()
	if reportErr == nil && len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
