package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/parelius/plinth/internal/adapter/rewrite"
	"github.com/parelius/plinth/internal/adapter/upstream"
	"github.com/parelius/plinth/internal/config"
	"github.com/parelius/plinth/internal/core/ports"
	"github.com/parelius/plinth/internal/logger"
	"github.com/parelius/plinth/internal/router"
)

// Application ties configuration, the rewriter and the HTTP server together
type Application struct {
	configMu sync.RWMutex
	config   *config.Config
	upstream ports.UpstreamService

	server   *http.Server
	logger   *logger.StyledLogger
	registry *router.RouteRegistry
	rewriter *rewrite.Rewriter
	errCh    chan error
}

// New creates a new application instance
func New(log *logger.StyledLogger) (*Application, error) {
	app := &Application{
		logger:   log,
		registry: router.NewRouteRegistry(log),
		rewriter: rewrite.New(rewrite.DefaultPolicy(), log),
		errCh:    make(chan error, 1),
	}

	cfg, err := config.Load(func(fsnotify.Event) {
		newConfig, err := config.Reload()
		if err != nil {
			log.Error("Failed to reload config file", "error", err)
			return
		}
		log.Info("Configuration reloaded", "file", newConfig.Filename)
		app.applyConfig(newConfig)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app.applyConfig(cfg)

	app.server = &http.Server{
		Addr:         cfg.Server.GetAddress(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      nil, // set in Start()
	}

	return app, nil
}

// applyConfig installs a loaded configuration: the rewrite policy and the
// upstream forwarder follow hot reloads, server bind settings need a restart.
func (a *Application) applyConfig(cfg *config.Config) {
	a.setConfig(cfg)
	a.rewriter.UpdatePolicy(rewritePolicy(cfg.Rewrite))

	if cfg.Upstream.URL == "" {
		a.setUpstream(nil)
		a.logger.Warn("No upstream configured, running in echo mode")
		return
	}

	svc, err := upstream.NewService(cfg.Upstream, a.logger)
	if err != nil {
		a.logger.Error("Failed to configure upstream, keeping previous", "error", err)
		return
	}
	a.setUpstream(svc)
	a.logger.InfoWithUpstream("Forwarding corrected requests to", svc.Target())
}

// Start starts the application
func (a *Application) Start(ctx context.Context) error {
	go func() {
		select {
		case err := <-a.errCh:
			a.logger.Error("Server startup error", "error", err)
		case <-ctx.Done():
			return
		}
	}()

	a.startWebServer()
	a.probeUpstream(ctx)

	return nil
}

// Stop gracefully shuts down the application
func (a *Application) Stop(ctx context.Context) error {
	cfg := a.getConfig()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down WebServer...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// probeUpstream verifies the application server is reachable at startup.
// Failure is logged, not fatal: the upstream may simply start later.
func (a *Application) probeUpstream(ctx context.Context) {
	svc := a.getUpstream()
	if svc == nil {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := svc.CheckHealth(probeCtx); err != nil {
		a.logger.Warn("Upstream not reachable yet", "upstream", svc.Target(), "error", err)
		return
	}
	a.logger.InfoWithUpstream("Upstream reachable", svc.Target())
}
