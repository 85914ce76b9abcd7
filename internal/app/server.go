package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parelius/plinth/internal/adapter/urlgen"
	"github.com/parelius/plinth/internal/app/middleware"
	"github.com/parelius/plinth/internal/version"
)

const (
	ContentTypeJSON   = "application/json"
	ContentTypeHeader = "Content-Type"
)

func (a *Application) startWebServer() {
	cfg := a.getConfig()
	a.logger.Info("Starting WebServer...", "host", cfg.Server.Host, "port", cfg.Server.Port)

	mux := http.NewServeMux()
	a.registerRoutes()
	a.registry.WireUp(mux)

	var handler http.Handler = mux
	if cfg.Server.RequestLogging {
		handler = middleware.RequestLogging(a.logger)(middleware.AccessLogging(a.logger)(handler))
	}
	// mount-point correction runs outermost, before routing and logging
	handler = middleware.ProxyFix(a.rewriter)(handler)
	a.server.Handler = handler

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", "error", err)
			a.errCh <- err
		}
	}()

	a.logger.Info("Started WebServer", "bind", a.server.Addr)
}

func (a *Application) registerRoutes() {
	a.registry.Register("/internal/health", a.healthHandler, "Health of plinth and its upstream")
	a.registry.Register("/internal/status", a.statusHandler, "Active rewrite policy and upstream")
	a.registry.Register("/internal/version", a.versionHandler, "Version information")
	a.registry.RegisterForwardRoute("/", a.forwardHandler, "Corrected requests to the application server")
}

// forwardHandler hands the corrected request to the upstream application.
// Without an upstream it echoes the rewritten scope instead, which makes
// verifying a proxy chain trivial.
func (a *Application) forwardHandler(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())

	if svc := a.getUpstream(); svc != nil {
		svc.Forward(w, r, scope)
		return
	}

	w.Header().Set(ContentTypeHeader, ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	response := map[string]any{
		"message": "no upstream configured",
		"path":    r.URL.Path,
	}
	if scope != nil {
		response["mount_prefix"] = scope.ConsumedPrefix
		response["external_path"] = scope.FullPath()
		response["scheme"] = scope.Scheme
		response["host"] = scope.Host
		response["route_url"] = urlgen.RouteURL(scope, scope.RemainingPath)
		response["absolute_url"] = urlgen.AbsoluteURL(scope, scope.RemainingPath)
	}
	_ = json.NewEncoder(w).Encode(response)
}

// healthHandler reports plinth's own health plus upstream reachability
func (a *Application) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{"status": "healthy"}

	if svc := a.getUpstream(); svc != nil {
		response["upstream"] = svc.Target()
		if err := svc.CheckHealth(r.Context()); err != nil {
			response["status"] = "degraded"
			response["upstream_error"] = err.Error()
		}
	}

	w.Header().Set(ContentTypeHeader, ContentTypeJSON)
	if response["status"] == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(response)
}

// statusHandler exposes the active rewrite policy for operators
func (a *Application) statusHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.getConfig()
	policy := a.rewriter.Policy()

	response := map[string]any{
		"path_prefix":             policy.PathPrefix,
		"trust_forwarded_headers": policy.TrustHeaders,
		"prefix_headers":          policy.PrefixHeaders,
		"scheme_headers":          policy.SchemeHeaders,
		"host_headers":            policy.HostHeaders,
		"config_file":             cfg.Filename,
	}
	if svc := a.getUpstream(); svc != nil {
		response["upstream"] = svc.Target()
	}

	w.Header().Set(ContentTypeHeader, ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (a *Application) versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(ContentTypeHeader, ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"name":    version.Name,
		"version": version.Version,
		"commit":  version.Commit,
		"built":   version.Date,
	})
}
