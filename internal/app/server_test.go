package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parelius/plinth/internal/adapter/rewrite"
	"github.com/parelius/plinth/internal/app/middleware"
	"github.com/parelius/plinth/internal/config"
	"github.com/parelius/plinth/internal/logger"
	"github.com/parelius/plinth/internal/router"
	"github.com/parelius/plinth/internal/version"
	"github.com/parelius/plinth/theme"
)

func testApp(t *testing.T) *Application {
	t.Helper()
	log := logger.NewStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), theme.Default())
	return &Application{
		config:   config.DefaultConfig(),
		logger:   log,
		registry: router.NewRouteRegistry(log),
		rewriter: rewrite.New(rewrite.DefaultPolicy(), log),
		errCh:    make(chan error, 1),
	}
}

// testHandler assembles the same chain startWebServer builds, minus the
// listener, so handlers can be exercised with httptest.
func testHandler(a *Application) http.Handler {
	mux := http.NewServeMux()
	a.registerRoutes()
	a.registry.WireUp(mux)

	var handler http.Handler = mux
	handler = middleware.RequestLogging(a.logger)(middleware.AccessLogging(a.logger)(handler))
	handler = middleware.ProxyFix(a.rewriter)(handler)
	return handler
}

func TestForwardHandlerEchoesRewrittenScope(t *testing.T) {
	a := testApp(t)
	handler := testHandler(a)

	req := httptest.NewRequest("GET", "http://plinth.internal/foo", nil)
	req.Header.Set("X-Forwarded-Prefix", "/some-service/v1")
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "example.com")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "/some-service/v1", body["mount_prefix"])
	assert.Equal(t, "/some-service/v1/foo", body["external_path"])
	assert.Equal(t, "https", body["scheme"])
	assert.Equal(t, "example.com", body["host"])
	assert.Equal(t, "https://example.com/some-service/v1/foo", body["absolute_url"])
}

func TestForwardHandlerEchoWithoutPrefix(t *testing.T) {
	a := testApp(t)
	handler := testHandler(a)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "http://plinth.internal/foo", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "", body["mount_prefix"])
	assert.Equal(t, "/foo", body["external_path"])
}

func TestHealthHandlerWithoutUpstream(t *testing.T) {
	a := testApp(t)
	handler := testHandler(a)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "http://plinth.internal/internal/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusHandlerReportsActivePolicy(t *testing.T) {
	a := testApp(t)
	a.rewriter.UpdatePolicy(rewritePolicy(config.RewriteConfig{
		PathPrefix:            "/mounted/here",
		TrustForwardedHeaders: false,
	}))
	handler := testHandler(a)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "http://plinth.internal/internal/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "/mounted/here", body["path_prefix"])
	assert.Equal(t, false, body["trust_forwarded_headers"])
}

func TestVersionHandler(t *testing.T) {
	a := testApp(t)
	handler := testHandler(a)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "http://plinth.internal/internal/version", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentTypeJSON, rr.Header().Get(ContentTypeHeader))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, version.Name, body["name"])
	assert.Equal(t, version.Version, body["version"])
}

func TestRewritePolicyFallsBackToDefaultHeaders(t *testing.T) {
	policy := rewritePolicy(config.RewriteConfig{PathPrefix: "/p", TrustForwardedHeaders: true})

	assert.Equal(t, rewrite.DefaultPrefixHeaders, policy.PrefixHeaders)
	assert.Equal(t, rewrite.DefaultSchemeHeaders, policy.SchemeHeaders)
	assert.Equal(t, rewrite.DefaultHostHeaders, policy.HostHeaders)
}
