package upstream

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parelius/plinth/internal/config"
	"github.com/parelius/plinth/internal/core/domain"
	"github.com/parelius/plinth/internal/logger"
	"github.com/parelius/plinth/theme"
)

func testLogger() *logger.StyledLogger {
	return logger.NewStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), theme.Default())
}

func testConfig(targetURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		URL:             targetURL,
		ConnectTimeout:  2 * time.Second,
		ResponseTimeout: 5 * time.Second,
	}
}

func TestForwardCarriesScopeHeaders(t *testing.T) {
	var seen http.Header
	var seenPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		seenPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc, err := NewService(testConfig(backend.URL), testLogger())
	require.NoError(t, err)

	scope := &domain.RequestScope{
		ConsumedPrefix: "/some-service/v1",
		RemainingPath:  "/foo",
		Scheme:         "https",
		Host:           "example.com",
	}

	req := httptest.NewRequest("GET", "http://plinth.internal/foo", nil)
	rr := httptest.NewRecorder()
	svc.Forward(rr, req, scope)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/foo", seenPath)
	assert.Equal(t, "/some-service/v1", seen.Get("X-Script-Name"))
	assert.Equal(t, "/some-service/v1", seen.Get("X-Forwarded-Prefix"))
	assert.Equal(t, "https", seen.Get("X-Forwarded-Proto"))
	assert.Equal(t, "example.com", seen.Get("X-Forwarded-Host"))
}

func TestForwardJoinsUpstreamBasePath(t *testing.T) {
	var seenPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
	}))
	defer backend.Close()

	svc, err := NewService(testConfig(backend.URL+"/app"), testLogger())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://plinth.internal/foo", nil)
	svc.Forward(httptest.NewRecorder(), req, &domain.RequestScope{RemainingPath: "/foo"})

	assert.Equal(t, "/app/foo", seenPath)
}

func TestForwardWithoutScopeStillProxies(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer backend.Close()

	svc, err := NewService(testConfig(backend.URL), testLogger())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://plinth.internal/", nil)
	rr := httptest.NewRecorder()
	svc.Forward(rr, req, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestForwardBadGatewayOnDeadUpstream(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := backend.URL
	backend.Close()

	svc, err := NewService(testConfig(deadURL), testLogger())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://plinth.internal/foo", nil)
	rr := httptest.NewRecorder()
	svc.Forward(rr, req, nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(config.UpstreamConfig{}, testLogger())
	assert.Error(t, err)
}

func TestCheckHealth(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // any response means reachable
	}))
	defer backend.Close()

	svc, err := NewService(testConfig(backend.URL), testLogger())
	require.NoError(t, err)
	assert.NoError(t, svc.CheckHealth(t.Context()))

	backend.Close()
	assert.Error(t, svc.CheckHealth(t.Context()))
}
