package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parelius/plinth/internal/adapter/rewrite"
	"github.com/parelius/plinth/internal/adapter/urlgen"
	"github.com/parelius/plinth/internal/core/domain"
)

func fixHandler(t *testing.T, policy rewrite.Policy, capture **domain.RequestScope, capturePath *string) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = ScopeFromContext(r.Context())
		*capturePath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	return ProxyFix(rewrite.New(policy, nil))(inner)
}

func TestProxyFixStaticPrefix(t *testing.T) {
	policy := rewrite.DefaultPolicy()
	policy.PathPrefix = "/some-service/v1"

	var scope *domain.RequestScope
	var routedPath string
	handler := fixHandler(t, policy, &scope, &routedPath)

	req := httptest.NewRequest("GET", "http://app.internal/foo", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.NotNil(t, scope)
	assert.Equal(t, "/foo", routedPath, "routing still sees the stripped path")
	assert.Equal(t, "/some-service/v1", scope.ConsumedPrefix)
	assert.Equal(t, "/some-service/v1/foo", scope.FullPath())

	// relative and absolute URL generation pick up the prefix
	assert.Equal(t, "/some-service/v1/foo", urlgen.RouteURL(scope, "foo"))
	scope.Scheme, scope.Host = "https", "example.com"
	assert.Equal(t, "https://example.com/some-service/v1/foo", urlgen.AbsoluteURL(scope, "foo"))
}

func TestProxyFixStripsForwardedFullPath(t *testing.T) {
	policy := rewrite.DefaultPolicy()
	policy.PathPrefix = "/some-service/v1"

	var scope *domain.RequestScope
	var routedPath string
	handler := fixHandler(t, policy, &scope, &routedPath)

	// proxy forwarded the original path with the prefix still on it
	req := httptest.NewRequest("GET", "http://app.internal/some-service/v1/foo", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, scope)
	assert.Equal(t, "/foo", routedPath)
	assert.Equal(t, "/some-service/v1/foo", scope.FullPath(), "prefix appears exactly once")
}

func TestProxyFixHeaderOverride(t *testing.T) {
	policy := rewrite.DefaultPolicy()
	policy.PathPrefix = "/some-service/v1"

	var scope *domain.RequestScope
	var routedPath string
	handler := fixHandler(t, policy, &scope, &routedPath)

	req := httptest.NewRequest("GET", "http://app.internal/foo", nil)
	req.Header.Set("X-Script-Name", "/other-prefix")
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "example.com")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, scope)
	assert.Equal(t, "/other-prefix", scope.ConsumedPrefix)
	assert.Equal(t, "https", scope.Scheme)
	assert.Equal(t, "example.com", scope.Host)
}

func TestProxyFixPassThrough(t *testing.T) {
	var scope *domain.RequestScope
	var routedPath string
	handler := fixHandler(t, rewrite.DefaultPolicy(), &scope, &routedPath)

	req := httptest.NewRequest("GET", "http://app.internal/foo", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, scope)
	assert.Equal(t, "/foo", routedPath)
	assert.Equal(t, "", scope.ConsumedPrefix)
	assert.Equal(t, "/foo", scope.FullPath())
	assert.Equal(t, "http", scope.Scheme)
	assert.Equal(t, "app.internal", scope.Host)
	assert.Equal(t, "/foo", urlgen.RouteURL(scope, "foo"), "URLs come out as if plinth were not installed")
}

func TestScopeFromRequestTLS(t *testing.T) {
	req := httptest.NewRequest("GET", "https://app.internal/foo", nil)
	scope := ScopeFromRequest(req)
	assert.Equal(t, "https", scope.Scheme, "httptest sets TLS state for https URLs")
	assert.Equal(t, "app.internal", scope.Host)
}

func TestScopeFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "http://app.internal/foo", nil)
	assert.Nil(t, ScopeFromContext(req.Context()))
}
