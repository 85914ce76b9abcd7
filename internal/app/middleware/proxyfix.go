package middleware

import (
	"context"
	"net/http"

	"github.com/parelius/plinth/internal/core/domain"
	"github.com/parelius/plinth/internal/core/ports"
)

// ScopeKey carries the rewritten request scope through the request context
const ScopeKey contextKey = "request_scope"

// ScopeFromContext retrieves the rewritten scope, or nil before ProxyFix ran
func ScopeFromContext(ctx context.Context) *domain.RequestScope {
	if scope, ok := ctx.Value(ScopeKey).(*domain.RequestScope); ok {
		return scope
	}
	return nil
}

// ScopeFromRequest builds the transport-observed view of a request, before
// any correction is applied.
func ScopeFromRequest(r *http.Request) *domain.RequestScope {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &domain.RequestScope{
		Headers:       domain.NewHeaders(r.Header),
		RemainingPath: r.URL.Path,
		Scheme:        scheme,
		Host:          r.Host,
	}
}

// ProxyFix is the install hook for mount-point correction. It runs once per
// request before routing: it derives the request scope, lets the rewriter
// correct it, strips a proxy-forwarded duplicate prefix from the routed
// path, and parks the scope in the context for URL generation and upstream
// forwarding. It never rejects or short-circuits a request.
func ProxyFix(rewriter ports.ContextRewriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ScopeFromRequest(r)
			rewriter.Rewrite(scope)

			if scope.RemainingPath != r.URL.Path {
				r2 := r.Clone(r.Context())
				r2.URL.Path = scope.RemainingPath
				r2.URL.RawPath = ""
				r = r2
			}

			ctx := context.WithValue(r.Context(), ScopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
