// Package urlgen builds relative and absolute URLs from a rewritten request
// scope. It is the consumer side of the rewrite contract: any URL produced
// here naturally carries the externally visible mount prefix and origin
// without knowing a proxy exists.
package urlgen

import (
	"path"
	"strings"

	"github.com/parelius/plinth/internal/core/domain"
	"github.com/parelius/plinth/internal/util"
)

// RouteURL returns the external path for a route, mounted under the scope's
// consumed prefix. The route may be given with or without a leading slash.
func RouteURL(scope *domain.RequestScope, route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if scope == nil || scope.ConsumedPrefix == "" {
		return route
	}
	return path.Join(scope.ConsumedPrefix, route)
}

// AbsoluteURL returns the fully qualified external URL for a route, using
// the scheme and host the client actually reached the proxy with.
func AbsoluteURL(scope *domain.RequestScope, route string) string {
	rel := RouteURL(scope, route)
	if scope == nil || scope.Host == "" {
		return rel
	}
	scheme := scope.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return util.JoinURLPath(scheme+"://"+scope.Host, rel)
}
