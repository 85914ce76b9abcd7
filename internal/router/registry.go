package router

import (
	"net/http"
	"sort"

	"github.com/parelius/plinth/internal/logger"
)

type RouteInfo struct {
	Handler     http.HandlerFunc
	Description string
	Method      string
	Order       int
	IsForward   bool
}

// RouteRegistry collects routes before wiring them onto a mux, so startup
// can log the full surface in registration order.
type RouteRegistry struct {
	routes   map[string]RouteInfo
	logger   *logger.StyledLogger
	orderSeq int
}

func NewRouteRegistry(log *logger.StyledLogger) *RouteRegistry {
	return &RouteRegistry{
		routes: make(map[string]RouteInfo),
		logger: log,
	}
}

func (r *RouteRegistry) Register(route string, handler http.HandlerFunc, description string) {
	r.register(route, handler, description, http.MethodGet, false)
}

func (r *RouteRegistry) RegisterWithMethod(route string, handler http.HandlerFunc, description, method string) {
	r.register(route, handler, description, method, false)
}

// RegisterForwardRoute marks the catch-all that hands requests to the
// upstream application.
func (r *RouteRegistry) RegisterForwardRoute(route string, handler http.HandlerFunc, description string) {
	r.register(route, handler, description, "", true)
}

func (r *RouteRegistry) register(route string, handler http.HandlerFunc, description, method string, isForward bool) {
	r.orderSeq++
	r.routes[route] = RouteInfo{
		Handler:     handler,
		Description: description,
		Method:      method,
		Order:       r.orderSeq,
		IsForward:   isForward,
	}
}

// WireUp attaches all registered routes to the mux and logs them
func (r *RouteRegistry) WireUp(mux *http.ServeMux) {
	ordered := make([]string, 0, len(r.routes))
	for route := range r.routes {
		ordered = append(ordered, route)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return r.routes[ordered[i]].Order < r.routes[ordered[j]].Order
	})

	for _, route := range ordered {
		info := r.routes[route]
		pattern := route
		if info.Method != "" {
			pattern = info.Method + " " + route
		}
		mux.HandleFunc(pattern, info.Handler)

		if r.logger != nil {
			if info.IsForward {
				r.logger.InfoWithUpstream("Registered forward route", route, "description", info.Description)
			} else {
				r.logger.Debug("Registered route", "route", pattern, "description", info.Description)
			}
		}
	}

	if r.logger != nil {
		r.logger.InfoWithCount("Routes wired", len(r.routes))
	}
}
