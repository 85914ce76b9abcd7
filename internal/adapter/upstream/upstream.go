// Package upstream forwards corrected requests to the application server.
// The rewritten scope travels with the request: the app receives the
// externally visible prefix, scheme and host as forwarded headers, so even a
// scope-unaware framework can build correct URLs.
package upstream

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/parelius/plinth/internal/config"
	"github.com/parelius/plinth/internal/core/domain"
	"github.com/parelius/plinth/internal/logger"
)

type scopeKey struct{}

// Service proxies requests to a single application server
type Service struct {
	target   *url.URL
	proxy    *httputil.ReverseProxy
	client   *http.Client
	logger   *logger.StyledLogger
	passHost bool
}

func NewService(cfg config.UpstreamConfig, log *logger.StyledLogger) (*Service, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("upstream.url is required")
	}
	target, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing upstream.url: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ResponseTimeout,
		ForceAttemptHTTP2:     true,
	}

	s := &Service{
		target:   target,
		logger:   log,
		passHost: cfg.PassHostHeader,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.ConnectTimeout + cfg.ResponseTimeout,
		},
	}

	s.proxy = &httputil.ReverseProxy{
		Rewrite:       s.rewriteRequest,
		Transport:     transport,
		FlushInterval: cfg.FlushInterval,
		ErrorHandler:  s.handleError,
	}

	return s, nil
}

// Forward proxies the request upstream, carrying the rewritten scope
func (s *Service) Forward(w http.ResponseWriter, r *http.Request, scope *domain.RequestScope) {
	ctx := context.WithValue(r.Context(), scopeKey{}, scope)
	s.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// Target returns the upstream base URL
func (s *Service) Target() string {
	return s.target.String()
}

// CheckHealth probes the upstream with a HEAD request. Any response counts
// as reachable; only transport failures are errors.
func (s *Service) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.target.String(), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (s *Service) rewriteRequest(pr *httputil.ProxyRequest) {
	pr.SetURL(s.target)
	pr.SetXForwarded()

	if s.passHost {
		pr.Out.Host = pr.In.Host
	}

	scope, _ := pr.In.Context().Value(scopeKey{}).(*domain.RequestScope)
	if scope == nil {
		return
	}

	// The scope already reflects the outermost proxy's view, which beats
	// whatever SetXForwarded derived from the inbound hop.
	if scope.ConsumedPrefix != "" {
		pr.Out.Header.Set("X-Script-Name", scope.ConsumedPrefix)
		pr.Out.Header.Set("X-Forwarded-Prefix", scope.ConsumedPrefix)
	}
	if scope.Scheme != "" {
		pr.Out.Header.Set("X-Forwarded-Proto", scope.Scheme)
	}
	if scope.Host != "" {
		pr.Out.Header.Set("X-Forwarded-Host", scope.Host)
	}
}

func (s *Service) handleError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("Upstream request failed",
		"upstream", s.target.String(),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)

	http.Error(w, "upstream unavailable", http.StatusBadGateway)
}
