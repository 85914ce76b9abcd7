// Package rewrite derives the externally-visible mount prefix and origin for
// an inbound request from static configuration and trusted forwarded headers,
// and splices them into the request scope so that URL generation anywhere
// later in the request lifecycle produces correctly prefixed, correctly
// schemed URLs.
package rewrite

import (
	"strings"
	"sync"

	"github.com/parelius/plinth/internal/core/domain"
	"github.com/parelius/plinth/internal/logger"
)

// Default header names understood by the rewriter. For each concern the
// first header carrying a value wins; within a single header the last
// occurrence is authoritative.
var (
	DefaultPrefixHeaders = []string{"X-Forwarded-Prefix", "X-Script-Name"}
	DefaultSchemeHeaders = []string{"X-Forwarded-Proto", "X-Forwarded-Scheme"}
	DefaultHostHeaders   = []string{"X-Forwarded-Host"}
)

// Policy is the immutable input of a rewrite pass
type Policy struct {
	// PathPrefix is the statically configured mount prefix. Empty means
	// rewriting is a no-op unless a trusted prefix header is present.
	PathPrefix string

	// TrustHeaders controls whether forwarded headers may override the
	// static configuration and the transport-observed scheme and host.
	TrustHeaders bool

	PrefixHeaders []string
	SchemeHeaders []string
	HostHeaders   []string
}

// DefaultPolicy returns a policy that trusts the conventional forwarded
// headers and has no static prefix configured.
func DefaultPolicy() Policy {
	return Policy{
		TrustHeaders:  true,
		PrefixHeaders: DefaultPrefixHeaders,
		SchemeHeaders: DefaultSchemeHeaders,
		HostHeaders:   DefaultHostHeaders,
	}
}

// Rewriter applies a Policy to request scopes. It is shared across all
// concurrently processed requests; the policy is swapped wholesale on config
// reload, never mutated in place.
type Rewriter struct {
	mu     sync.RWMutex
	policy Policy
	logger *logger.StyledLogger
}

func New(policy Policy, log *logger.StyledLogger) *Rewriter {
	return &Rewriter{policy: policy, logger: log}
}

// UpdatePolicy swaps the active policy. Called from the config hot-reload
// path; in-flight requests finish with the policy they started with.
func (rw *Rewriter) UpdatePolicy(policy Policy) {
	rw.mu.Lock()
	rw.policy = policy
	rw.mu.Unlock()

	if rw.logger != nil {
		prefix := NormalizePrefix(policy.PathPrefix)
		if prefix == "" {
			prefix = "(none)"
		}
		rw.logger.InfoWithPrefix("Rewrite policy updated, static prefix", prefix,
			"trust_headers", policy.TrustHeaders)
	}
}

// Policy returns the active policy
func (rw *Rewriter) Policy() Policy {
	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return rw.policy
}

// Rewrite mutates the scope so that ConsumedPrefix carries the externally
// visible mount prefix exactly once and Scheme/Host match what the client
// used to reach the outermost proxy. It never fails: malformed input is
// normalised or ignored, and a misconfigured prefix degrades to wrong URLs,
// not a broken request.
func (rw *Rewriter) Rewrite(scope *domain.RequestScope) {
	policy := rw.Policy()

	prefix := ""
	if policy.TrustHeaders {
		prefix = firstForwardedValue(scope.Headers, policy.PrefixHeaders)
	}
	if prefix == "" {
		prefix = policy.PathPrefix
	}

	// No effective prefix means the fixer is installed but not active for
	// this deployment; leave the scope untouched.
	if prefix = NormalizePrefix(prefix); prefix == "" {
		return
	}

	scope.ConsumedPrefix = prefix + scope.ConsumedPrefix

	// The proxy may forward the full original path, prefix included.
	// Strip that one occurrence so the prefix is never doubled.
	if scope.RemainingPath == prefix {
		scope.RemainingPath = "/"
	} else if strings.HasPrefix(scope.RemainingPath, prefix+"/") {
		scope.RemainingPath = strings.TrimPrefix(scope.RemainingPath, prefix)
	}

	if !policy.TrustHeaders {
		return
	}

	if scheme := firstForwardedValue(scope.Headers, policy.SchemeHeaders); scheme != "" {
		scope.Scheme = strings.ToLower(scheme)
	}
	if host := firstForwardedValue(scope.Headers, policy.HostHeaders); host != "" {
		scope.Host = host
	}
}

// NormalizePrefix coerces a configured or forwarded prefix into canonical
// shape: leading slash, no trailing slash. A bare "/" (or empty input)
// normalises to "", meaning no prefix.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	for strings.HasSuffix(prefix, "/") {
		prefix = strings.TrimSuffix(prefix, "/")
	}
	return prefix
}

// firstForwardedValue resolves the first of the candidate headers that
// carries a value. Within one header the last occurrence wins, and proxies
// that fold repeats into a comma-separated list get the same treatment.
func firstForwardedValue(headers domain.Headers, names []string) string {
	for _, name := range names {
		value := headers.Last(name)
		if value == "" {
			continue
		}
		if idx := strings.LastIndexByte(value, ','); idx >= 0 {
			value = value[idx+1:]
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value
		}
	}
	return ""
}
