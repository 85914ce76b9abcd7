package app

import (
	"github.com/parelius/plinth/internal/adapter/rewrite"
	"github.com/parelius/plinth/internal/config"
	"github.com/parelius/plinth/internal/core/ports"
)

func (a *Application) setConfig(cfg *config.Config) {
	a.configMu.Lock()
	defer a.configMu.Unlock()
	a.config = cfg
}

func (a *Application) getConfig() *config.Config {
	a.configMu.RLock()
	defer a.configMu.RUnlock()
	return a.config
}

func (a *Application) setUpstream(svc ports.UpstreamService) {
	a.configMu.Lock()
	defer a.configMu.Unlock()
	a.upstream = svc
}

func (a *Application) getUpstream() ports.UpstreamService {
	a.configMu.RLock()
	defer a.configMu.RUnlock()
	return a.upstream
}

// rewritePolicy translates the config section into the rewriter's policy,
// falling back to the conventional header names when none are configured.
func rewritePolicy(rc config.RewriteConfig) rewrite.Policy {
	policy := rewrite.Policy{
		PathPrefix:    rc.PathPrefix,
		TrustHeaders:  rc.TrustForwardedHeaders,
		PrefixHeaders: rc.PrefixHeaders,
		SchemeHeaders: rc.SchemeHeaders,
		HostHeaders:   rc.HostHeaders,
	}
	if len(policy.PrefixHeaders) == 0 {
		policy.PrefixHeaders = rewrite.DefaultPrefixHeaders
	}
	if len(policy.SchemeHeaders) == 0 {
		policy.SchemeHeaders = rewrite.DefaultSchemeHeaders
	}
	if len(policy.HostHeaders) == 0 {
		policy.HostHeaders = rewrite.DefaultHostHeaders
	}
	return policy
}
