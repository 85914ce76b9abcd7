package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Filename string         `yaml:"-"`
	Logging  LoggingConfig  `yaml:"logging"`
	Rewrite  RewriteConfig  `yaml:"rewrite"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Server   ServerConfig   `yaml:"server"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestLogging  bool          `yaml:"request_logging"`
}

// GetAddress returns the server address in host:port format
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RewriteConfig holds the mount-point rewriting configuration.
//
// PathPrefix is the statically configured external mount prefix. It should
// start with "/" and not end with "/"; values that don't are normalised
// rather than rejected, since a misconfigured prefix must never take the
// service down.
type RewriteConfig struct {
	PathPrefix            string   `yaml:"path_prefix"`
	TrustForwardedHeaders bool     `yaml:"trust_forwarded_headers"`
	PrefixHeaders         []string `yaml:"prefix_headers"`
	SchemeHeaders         []string `yaml:"scheme_headers"`
	HostHeaders           []string `yaml:"host_headers"`
}

// UpstreamConfig holds the application server the corrected requests are
// forwarded to. An empty URL runs the daemon in echo mode (useful for
// verifying a proxy chain before wiring the real application).
type UpstreamConfig struct {
	URL             string        `yaml:"url"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ResponseTimeout time.Duration `yaml:"response_timeout"`
	FlushInterval   time.Duration `yaml:"flush_interval"`
	PassHostHeader  bool          `yaml:"pass_host_header"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Validate checks the parts of the configuration that cannot be recovered
// by normalisation.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Upstream.URL != "" {
		parsed, err := url.Parse(c.Upstream.URL)
		if err != nil {
			return fmt.Errorf("upstream.url invalid: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("upstream.url must be http or https, got %q", parsed.Scheme)
		}
		if parsed.Host == "" {
			return fmt.Errorf("upstream.url missing host")
		}
	}
	return nil
}
