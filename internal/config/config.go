package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	DefaultPort = 19842
	DefaultHost = "localhost"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestLogging:  true,
		},
		Rewrite: RewriteConfig{
			TrustForwardedHeaders: true,
			PrefixHeaders:         []string{"X-Forwarded-Prefix", "X-Script-Name"},
			SchemeHeaders:         []string{"X-Forwarded-Proto", "X-Forwarded-Scheme"},
			HostHeaders:           []string{"X-Forwarded-Host"},
		},
		Upstream: UpstreamConfig{
			ConnectTimeout:  10 * time.Second,
			ResponseTimeout: 60 * time.Second,
			FlushInterval:   100 * time.Millisecond,
			PassHostHeader:  false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load loads configuration from file and environment variables. When
// onChange is non-nil the config file is watched and the callback fires on
// every change; the caller re-reads through Reload.
func Load(onChange func(fsnotify.Event)) (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("PLINTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Deployments migrating from the WSGI middleware keep their variable
	_ = viper.BindEnv("rewrite.path_prefix",
		"PLINTH_REWRITE_PATH_PREFIX", "REVERSE_PROXY_PATH_PREFIX")

	if err := viper.ReadInConfig(); err != nil {
		// a missing config file is fine, env and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if configFile := os.Getenv("PLINTH_CONFIG_FILE"); configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	if err := unmarshal(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Filename = viper.ConfigFileUsed()

	if onChange != nil {
		viper.OnConfigChange(onChange)
		viper.WatchConfig()
	}

	return config, nil
}

// Reload re-reads the watched config file and returns a fresh Config on top
// of the defaults. Used from the hot-reload callback.
func Reload() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error re-reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := unmarshal(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Filename = viper.ConfigFileUsed()
	return config, nil
}

func unmarshal(config *Config) error {
	err := viper.Unmarshal(config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}
	return nil
}
