package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/observe"
	"github.com/jonwraymond/chaincall/resilience"
)

// EnvPrefix prefixes every environment override, e.g. CHAINCALL_NODE_URL.
const EnvPrefix = "CHAINCALL"

// Load reads configuration from path, or from ./chaincall.{yaml,toml,json}
// when path is empty, then applies CHAINCALL_* overrides and validates the
// result. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chaincall")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", describe(v, path), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", describe(v, path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration an empty file and environment produce.
// It does not validate; node.url is empty.
func Default() *Config {
	v := newViper()
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node.url", "")

	v.SetDefault("cache.capacity", cache.DefaultCapacity)

	v.SetDefault("dispatch.timeout", resilience.DefaultTimeout)
	v.SetDefault("dispatch.max_concurrent", 32)
	v.SetDefault("dispatch.max_wait", resilience.DefaultTimeout)
	v.SetDefault("dispatch.rate", 0.0)
	v.SetDefault("dispatch.burst", 0)
	v.SetDefault("dispatch.breaker_max_failures", 5)
	v.SetDefault("dispatch.breaker_reset", "30s")

	v.SetDefault("observe.service_name", ServiceName)
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.endpoint", "")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.enabled", false)
	v.SetDefault("observe.metrics.exporter", "none")
	v.SetDefault("observe.metrics.endpoint", "")
	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", observe.LevelInfo.String())

	v.SetDefault("health.addr", ":8080")
	v.SetDefault("health.stall_threshold", "30s")
	v.SetDefault("health.node_stale_after", "2m")

	v.SetDefault("secrets.dir", "")
}

func describe(v *viper.Viper, path string) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	if path != "" {
		return path
	}
	return "config"
}
