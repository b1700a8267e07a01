package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/chaincall/observe"
	"github.com/jonwraymond/chaincall/resilience"
	"github.com/jonwraymond/chaincall/secret"
)

// ServiceName is the default telemetry service name.
const ServiceName = "chaincall"

// Config is the full process configuration.
type Config struct {
	Node     NodeConfig     `mapstructure:"node"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Observe  ObserveConfig  `mapstructure:"observe"`
	Health   HealthConfig   `mapstructure:"health"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// NodeConfig locates the EVM node.
type NodeConfig struct {
	// URL is the JSON-RPC endpoint. It may hold ${VAR} and secretref values.
	URL string `mapstructure:"url"`
}

// CacheConfig sizes the shared gate.
type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// DispatchConfig bounds the calls that reach the node. A zero limit
// disables the matching guard. MaxWait bounds queueing for a bulkhead slot
// and for a rate token; zero rejects at once when the bulkhead is full.
type DispatchConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxConcurrent      int           `mapstructure:"max_concurrent"`
	MaxWait            time.Duration `mapstructure:"max_wait"`
	Rate               float64       `mapstructure:"rate"`
	Burst              int           `mapstructure:"burst"`
	BreakerMaxFailures int           `mapstructure:"breaker_max_failures"`
	BreakerReset       time.Duration `mapstructure:"breaker_reset"`
}

// ObserveConfig mirrors observe.Config.
type ObserveConfig struct {
	ServiceName string        `mapstructure:"service_name"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// TracingConfig mirrors observe.TracingConfig.
type TracingConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Exporter  string  `mapstructure:"exporter"`
	Endpoint  string  `mapstructure:"endpoint"`
	SamplePct float64 `mapstructure:"sample_pct"`
}

// MetricsConfig mirrors observe.MetricsConfig.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoggingConfig mirrors observe.LoggingConfig.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// HealthConfig configures the serve command's probes.
type HealthConfig struct {
	Addr           string        `mapstructure:"addr"`
	StallThreshold time.Duration `mapstructure:"stall_threshold"`
	NodeStaleAfter time.Duration `mapstructure:"node_stale_after"`
}

// SecretsConfig configures secret reference providers.
type SecretsConfig struct {
	// Dir is the base directory for secretref:file references.
	Dir string `mapstructure:"dir"`
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Node.URL == "" {
		return ErrMissingNodeURL
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.Cache.Capacity)
	}

	d := c.Dispatch
	switch {
	case d.Timeout < 0:
		return fmt.Errorf("%w: timeout %s", ErrInvalidDispatch, d.Timeout)
	case d.MaxConcurrent < 0:
		return fmt.Errorf("%w: max_concurrent %d", ErrInvalidDispatch, d.MaxConcurrent)
	case d.MaxWait < 0:
		return fmt.Errorf("%w: max_wait %s", ErrInvalidDispatch, d.MaxWait)
	case d.Rate < 0:
		return fmt.Errorf("%w: rate %g", ErrInvalidDispatch, d.Rate)
	case d.Burst < 0:
		return fmt.Errorf("%w: burst %d", ErrInvalidDispatch, d.Burst)
	case d.BreakerMaxFailures < 0:
		return fmt.Errorf("%w: breaker_max_failures %d", ErrInvalidDispatch, d.BreakerMaxFailures)
	case d.BreakerReset < 0:
		return fmt.Errorf("%w: breaker_reset %s", ErrInvalidDispatch, d.BreakerReset)
	}

	if c.Health.StallThreshold < 0 || c.Health.NodeStaleAfter < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidHealth)
	}

	obs := c.Observe.ToObserve("")
	if err := obs.Validate(); err != nil {
		return fmt.Errorf("config: observe: %w", err)
	}
	return nil
}

// ToObserve converts the section into an observe.Config.
func (o ObserveConfig) ToObserve(version string) observe.Config {
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			Endpoint:  o.Tracing.Endpoint,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
			Endpoint: o.Metrics.Endpoint,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}

// Guard builds the dispatch guards. isFailure decides which errors count
// against the breaker; nil counts every error but cancellation. The breaker
// is returned so callers can report its state, and is nil when disabled.
func (d DispatchConfig) Guard(isFailure func(error) bool) ([]resilience.GuardOption, *resilience.CircuitBreaker) {
	var opts []resilience.GuardOption
	if d.Rate > 0 {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:    d.Rate,
			Burst:   d.Burst,
			MaxWait: d.MaxWait,
		})))
	}
	if d.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: d.MaxConcurrent,
			MaxWait:       d.MaxWait,
		})))
	}

	var cb *resilience.CircuitBreaker
	if d.BreakerMaxFailures > 0 {
		cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  d.BreakerMaxFailures,
			ResetTimeout: d.BreakerReset,
			IsFailure:    isFailure,
		})
		opts = append(opts, resilience.WithCircuitBreaker(cb))
	}

	if d.Timeout > 0 {
		opts = append(opts, resilience.WithTimeout(d.Timeout))
	}
	return opts, cb
}

// ResolveNodeURL expands environment variables and secret references in
// node.url. Empty secrets are rejected.
func (c *Config) ResolveNodeURL(ctx context.Context) (string, error) {
	registry := secret.NewDefaultRegistry()

	var providers []secret.Provider
	for _, name := range registry.List() {
		var cfg map[string]any
		if name == "file" && c.Secrets.Dir != "" {
			cfg = map[string]any{"dir": c.Secrets.Dir}
		}
		p, err := registry.Create(name, cfg)
		if err != nil {
			return "", fmt.Errorf("config: secret provider %s: %w", name, err)
		}
		providers = append(providers, p)
	}

	resolver := secret.NewResolver(true, providers...)
	defer func() { _ = resolver.Close() }()

	url, err := resolver.ResolveValue(ctx, c.Node.URL)
	if err != nil {
		return "", fmt.Errorf("config: resolve node url: %w", err)
	}
	if url == "" {
		return "", ErrMissingNodeURL
	}
	return url, nil
}
