package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/dailypuzzle/cache"
	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/generate"
	"github.com/jonwraymond/dailypuzzle/observe"
	"github.com/jonwraymond/dailypuzzle/secret"
	"github.com/jonwraymond/dailypuzzle/store"
)

// ErrInvalidConfig indicates the loaded configuration failed validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Store backends.
const (
	BackendMemory = "memory"
	BackendMinio  = "minio"
	BackendS3     = "s3"
)

var validBackends = []string{BackendMemory, BackendMinio, BackendS3}

// Config is the complete service configuration.
type Config struct {
	Addr            string        `env:"PUZZLE_ADDR" envDefault:":8080"`
	Timezone        string        `env:"PUZZLE_TIMEZONE" envDefault:"UTC"`
	SingleFlight    bool          `env:"PUZZLE_SINGLE_FLIGHT" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"PUZZLE_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Store   StoreConfig   `envPrefix:"PUZZLE_STORE_"`
	OpenAI  OpenAIConfig  `envPrefix:"OPENAI_"`
	Observe ObserveConfig `envPrefix:"PUZZLE_OTEL_"`
}

// StoreConfig selects and configures the durable tier.
type StoreConfig struct {
	Backend   string        `env:"BACKEND" envDefault:"memory"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
	Bucket    string        `env:"BUCKET"`
	Prefix    string        `env:"PREFIX" envDefault:"puzzles"`
	Endpoint  string        `env:"ENDPOINT"`
	Region    string        `env:"REGION"`
	AccessKey string        `env:"ACCESS_KEY"`
	SecretKey string        `env:"SECRET_KEY"`
	UseSSL    bool          `env:"USE_SSL" envDefault:"true"`
}

// OpenAIConfig configures the generator.
type OpenAIConfig struct {
	APIKey       string        `env:"API_KEY"`
	Model        string        `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL      string        `env:"BASE_URL"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Temperature  float64       `env:"TEMPERATURE" envDefault:"0.9"`
	MaxPerMinute int           `env:"MAX_PER_MINUTE" envDefault:"6"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName     string  `env:"SERVICE_NAME" envDefault:"puzzled"`
	TracingExporter string  `env:"TRACING_EXPORTER" envDefault:"none"`
	SamplePct       float64 `env:"SAMPLE_PCT" envDefault:"1.0"`
	MetricsExporter string  `env:"METRICS_EXPORTER" envDefault:"prometheus"`
	LogLevel        string  `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment, resolves secret references with
// secret.Default and validates the result.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, env.Options{}, secret.Default())
}

// LoadFrom is Load over an explicit environment.
func LoadFrom(ctx context.Context, environ map[string]string, resolver *secret.Resolver) (Config, error) {
	return load(ctx, env.Options{Environment: environ}, resolver)
}

func load(ctx context.Context, opts env.Options, resolver *secret.Resolver) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := resolver.ResolveInPlace(ctx,
		&cfg.OpenAI.APIKey,
		&cfg.Store.AccessKey,
		&cfg.Store.SecretKey,
	); err != nil {
		return Config{}, fmt.Errorf("resolve secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem found, joined, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Addr == "" {
		bad("PUZZLE_ADDR is required")
	}
	if _, err := daykey.Load(c.Timezone); err != nil {
		bad("PUZZLE_TIMEZONE: %v", err)
	}

	switch {
	case !slices.Contains(validBackends, c.Store.Backend):
		bad("PUZZLE_STORE_BACKEND %q is not one of %v", c.Store.Backend, validBackends)
	case c.Store.Backend == BackendMinio && c.Store.Endpoint == "":
		bad("PUZZLE_STORE_ENDPOINT is required for the minio backend")
	}
	if c.Store.Backend != BackendMemory && c.Store.Bucket == "" {
		bad("PUZZLE_STORE_BUCKET is required for the %s backend", c.Store.Backend)
	}
	if c.Store.Timeout <= 0 {
		bad("PUZZLE_STORE_TIMEOUT must be positive")
	}

	if c.OpenAI.APIKey == "" {
		bad("OPENAI_API_KEY is required")
	}
	if c.OpenAI.Timeout <= 0 {
		bad("OPENAI_TIMEOUT must be positive")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		bad("OPENAI_TEMPERATURE must be between 0 and 2")
	}
	if c.OpenAI.MaxPerMinute <= 0 {
		bad("OPENAI_MAX_PER_MINUTE must be positive")
	}

	oc := c.ObserverConfig("")
	if err := oc.Validate(); err != nil {
		bad("observer: %v", err)
	}

	return errors.Join(errs...)
}

// Keyer returns the day key function for Timezone.
func (c Config) Keyer() (*daykey.LocationKeyer, error) {
	return daykey.Load(c.Timezone)
}

// Policy returns the cache policy.
func (c Config) Policy() cache.Policy {
	p := cache.AtLeastOncePolicy()
	if c.SingleFlight {
		p = cache.DefaultPolicy()
	}
	p.StoreTimeout = c.Store.Timeout
	return p
}

// GeneratorConfig returns the generator configuration.
func (c Config) GeneratorConfig(logger observe.Logger) generate.Config {
	return generate.Config{
		APIKey:       c.OpenAI.APIKey,
		Model:        c.OpenAI.Model,
		BaseURL:      c.OpenAI.BaseURL,
		Temperature:  c.OpenAI.Temperature,
		Timeout:      c.OpenAI.Timeout,
		MaxPerMinute: c.OpenAI.MaxPerMinute,
		Logger:       logger,
	}
}

// ObserverConfig returns the telemetry configuration.
func (c Config) ObserverConfig(version string) observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.TracingExporter != "" && o.TracingExporter != "none",
			Exporter:  o.TracingExporter,
			SamplePct: o.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.MetricsExporter != "" && o.MetricsExporter != "none",
			Exporter: o.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   o.LogLevel,
		},
	}
}

// OpenStore builds the configured durable tier.
func (c StoreConfig) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Backend {
	case BackendMinio:
		return store.NewMinioStore(store.MinioConfig{
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			UseSSL:    c.UseSSL,
			Region:    c.Region,
			Bucket:    c.Bucket,
			Prefix:    c.Prefix,
		})
	case BackendS3:
		return store.NewS3Store(ctx, store.S3Config{
			Bucket:    c.Bucket,
			Prefix:    c.Prefix,
			Region:    c.Region,
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
		})
	case BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Backend)
	}
}
