package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/rencom-ai/rencom-go/httpclient"

	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.rencom.ai"

	// EnvAPIKey is the environment variable consulted when no credential
	// is configured explicitly.
	EnvAPIKey = "RENCOM_API_KEY"

	// DefaultTimeout bounds the full request lifecycle per attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry ceiling; the initial attempt is not
	// counted, so at most DefaultMaxRetries+1 attempts run.
	DefaultMaxRetries = 3
)

// Config holds the HTTP transport configuration. Use DefaultConfig() as a
// starting point, then modify specific fields as needed.
//
// The connection pool is the only shared mutable resource between
// concurrent calls; it needs no external locking since each call owns its
// own request/response lifecycle.
type Config struct {
	// Timeout limits one attempt, including connection establishment,
	// TLS handshake, and reading the response body. Zero disables the
	// limit, which is not recommended in production.
	// Default: 30s
	Timeout time.Duration

	// MaxIdleConns caps idle keep-alive connections across all hosts.
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections per host. The SDK talks
	// to a single API host, so this can sit close to MaxIdleConns.
	// Default: 20
	MaxIdleConnsPerHost int

	// MaxConnsPerHost caps total connections (idle + active) per host.
	// Zero means unlimited.
	// Default: 50
	MaxConnsPerHost int

	// IdleConnTimeout is how long idle connections stay pooled.
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake.
	// Default: 10s
	TLSHandshakeTimeout time.Duration

	// DialTimeout bounds TCP connection establishment.
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive is the TCP keep-alive probe interval.
	// Default: 30s
	KeepAlive time.Duration

	// ForceHTTP2 enables HTTP/2 when the server supports it.
	// Default: true
	ForceHTTP2 bool
}

// DefaultConfig returns balanced settings for SDK use against a single
// API host.
func DefaultConfig() Config {
	return Config{
		Timeout:             DefaultTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		ForceHTTP2:          true,
	}
}

// internalConfig holds all Executor configuration.
type internalConfig struct {
	httpConfig Config

	BaseURL             string
	Credential          Credential
	MaxRetries          int
	AutoRetryRateLimits bool

	// Transport overrides the built pool transport (tests, middleware).
	Transport http.RoundTripper

	// BackOffFactory produces a fresh schedule per logical request.
	BackOffFactory func() backoff.BackOff

	LocalRateLimit *LocalRateLimitConfig
	BreakerConfig  *BreakerConfig
	Coalesce       bool

	Debug  bool
	Logger zerolog.Logger

	ServiceName string

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics
}

// newConfig creates a new internal config with defaults and applies options.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		httpConfig:     DefaultConfig(),
		BaseURL:        DefaultBaseURL,
		MaxRetries:     DefaultMaxRetries,
		BackOffFactory: newExponentialBackOff,
		Logger:         zerolog.Nop(),
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// buildHTTPClient assembles the pooled client, honoring a transport
// override when set.
func (cfg *internalConfig) buildHTTPClient() *http.Client {
	transport := cfg.Transport
	if transport == nil {
		hc := cfg.httpConfig
		dialer := &net.Dialer{
			Timeout:   hc.DialTimeout,
			KeepAlive: hc.KeepAlive,
		}
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        hc.MaxIdleConns,
			MaxIdleConnsPerHost: hc.MaxIdleConnsPerHost,
			MaxConnsPerHost:     hc.MaxConnsPerHost,
			IdleConnTimeout:     hc.IdleConnTimeout,
			TLSHandshakeTimeout: hc.TLSHandshakeTimeout,
			ForceAttemptHTTP2:   hc.ForceHTTP2,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.httpConfig.Timeout,
	}
}

// baseAttributes returns common attributes for all spans and metrics.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// Option configures the Executor.
type Option func(*internalConfig)

// WithBaseURL overrides the API base address. A trailing slash is
// tolerated.
func WithBaseURL(baseURL string) Option {
	return func(cfg *internalConfig) {
		cfg.BaseURL = baseURL
	}
}

// WithConfig sets the HTTP transport configuration.
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig = c
	}
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig.Timeout = d
	}
}

// WithMaxRetries sets the retry ceiling. Zero disables retries; the
// initial attempt always runs.
func WithMaxRetries(n int) Option {
	return func(cfg *internalConfig) {
		if n >= 0 {
			cfg.MaxRetries = n
		}
	}
}

// WithAutoRetryRateLimits opts in to retrying 429 responses, honoring the
// server's Retry-After when present. Off by default: rate-limit errors
// surface immediately so callers can shed load deliberately.
func WithAutoRetryRateLimits(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.AutoRetryRateLimits = enabled
	}
}

// WithAPIKey authenticates with an API key (X-API-Key header).
func WithAPIKey(key string) Option {
	return func(cfg *internalConfig) {
		cfg.Credential.APIKey = key
	}
}

// WithSessionToken authenticates with a bearer session token
// (Authorization header). Takes precedence over an API key.
func WithSessionToken(token string) Option {
	return func(cfg *internalConfig) {
		cfg.Credential.SessionToken = token
	}
}

// WithAdminKey authenticates with an administrative key (X-Admin-Key
// header). Takes precedence over both session token and API key.
func WithAdminKey(key string) Option {
	return func(cfg *internalConfig) {
		cfg.Credential.AdminKey = key
	}
}

// WithCredential sets the whole credential at once.
func WithCredential(c Credential) Option {
	return func(cfg *internalConfig) {
		cfg.Credential = c
	}
}

// WithTransport overrides the underlying round tripper. Used by tests with
// MockTransport and by callers composing their own middleware.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		cfg.Transport = rt
	}
}

// WithBackOff installs a custom backoff schedule factory. The factory is
// invoked once per logical request so schedules never leak state between
// calls.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(cfg *internalConfig) {
		if factory != nil {
			cfg.BackOffFactory = factory
		}
	}
}

// WithLocalRateLimit enables a client-side token-bucket ceiling applied
// before each attempt.
func WithLocalRateLimit(c LocalRateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.LocalRateLimit = &c
	}
}

// WithBreaker enables a circuit breaker around the transport send.
func WithBreaker(c BreakerConfig) Option {
	return func(cfg *internalConfig) {
		cfg.BreakerConfig = &c
	}
}

// WithRequestCoalescing merges concurrent identical GET requests into a
// single transport call. Off by default.
func WithRequestCoalescing(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Coalesce = enabled
	}
}

// WithDebug enables request/response logging to stderr.
func WithDebug(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = enabled
		if enabled {
			cfg.Logger = newDebugLogger()
		}
	}
}

// WithLogger routes debug logging to the given logger and enables it.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = true
		cfg.Logger = logger
	}
}

// WithServiceName identifies this client in traces and metrics.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTracerProvider sets a custom OpenTelemetry TracerProvider. The
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		if tp != nil {
			cfg.TracerProvider = tp
		}
	}
}

// WithMeterProvider sets a custom OpenTelemetry MeterProvider. The global
// provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		if mp != nil {
			cfg.MeterProvider = mp
		}
	}
}
