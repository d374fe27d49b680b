package rencom

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/rencom-ai/rencom-go/httpclient"
)

// Option configures the underlying request executor. All httpclient
// options apply unchanged.
type Option = httpclient.Option

// Client is the entry point for the Rencom API. Each API section hangs
// off its own namespace:
//
//	client, err := rencom.New(rencom.WithAPIKey("rk_live_..."))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	page, err := client.X402.Search(ctx, "weather api", nil)
//	merchants, err := client.UCP.Merchants.Search(ctx, &rencom.MerchantSearchParams{Industry: "retail"})
//	user, err := client.Auth.Me(ctx)
//
// A Client is safe for concurrent use.
type Client struct {
	exec *httpclient.Executor

	// X402 searches resources that accept x402 blockchain payments.
	X402 *X402Client

	// UCP groups merchant discovery, product search, and analytics.
	UCP *UCP

	// Auth handles magic-link login, API keys, and usage stats.
	Auth *AuthClient
}

// New constructs a Client. A .env file in the working directory is loaded
// best-effort before credential resolution, so RENCOM_API_KEY can live
// there during development. Fails with httpclient.ErrNoCredential when no
// credential can be found.
func New(opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	exec, err := httpclient.New(opts...)
	if err != nil {
		return nil, err
	}
	return newClient(exec), nil
}

func newClient(exec *httpclient.Executor) *Client {
	return &Client{
		exec: exec,
		X402: &X402Client{exec: exec},
		UCP: &UCP{
			Merchants: &MerchantsClient{exec: exec},
			Products:  &ProductsClient{exec: exec},
			Analytics: &AnalyticsClient{exec: exec},
		},
		Auth: &AuthClient{exec: exec},
	}
}

// Close releases pooled connections. The client must not be used after.
func (c *Client) Close() {
	c.exec.CloseIdleConnections()
}

// BaseURL returns the configured API base address.
func (c *Client) BaseURL() string {
	return c.exec.BaseURL()
}

// Commonly used executor options re-exported for convenience. Anything
// not covered here can be passed as an httpclient option directly.

// WithAPIKey authenticates with an API key.
func WithAPIKey(key string) Option { return httpclient.WithAPIKey(key) }

// WithSessionToken authenticates with a session JWT, for the auth and
// account endpoints. Takes precedence over an API key.
func WithSessionToken(token string) Option { return httpclient.WithSessionToken(token) }

// WithAdminKey authenticates with an administrative key. Takes precedence
// over both other credentials.
func WithAdminKey(key string) Option { return httpclient.WithAdminKey(key) }

// WithBaseURL overrides the API base address.
func WithBaseURL(baseURL string) Option { return httpclient.WithBaseURL(baseURL) }

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(d time.Duration) Option { return httpclient.WithTimeout(d) }

// WithMaxRetries sets the retry ceiling for transient failures.
func WithMaxRetries(n int) Option { return httpclient.WithMaxRetries(n) }

// WithAutoRetryRateLimits opts in to retrying 429 responses.
func WithAutoRetryRateLimits(enabled bool) Option {
	return httpclient.WithAutoRetryRateLimits(enabled)
}

// WithDebug enables request/response logging with credentials redacted.
func WithDebug(enabled bool) Option { return httpclient.WithDebug(enabled) }
