// Package httpclient implements the transport core shared by every Rencom
// API surface: credential injection, retries, rate-limit accounting, and
// OpenTelemetry instrumentation.
//
// # Features
//
//   - Credential precedence (admin key > session token > API key)
//   - Automatic retries with exponential backoff and jitter
//   - Semantic error taxonomy mapped from HTTP status codes
//   - Passive rate-limit snapshots parsed from response headers
//   - Optional local request throttling and circuit breaking
//   - In-flight GET coalescing
//   - OpenTelemetry tracing and metrics
//
// # Quick Start
//
//	exec, err := httpclient.New(
//	    httpclient.WithAPIKey("rk_live_..."),
//	)
//	if err != nil {
//	    // No credential found (argument or RENCOM_API_KEY).
//	}
//
//	res, err := exec.Get(ctx, "/x402/v1/search", query, nil)
//
// Decode JSON responses directly:
//
//	var page SearchPage
//	err := exec.DoJSON(ctx, http.MethodGet, "/x402/v1/search", query, nil, nil, &page)
//
// # Errors
//
// Every failure surfaces as an *Error carrying a kind sentinel, the HTTP
// status, and any server detail:
//
//	if errors.Is(err, httpclient.ErrRateLimit) {
//	    var apiErr *httpclient.Error
//	    errors.As(err, &apiErr)
//	    wait := apiErr.RetryAfter
//	}
//
// ErrServiceUnavailable matches ErrServer and ErrTimeout matches ErrNetwork,
// so callers can test at whichever granularity they need.
//
// # Retries
//
// Server errors (5xx) and transient network failures retry automatically
// with exponential backoff: 1s initial, doubling per attempt, capped at 60s,
// with 25% jitter. Rate limits (429) are surfaced immediately unless
// WithAutoRetryRateLimits is set, in which case the server's Retry-After
// overrides the backoff schedule:
//
//	exec, err := httpclient.New(
//	    httpclient.WithAPIKey(key),
//	    httpclient.WithMaxRetries(5),
//	    httpclient.WithAutoRetryRateLimits(true),
//	)
//
// # Observability
//
// The executor emits:
//
// Metrics:
//   - rencom.client.request.duration (histogram)
//   - rencom.client.retry.attempts (counter)
//   - rencom.client.retry.exhausted (counter)
//   - rencom.client.rate_limited (counter)
//
// Traces:
//   - One span per logical request with method, path, status code
//   - Retry events with attempt number and delay
//
// Wire providers explicitly, or the global otel providers are used:
//
//	exec, err := httpclient.New(
//	    httpclient.WithAPIKey(key),
//	    httpclient.WithTracerProvider(tp),
//	    httpclient.WithMeterProvider(mp),
//	)
//
// # Testing
//
// MockTransport stubs responses without a network:
//
//	mock := httpclient.NewMockTransport().
//	    EnqueueResponse(503, `{"detail":"maintenance"}`, nil).
//	    EnqueueResponse(200, `{"results":[]}`, nil)
//	exec, err := httpclient.New(
//	    httpclient.WithAPIKey("test"),
//	    httpclient.WithTransport(mock),
//	)
package httpclient
