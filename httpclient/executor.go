package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Result is the outcome of one successful logical request.
type Result struct {
	// Status is the HTTP status code.
	Status int

	// Body is the raw response payload.
	Body json.RawMessage

	// Header holds the response headers.
	Header http.Header

	// RateLimit is the snapshot parsed from this response's headers, nil
	// when the server sent none. Informational only.
	RateLimit *RateLimitSnapshot
}

// Executor is the single chokepoint through which all outbound API calls
// flow. It owns authentication header selection, retry/backoff scheduling,
// error taxonomy mapping, and rate-limit bookkeeping.
//
// An Executor is immutable after construction and safe for concurrent use;
// many Execute calls may run in parallel over the shared connection pool.
//
//	exec, err := httpclient.New(
//	    httpclient.WithAPIKey("rk_live_..."),
//	    httpclient.WithMaxRetries(3),
//	)
type Executor struct {
	httpClient *http.Client
	cfg        *internalConfig
	limiter    *rate.Limiter
	breaker    *breakerGate
	group      *singleflight.Group
}

// New constructs an Executor. When no credential option is given, the
// RENCOM_API_KEY environment variable is consulted; if that is also unset,
// New fails with ErrNoCredential so misconfiguration surfaces at
// construction, not at call time.
func New(opts ...Option) (*Executor, error) {
	cfg := newConfig(opts...)

	if cfg.Credential.isZero() {
		cfg.Credential.APIKey = os.Getenv(EnvAPIKey)
	}
	if cfg.Credential.isZero() {
		return nil, ErrNoCredential
	}

	e := &Executor{
		httpClient: cfg.buildHTTPClient(),
		cfg:        cfg,
		limiter:    newLocalLimiter(cfg.LocalRateLimit),
		breaker:    newBreakerGate(cfg),
	}
	if cfg.Coalesce {
		e.group = &singleflight.Group{}
	}
	return e, nil
}

// BaseURL returns the configured base address.
func (e *Executor) BaseURL() string {
	return strings.TrimSuffix(e.cfg.BaseURL, "/")
}

// CloseIdleConnections releases pooled connections. In-flight requests are
// unaffected.
func (e *Executor) CloseIdleConnections() {
	e.httpClient.CloseIdleConnections()
}

// Get executes a GET request and decodes the response into out (skipped
// when out is nil).
func (e *Executor) Get(ctx context.Context, path string, q *Query, out any) error {
	return e.DoJSON(ctx, http.MethodGet, path, q, nil, nil, out)
}

// Post executes a POST request with a JSON body and decodes the response
// into out (skipped when out is nil).
func (e *Executor) Post(ctx context.Context, path string, body any, out any) error {
	return e.DoJSON(ctx, http.MethodPost, path, nil, body, nil, out)
}

// Delete executes a DELETE request.
func (e *Executor) Delete(ctx context.Context, path string) error {
	return e.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil, nil)
}

// DoJSON runs Do and decodes the body into out. A decode failure on an
// otherwise successful response is a hard ErrDecode, never retried. An
// empty body with a nil out is fine; an empty body with a non-nil out
// leaves out untouched.
func (e *Executor) DoJSON(
	ctx context.Context,
	method, path string,
	q *Query,
	body any,
	extra http.Header,
	out any,
) error {
	res, err := e.Do(ctx, method, path, q, body, extra)
	if err != nil {
		return err
	}
	if out == nil || len(res.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return &Error{
			Kind:    ErrDecode,
			Status:  res.Status,
			Message: "decode response: " + err.Error(),
			cause:   err,
		}
	}
	return nil
}

// Do executes one logical request to completion: build headers, send,
// classify the outcome, and retry retryable failures up to the configured
// ceiling with exponential-jitter backoff. It returns the raw decoded-JSON
// body or exactly one typed error.
//
// path is relative to the base URL. q and extra may be nil. A non-nil body
// is marshaled to JSON once and replayed on each attempt.
func (e *Executor) Do(
	ctx context.Context,
	method, path string,
	q *Query,
	body any,
	extra http.Header,
) (*Result, error) {
	url := e.BaseURL() + "/" + strings.TrimPrefix(path, "/")
	if enc := q.Encode(); enc != "" {
		url += "?" + enc
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, &Error{
				Kind:    ErrValidation,
				Message: "encode request body: " + err.Error(),
				cause:   err,
			}
		}
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	e.cfg.Credential.apply(header)
	for k, vs := range extra {
		header[http.CanonicalHeaderKey(k)] = vs
	}

	ctx, span := e.cfg.Tracer.Start(ctx, "rencom "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := e.coalesced(ctx, method, url, header, bodyBytes)
	e.cfg.Metrics.recordRequestDuration(ctx, e.cfg.baseAttributes(), method, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", res.Status))
	return res, nil
}

// coalesced merges concurrent identical GETs into one transport call when
// coalescing is enabled. The first caller's context drives the shared
// request.
func (e *Executor) coalesced(
	ctx context.Context,
	method, url string,
	header http.Header,
	bodyBytes []byte,
) (*Result, error) {
	if e.group == nil || method != http.MethodGet {
		return e.run(ctx, method, url, header, bodyBytes)
	}

	v, err, _ := e.group.Do(coalesceKey(method, url, e.cfg.Credential), func() (any, error) {
		return e.run(ctx, method, url, header, bodyBytes)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// run is the attempt-wait-retry loop for one logical request. Sequential:
// no parallel fan-out of retries. Both the transport send and the backoff
// wait abort promptly when ctx is cancelled.
func (e *Executor) run(
	ctx context.Context,
	method, url string,
	header http.Header,
	bodyBytes []byte,
) (*Result, error) {
	bo := e.cfg.BackOffFactory()
	span := trace.SpanFromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		res, err := e.attempt(ctx, method, url, header, bodyBytes)
		out, override, hasOverride := classify(err, e.cfg.AutoRetryRateLimits)

		switch out {
		case outcomeSuccess:
			return res, nil
		case outcomeFatal:
			return nil, err
		}

		lastErr = err
		if attempt == e.cfg.MaxRetries {
			break
		}

		wait := bo.NextBackOff()
		if hasOverride {
			wait = override
		}

		e.cfg.Metrics.recordRetryAttempt(ctx, e.cfg.baseAttributes(), attempt+1)
		e.cfg.Logger.Debug().
			Str("method", method).
			Str("url", url).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Err(err).
			Msg("retrying request")
		if span.IsRecording() {
			span.AddEvent("http.retry", trace.WithAttributes(
				attribute.Int("retry.attempt", attempt+1),
				attribute.Int64("retry.delay_ms", wait.Milliseconds()),
			))
		}

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	e.cfg.Metrics.recordRetryExhausted(ctx, e.cfg.baseAttributes())
	return nil, lastErr
}

// attempt performs a single transport send and maps the outcome to either
// a Result or a typed *Error at the point of detection.
func (e *Executor) attempt(
	ctx context.Context,
	method, url string,
	header http.Header,
	bodyBytes []byte,
) (*Result, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reqBody io.Reader
	if bodyBytes != nil {
		reqBody = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &Error{Kind: ErrValidation, Message: "build request: " + err.Error(), cause: err}
	}
	for k, vs := range header {
		req.Header[k] = vs
	}

	if e.cfg.Debug {
		logRequest(e.cfg.Logger, req)
	}
	start := time.Now()

	resp, err := e.breaker.send(func() (*http.Response, error) {
		return e.httpClient.Do(req) //nolint:bodyclose // closed below after read
	})
	if err != nil {
		if isBreakerRejection(err) {
			return nil, err
		}
		return nil, transportError(ctx, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if e.cfg.Debug {
		logResponse(e.cfg.Logger, resp, time.Since(start))
	}
	if readErr != nil {
		return nil, transportError(ctx, readErr)
	}

	if resp.StatusCode >= 400 {
		statusErr := statusError(resp.StatusCode, respBody, resp.Header)
		if statusErr.Kind == ErrRateLimit {
			e.cfg.Metrics.recordRateLimited(ctx, e.cfg.baseAttributes())
		}
		return nil, statusErr
	}

	return &Result{
		Status:    resp.StatusCode,
		Body:      respBody,
		Header:    resp.Header,
		RateLimit: parseRateLimitSnapshot(resp.Header),
	}, nil
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
