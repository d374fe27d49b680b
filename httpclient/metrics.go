package httpclient

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for Executor operations. A nil
// *metrics is a no-op, so instrument creation failures degrade silently.
type metrics struct {
	// requestDuration measures one logical request end to end, including
	// all retry attempts and waits.
	requestDuration metric.Float64Histogram

	// retryAttempts counts individual retries.
	retryAttempts metric.Int64Counter

	// retryExhausted counts logical requests that ran out of retries.
	// A rising value indicates sustained downstream trouble.
	retryExhausted metric.Int64Counter

	// rateLimited counts 429 responses observed.
	rateLimited metric.Int64Counter
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"rencom.client.request.duration",
		metric.WithDescription("Duration of logical API requests in seconds, retries included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	m.retryAttempts, err = meter.Int64Counter(
		"rencom.client.retry.attempts",
		metric.WithDescription("Number of retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	m.retryExhausted, err = meter.Int64Counter(
		"rencom.client.retry.exhausted",
		metric.WithDescription("Number of requests that exhausted all retries"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.rateLimited, err = meter.Int64Counter(
		"rencom.client.rate_limited",
		metric.WithDescription("Number of 429 responses observed"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) recordRequestDuration(
	ctx context.Context,
	attrs []attribute.KeyValue,
	method string,
	d time.Duration,
) {
	if m == nil {
		return
	}
	attrs = append(attrs, attribute.String("http.request.method", method))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

func (m *metrics) recordRetryAttempt(ctx context.Context, attrs []attribute.KeyValue, attempt int) {
	if m == nil {
		return
	}
	attrs = append(attrs, attribute.Int("retry.attempt", attempt))
	m.retryAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordRetryExhausted(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil {
		return
	}
	m.retryExhausted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordRateLimited(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attrs...))
}
