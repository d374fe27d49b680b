package httpclient

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestExecutor builds an Executor over a MockTransport with a
// millisecond backoff so retry tests run instantly.
func newTestExecutor(t *testing.T, mock *MockTransport, opts ...Option) *Executor {
	t.Helper()

	base := []Option{
		WithAPIKey("rk_test"),
		WithBaseURL("https://api.test"),
		WithTransport(mock),
		WithBackOff(func() backoff.BackOff {
			return &ConstantBackOffWithJitter{Interval: time.Millisecond}
		}),
	}
	exec, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return exec
}

func TestNew_CredentialResolution(t *testing.T) {
	t.Run("given no credential and no env, then ErrNoCredential", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")

		_, err := New()

		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("given env api key, then used as fallback", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "rk_env")
		mock := NewMockTransport().StubResponse(200, `{}`)

		exec, err := New(WithTransport(mock), WithBaseURL("https://api.test"))
		require.NoError(t, err)

		require.NoError(t, exec.Get(context.Background(), "/auth/me", nil, nil))
		assert.Equal(t, "rk_env", mock.LastRequest().Header.Get("X-API-Key"))
	})

	t.Run("given explicit key, then env ignored", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "rk_env")
		mock := NewMockTransport().StubResponse(200, `{}`)

		exec, err := New(
			WithAPIKey("rk_explicit"),
			WithTransport(mock),
			WithBaseURL("https://api.test"),
		)
		require.NoError(t, err)

		require.NoError(t, exec.Get(context.Background(), "/auth/me", nil, nil))
		assert.Equal(t, "rk_explicit", mock.LastRequest().Header.Get("X-API-Key"))
	})
}

func TestExecutor_RequestShape(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock)

	q := NewQuery().Set("q", "laptop").SetInt("limit", 5)
	require.NoError(t, exec.Get(context.Background(), "/x402/v1/search", q, nil))

	req := mock.LastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://api.test/x402/v1/search?limit=5&q=laptop", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "rk_test", req.Header.Get("X-API-Key"))
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("X-Admin-Key"))
}

func TestExecutor_AuthHeaderPrecedence(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock, WithSessionToken("tok"), WithAdminKey("adm"))

	require.NoError(t, exec.Get(context.Background(), "/auth/me", nil, nil))

	req := mock.LastRequest()
	assert.Equal(t, "adm", req.Header.Get("X-Admin-Key"))
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("X-API-Key"))
}

func TestExecutor_RetriesServerErrorsThenSucceeds(t *testing.T) {
	mock := NewMockTransport().
		EnqueueResponse(500, `{"detail":"boom"}`, nil).
		EnqueueResponse(503, `{"detail":"maintenance"}`, nil).
		EnqueueResponse(200, `{"ok":true}`, nil)
	exec := newTestExecutor(t, mock, WithMaxRetries(2))

	var out struct {
		OK bool `json:"ok"`
	}
	err := exec.Get(context.Background(), "/x402/v1/search", nil, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, 3, mock.RequestCount())
}

func TestExecutor_ExhaustsRetries(t *testing.T) {
	mock := NewMockTransport().StubResponse(500, `{"detail":"boom"}`)
	exec := newTestExecutor(t, mock, WithMaxRetries(2))

	err := exec.Get(context.Background(), "/x402/v1/search", nil, nil)

	require.ErrorIs(t, err, ErrServer)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, mock.RequestCount())
}

func TestExecutor_ZeroRetriesStillAttemptsOnce(t *testing.T) {
	mock := NewMockTransport().StubResponse(503, `{}`)
	exec := newTestExecutor(t, mock, WithMaxRetries(0))

	err := exec.Get(context.Background(), "/x402/v1/search", nil, nil)

	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestExecutor_RetriesTransientNetworkErrors(t *testing.T) {
	mock := NewMockTransport().
		EnqueueError(syscall.ECONNRESET).
		EnqueueResponse(200, `{}`, nil)
	exec := newTestExecutor(t, mock, WithMaxRetries(1))

	err := exec.Get(context.Background(), "/x402/v1/search", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, mock.RequestCount())
}

func TestExecutor_ClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind error
	}{
		{name: "given 400, then single attempt", status: 400, wantKind: ErrValidation},
		{name: "given 401, then single attempt", status: 401, wantKind: ErrAuthentication},
		{name: "given 403, then single attempt", status: 403, wantKind: ErrAuthorization},
		{name: "given 404, then single attempt", status: 404, wantKind: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubResponse(tt.status, `{"detail":"nope"}`)
			exec := newTestExecutor(t, mock, WithMaxRetries(3))

			err := exec.Get(context.Background(), "/auth/me", nil, nil)

			require.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, 1, mock.RequestCount())
		})
	}
}

func TestExecutor_RateLimitSurfacesImmediatelyByDefault(t *testing.T) {
	header := http.Header{"Retry-After": []string{"7"}}
	mock := NewMockTransport()
	mock.EnqueueResponse(429, `{"detail":"rate limit exceeded"}`, header)
	exec := newTestExecutor(t, mock, WithMaxRetries(3))

	err := exec.Get(context.Background(), "/x402/v1/search", nil, nil)

	require.ErrorIs(t, err, ErrRateLimit)
	assert.Equal(t, 1, mock.RequestCount())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 7, apiErr.RetryAfter)
}

func TestExecutor_AutoRetryRateLimitsHonorsRetryAfter(t *testing.T) {
	header := http.Header{"Retry-After": []string{"0"}}
	mock := NewMockTransport()
	mock.EnqueueResponse(429, `{"detail":"rate limit exceeded"}`, header)
	mock.EnqueueResponse(200, `{}`, nil)
	exec := newTestExecutor(t, mock, WithMaxRetries(1), WithAutoRetryRateLimits(true))

	err := exec.Get(context.Background(), "/x402/v1/search", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, mock.RequestCount())
}

func TestExecutor_PostMarshalsBody(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{"logged":true}`)
	exec := newTestExecutor(t, mock)

	body := map[string]any{"product_url": "https://shop.test/p/1", "merchant_domain": "shop.test"}
	var out struct {
		Logged bool `json:"logged"`
	}
	err := exec.Post(context.Background(), "/ucp/v1/analytics/click", body, &out)

	require.NoError(t, err)
	assert.True(t, out.Logged)

	req := mock.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	require.NotNil(t, req.Body)
}

func TestExecutor_DecodeFailureIsFatal(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{not json`)
	exec := newTestExecutor(t, mock, WithMaxRetries(3))

	var out map[string]any
	err := exec.Get(context.Background(), "/x402/v1/search", nil, &out)

	require.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestExecutor_EmptyBodyWithNilOut(t *testing.T) {
	mock := NewMockTransport().StubResponse(204, "")
	exec := newTestExecutor(t, mock)

	err := exec.Delete(context.Background(), "/auth/api-keys/rk_test")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, mock.LastRequest().Method)
}

func TestExecutor_RateLimitSnapshotOnSuccess(t *testing.T) {
	header := http.Header{}
	header.Set("X-RateLimit-Limit-Minute", "60")
	header.Set("X-RateLimit-Remaining-Minute", "41")
	header.Set("X-RateLimit-Reset", "1735689600")
	mock := NewMockTransport()
	mock.EnqueueResponse(200, `{}`, header)
	exec := newTestExecutor(t, mock)

	res, err := exec.Do(context.Background(), http.MethodGet, "/x402/v1/search", nil, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, res.RateLimit)
	assert.Equal(t, int64(60), *res.RateLimit.LimitMinute)
	assert.Equal(t, int64(41), *res.RateLimit.RemainingMinute)
	assert.Equal(t, int64(1735689600), *res.RateLimit.ResetAt)
	assert.Nil(t, res.RateLimit.LimitDaily)
}

func TestExecutor_NoSnapshotWithoutHeaders(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock)

	res, err := exec.Do(context.Background(), http.MethodGet, "/x402/v1/search", nil, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, res.RateLimit)
}

func TestExecutor_CancelledContextStopsRetrying(t *testing.T) {
	mock := NewMockTransport().StubResponse(500, `{}`)
	exec := newTestExecutor(t, mock, WithMaxRetries(10), WithBackOff(func() backoff.BackOff {
		return &ConstantBackOffWithJitter{Interval: time.Hour}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- exec.Get(ctx, "/x402/v1/search", nil, nil)
	}()

	// Let the first attempt land, then cancel during the backoff wait.
	require.Eventually(t, func() bool { return mock.RequestCount() >= 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("request did not abort on cancellation")
	}
	assert.Equal(t, 1, mock.RequestCount())
}

func TestExecutor_ExtraHeadersMerged(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock)

	extra := http.Header{"X-Request-Id": []string{"req-123"}}
	_, err := exec.Do(context.Background(), http.MethodGet, "/auth/me", nil, nil, extra)

	require.NoError(t, err)
	req := mock.LastRequest()
	assert.Equal(t, "req-123", req.Header.Get("X-Request-Id"))
	assert.Equal(t, "rk_test", req.Header.Get("X-API-Key"))
}

func TestExecutor_BaseURLTrailingSlash(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock, WithBaseURL("https://api.test/"))

	require.NoError(t, exec.Get(context.Background(), "x402/v1/search", nil, nil))

	assert.Equal(t, "https://api.test/x402/v1/search", mock.LastRequest().URL.String())
	assert.Equal(t, "https://api.test", exec.BaseURL())
}

func TestExecutor_LocalRateLimit(t *testing.T) {
	mock := NewMockTransport().StubResponse(200, `{}`)
	exec := newTestExecutor(t, mock, WithLocalRateLimit(LocalRateLimitConfig{
		RequestsPerSecond: 1000,
		Burst:             1,
	}))

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, exec.Get(context.Background(), "/x402/v1/search", nil, nil))
	}

	assert.Equal(t, 3, mock.RequestCount())
	// Burst 1 at 1000 rps paces the second and third calls.
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}
