package httpclient

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimitSnapshot holds the rate-limit accounting parsed from a single
// response's headers. Each field is independently optional; a nil pointer
// means the server did not send that header.
//
// Snapshots are informational only: the Executor never throttles itself
// based on them. A fresh snapshot is produced per response and never merged
// with a prior one.
type RateLimitSnapshot struct {
	// LimitMinute is X-RateLimit-Limit-Minute.
	LimitMinute *int64

	// RemainingMinute is X-RateLimit-Remaining-Minute.
	RemainingMinute *int64

	// LimitDaily is X-RateLimit-Limit-Daily.
	LimitDaily *int64

	// RemainingDaily is X-RateLimit-Remaining-Daily.
	RemainingDaily *int64

	// ResetAt is X-RateLimit-Reset, a Unix timestamp.
	ResetAt *int64
}

// parseRateLimitSnapshot reads the recognized rate-limit headers.
// Returns nil when none are present.
func parseRateLimitSnapshot(h http.Header) *RateLimitSnapshot {
	s := &RateLimitSnapshot{
		LimitMinute:     headerInt64(h, "X-RateLimit-Limit-Minute"),
		RemainingMinute: headerInt64(h, "X-RateLimit-Remaining-Minute"),
		LimitDaily:      headerInt64(h, "X-RateLimit-Limit-Daily"),
		RemainingDaily:  headerInt64(h, "X-RateLimit-Remaining-Daily"),
		ResetAt:         headerInt64(h, "X-RateLimit-Reset"),
	}
	if s.LimitMinute == nil && s.RemainingMinute == nil &&
		s.LimitDaily == nil && s.RemainingDaily == nil && s.ResetAt == nil {
		return nil
	}
	return s
}

// headerInt64 parses an integer header, returning nil when absent or
// malformed. A malformed value is treated the same as absence.
func headerInt64(h http.Header, key string) *int64 {
	v := h.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// LocalRateLimitConfig configures an optional client-side token-bucket
// limiter applied before each attempt. This is a static, caller-configured
// ceiling; it is not driven by server rate-limit snapshots.
type LocalRateLimitConfig struct {
	// RequestsPerSecond is the maximum sustained attempt rate.
	RequestsPerSecond float64

	// Burst is the maximum number of attempts allowed in a burst.
	// Defaults to 1 when zero.
	Burst int
}

// newLocalLimiter builds the limiter, or nil when disabled.
func newLocalLimiter(cfg *LocalRateLimitConfig) *rate.Limiter {
	if cfg == nil || cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}
