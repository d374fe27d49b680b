package httpclient

import (
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	gobreakerredis "github.com/sony/gobreaker/v2/redis"
)

// ErrCircuitOpen is returned when the breaker rejects a request without
// sending it. Open-circuit rejections are never retried by the Executor;
// retrying would defeat the breaker.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerClassifier decides whether an attempt's failure counts toward
// tripping the circuit. Return true for system failures (5xx, network
// errors); 429s are left to retry/backoff and do not trip the breaker.
type BreakerClassifier func(resp *http.Response, err error) bool

// BreakerConfig configures the optional circuit breaker wrapped around
// the transport send.
//
// States: Closed (normal), Open (rejecting immediately), Half-Open
// (probing recovery with a bounded number of requests).
type BreakerConfig struct {
	// MaxRequests allowed through while half-open. Zero means 1.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing.
	// Defaults to 10s when zero.
	Timeout time.Duration

	// FailureThreshold is the minimum request count before the failure
	// ratio can trip the circuit.
	FailureThreshold uint32

	// FailureRatio trips the circuit when exceeded (0.0 - 1.0).
	FailureRatio float64

	// ConsecutiveFailures trips the circuit immediately when reached.
	// Zero disables the rule.
	ConsecutiveFailures uint32

	// Store shares breaker state across processes. Nil keeps the breaker
	// local to this process.
	Store gobreaker.SharedDataStore

	// Classifier decides which failures count. Default:
	// DefaultBreakerClassifier.
	Classifier BreakerClassifier

	// OnStateChange is invoked on state transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns safe defaults for a local breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             10 * time.Second,
		FailureThreshold:    20,
		FailureRatio:        0.5,
		ConsecutiveFailures: 5,
		Classifier:          DefaultBreakerClassifier,
	}
}

// NewRedisStore creates a SharedDataStore backed by Redis so multiple
// client processes share breaker state: when one trips, all stop sending.
//
//	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{"localhost:6379"}})
//	cfg := httpclient.DefaultBreakerConfig()
//	cfg.Store = httpclient.NewRedisStore(rdb)
func NewRedisStore(client redis.UniversalClient) gobreaker.SharedDataStore {
	return gobreakerredis.NewStoreFromClient(client)
}

// DefaultBreakerClassifier counts 5xx responses and network errors as
// failures. Typed API errors below 500 and rate limits do not trip the
// circuit.
func DefaultBreakerClassifier(resp *http.Response, err error) bool {
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return errors.Is(apiErr, ErrNetwork)
		}
		return true
	}
	return resp != nil && resp.StatusCode >= 500
}

// errBreakerFailure signals the breaker that a request failed (e.g. 5xx)
// even though the round trip returned no error. Unwrapped before the
// response reaches the caller.
var errBreakerFailure = errors.New("breaker failure")

// uncountedError carries an error the classifier excluded from breaker
// accounting (e.g. caller cancellation) through Execute without counting
// it as a failure.
type uncountedError struct{ err error }

func (u *uncountedError) Error() string { return u.err.Error() }

func (u *uncountedError) Unwrap() error { return u.err }

// breakerGate wraps the transport send in a circuit breaker. A nil gate
// is a passthrough.
type breakerGate struct {
	cb       *gobreaker.CircuitBreaker[*http.Response]
	dcb      *gobreaker.DistributedCircuitBreaker[*http.Response]
	classify BreakerClassifier
}

// newBreakerGate builds the gate, or nil when the breaker is disabled.
func newBreakerGate(cfg *internalConfig) *breakerGate {
	bc := cfg.BreakerConfig
	if bc == nil {
		return nil
	}

	name := cfg.ServiceName
	if name == "" {
		name = "rencom-client"
	}
	timeout := bc.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if bc.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= bc.ConsecutiveFailures {
				return true
			}
			if bc.FailureThreshold > 0 && counts.Requests < bc.FailureThreshold {
				return false
			}
			if bc.FailureRatio > 0 && counts.Requests > 0 {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
			}
			return false
		},
		OnStateChange: bc.OnStateChange,
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var u *uncountedError
			return errors.As(err, &u)
		},
	}

	classify := bc.Classifier
	if classify == nil {
		classify = DefaultBreakerClassifier
	}

	g := &breakerGate{classify: classify}
	if bc.Store != nil {
		dcb, err := gobreaker.NewDistributedCircuitBreaker[*http.Response](bc.Store, st)
		if err == nil {
			g.dcb = dcb
			return g
		}
		// Fall back to a local breaker when the store is unusable.
	}
	g.cb = gobreaker.NewCircuitBreaker[*http.Response](st)
	return g
}

// send runs fn through the breaker. Open-circuit rejections surface as
// ErrCircuitOpen; breaker-internal bookkeeping never re-types transport
// errors or responses.
func (g *breakerGate) send(fn func() (*http.Response, error)) (*http.Response, error) {
	if g == nil {
		return fn()
	}

	wrapped := func() (*http.Response, error) {
		resp, err := fn() //nolint:bodyclose // ownership stays with the caller
		if g.classify(resp, err) {
			if err != nil {
				return resp, err
			}
			return resp, errBreakerFailure
		}
		if err != nil {
			return resp, &uncountedError{err: err}
		}
		return resp, nil
	}

	var resp *http.Response
	var err error
	if g.dcb != nil {
		resp, err = g.dcb.Execute(wrapped)
	} else {
		resp, err = g.cb.Execute(wrapped)
	}

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		if errors.Is(err, errBreakerFailure) {
			// A counted failure with a real response (5xx): hand the
			// response back so status mapping sees it.
			return resp, nil
		}
		var u *uncountedError
		if errors.As(err, &u) {
			return resp, u.err
		}
		return resp, err
	}
	return resp, nil
}

// isBreakerRejection reports whether the error is an open-circuit
// rejection rather than a transport failure.
func isBreakerRejection(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
