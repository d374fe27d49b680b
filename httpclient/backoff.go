package httpclient

import (
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Backoff defaults. The wait before retry k (0-indexed) is
// min(1s * 2^k, 60s) perturbed by +/-25% jitter.
const (
	defaultInitialInterval = 1 * time.Second
	defaultMaxInterval     = 60 * time.Second
	defaultMultiplier      = 2.0
	defaultJitterFactor    = 0.25
)

// newExponentialBackOff returns a fresh schedule for one logical request.
// Jitter prevents synchronized retry storms across clients.
func newExponentialBackOff() backoff.BackOff {
	return &backoff.ExponentialBackOff{
		InitialInterval:     defaultInitialInterval,
		RandomizationFactor: defaultJitterFactor,
		Multiplier:          defaultMultiplier,
		MaxInterval:         defaultMaxInterval,
	}
}

// ConstantBackOffWithJitter provides a fixed interval with randomization,
// for callers that want predictable waits via WithBackOff while keeping
// storm prevention.
type ConstantBackOffWithJitter struct {
	// Interval is the base wait. Default: 1s.
	Interval time.Duration

	// JitterFactor adds randomization in [0, 1]. Default: 0.25.
	JitterFactor float64
}

var _ backoff.BackOff = (*ConstantBackOffWithJitter)(nil)

// NewConstantBackOffWithJitter creates a ConstantBackOffWithJitter with
// the package defaults.
func NewConstantBackOffWithJitter() *ConstantBackOffWithJitter {
	return &ConstantBackOffWithJitter{
		Interval:     time.Second,
		JitterFactor: defaultJitterFactor,
	}
}

// Reset is a no-op for constant backoff.
func (b *ConstantBackOffWithJitter) Reset() {}

// NextBackOff returns the interval with jitter applied.
func (b *ConstantBackOffWithJitter) NextBackOff() time.Duration {
	return applyJitter(b.Interval, b.JitterFactor)
}

// applyJitter perturbs an interval by a uniformly random factor in
// [-jitterFactor, +jitterFactor], floored at zero.
func applyJitter(interval time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return interval
	}
	if jitterFactor > 1 {
		jitterFactor = 1
	}

	delta := float64(interval) * jitterFactor
	//nolint:gosec // intentional weak rand for jitter (not cryptographic)
	d := float64(interval) + (rand.Float64()*2-1)*delta
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
