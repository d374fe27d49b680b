package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"
)

// Each attempt's result is classified into exactly one of these outcomes
// before the retry loop decides to wait, loop, or propagate. Classification
// is a plain tagged result, not error-driven control flow.
type outcome int

const (
	// outcomeSuccess ends the loop with the attempt's result.
	outcomeSuccess outcome = iota

	// outcomeRetry waits and loops while attempts remain.
	outcomeRetry

	// outcomeFatal propagates the typed error immediately.
	outcomeFatal
)

// classify decides the outcome for a finished attempt and, for rate-limit
// retries, the server-requested wait that overrides the backoff schedule.
func classify(err error, autoRetry429 bool) (out outcome, override time.Duration, hasOverride bool) {
	if err == nil {
		return outcomeSuccess, 0, false
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		// Caller cancellation, breaker rejection, and other non-taxonomy
		// errors propagate as-is.
		return outcomeFatal, 0, false
	}
	if apiErr.permanent {
		return outcomeFatal, 0, false
	}

	switch {
	case errors.Is(apiErr, ErrServer), errors.Is(apiErr, ErrNetwork):
		return outcomeRetry, 0, false
	case errors.Is(apiErr, ErrRateLimit):
		if !autoRetry429 {
			return outcomeFatal, 0, false
		}
		if apiErr.RetryAfter > 0 {
			return outcomeRetry, time.Duration(apiErr.RetryAfter) * time.Second, true
		}
		return outcomeRetry, 0, false
	}
	return outcomeFatal, 0, false
}

// transportError maps a failed round trip to a typed *Error.
//
// Timeouts become ErrTimeout, everything else ErrNetwork. Failures that
// cannot succeed on retry (TLS verification, NXDOMAIN, caller cancellation)
// are marked permanent so the retry loop propagates them immediately.
func transportError(ctx context.Context, err error) *Error {
	e := &Error{
		Kind:    ErrNetwork,
		Message: "network error: " + err.Error(),
		cause:   err,
	}

	// A deadline triggered by the caller's own context is intentional
	// cancellation, never retried. The client-level timeout, by contrast,
	// is a transport timeout and is retryable.
	if ctx.Err() != nil {
		e.permanent = true
		return e
	}
	if errors.Is(err, context.Canceled) {
		e.permanent = true
		return e
	}

	if isTimeout(err) {
		e.Kind = ErrTimeout
		e.Message = "request timeout: " + err.Error()
		return e
	}

	if isPermanentNetworkError(err) {
		e.permanent = true
	}
	return e
}

// isTimeout reports whether the error is a transport-level timeout.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

// isPermanentNetworkError reports errors that will not succeed on retry.
func isPermanentNetworkError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// NXDOMAIN is permanent; temporary and timeout DNS failures retry.
		return dnsErr.IsNotFound
	}

	if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EHOSTDOWN) {
		return true
	}

	// Transient syscall and stream errors stay retryable.
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) {
		return false
	}

	return containsPermanentPattern(err)
}

// containsPermanentPattern is a fallback for wrapped errors from transports
// that defeat the type checks above.
func containsPermanentPattern(err error) bool {
	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"x509:",
		"certificate",
		"tls:",
		"permission denied",
		"no route to host",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
