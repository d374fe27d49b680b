package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

// Sentinel kinds for error classification with errors.Is.
//
// Every error produced by the Executor is an *Error carrying one of these
// kinds, so callers can match narrowly:
//
//	if errors.Is(err, httpclient.ErrRateLimit) { ... }
//
// or broadly:
//
//	var apiErr *httpclient.Error
//	if errors.As(err, &apiErr) { ... }
//
// ErrServiceUnavailable also matches ErrServer, and ErrTimeout also matches
// ErrNetwork, so catching the broader kind covers its subtypes.
var (
	// ErrNoCredential is returned by New when no API key, session token,
	// or admin key is configured and RENCOM_API_KEY is unset.
	ErrNoCredential = errors.New("no credential configured")

	// ErrAuthentication indicates an invalid or expired credential (HTTP 401).
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization indicates insufficient permissions (HTTP 403).
	ErrAuthorization = errors.New("authorization failed")

	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid request parameters (HTTP 400).
	ErrValidation = errors.New("validation failed")

	// ErrRateLimit indicates the API rate limit was exceeded (HTTP 429).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrServer indicates a server-side failure (HTTP 5xx).
	ErrServer = errors.New("server error")

	// ErrServiceUnavailable indicates the API is temporarily down (HTTP 503).
	// Matches ErrServer as well.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrNetwork indicates a transport-level failure before a response
	// was received (connection refused, DNS failure, reset).
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates the request exceeded the configured timeout.
	// Matches ErrNetwork as well.
	ErrTimeout = errors.New("request timeout")

	// ErrDecode indicates a successful response whose body could not be
	// decoded. Decode failures are never retried.
	ErrDecode = errors.New("response decode failed")

	// ErrAPI is the kind for HTTP errors not covered by a narrower kind.
	ErrAPI = errors.New("api error")
)

// FieldError is a single validation failure reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message,omitempty"`
}

// Error is the concrete error type produced by the Executor.
//
// Kind is always one of the package sentinels above. Status is the HTTP
// status code, or zero for transport-level failures. Fields is populated
// for validation errors, RateLimit and RetryAfter for 429 responses.
type Error struct {
	Kind    error
	Status  int
	Message string

	// Fields holds structured validation errors (ErrValidation only).
	Fields []FieldError

	// RetryAfter is the server-requested wait in seconds (ErrRateLimit
	// only, default 60 when the header is absent).
	RetryAfter int

	// RateLimit is the snapshot parsed from the failing response's
	// headers, when any rate-limit header was present.
	RateLimit *RateLimitSnapshot

	cause     error
	permanent bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("rencom: %s (status=%d)", e.Message, e.Status)
	}
	return "rencom: " + e.Message
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the error matches a sentinel kind, including the
// subtype lattice: ServiceUnavailable matches Server, Timeout matches
// Network.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	switch e.Kind {
	case ErrServiceUnavailable:
		return target == ErrServer
	case ErrTimeout:
		return target == ErrNetwork
	}
	return false
}

// errorBody is the shape of the API's error payload.
type errorBody struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors"`
}

// statusError maps a non-2xx response to a typed *Error.
//
// Message preference: body "detail" field, then raw body text, then
// "HTTP <status>".
func statusError(status int, body []byte, header http.Header) *Error {
	var parsed errorBody
	message := ""
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
			message = parsed.Detail
		} else {
			message = string(body)
		}
	}
	if message == "" {
		message = "HTTP " + strconv.Itoa(status)
	}

	e := &Error{Status: status, Message: message}

	switch {
	case status == http.StatusBadRequest:
		e.Kind = ErrValidation
		e.Fields = parsed.Errors
	case status == http.StatusUnauthorized:
		e.Kind = ErrAuthentication
	case status == http.StatusForbidden:
		e.Kind = ErrAuthorization
	case status == http.StatusNotFound:
		e.Kind = ErrNotFound
	case status == http.StatusTooManyRequests:
		e.Kind = ErrRateLimit
		e.RetryAfter = retryAfterSeconds(header)
		e.RateLimit = parseRateLimitSnapshot(header)
	case status == http.StatusServiceUnavailable:
		e.Kind = ErrServiceUnavailable
	case status >= 500:
		e.Kind = ErrServer
	default:
		e.Kind = ErrAPI
	}

	return e
}

// retryAfterSeconds reads Retry-After, defaulting to 60 when absent
// or unparseable.
func retryAfterSeconds(header http.Header) int {
	if v := header.Get("Retry-After"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return 60
}
