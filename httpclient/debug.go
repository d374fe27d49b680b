package httpclient

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newDebugLogger builds the default debug logger used by WithDebug.
func newDebugLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// redactHeaders copies request headers with credential values masked, so
// debug output can be shared without leaking keys.
func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "X-Api-Key", "X-Admin-Key":
			out[k] = "***"
		default:
			out[k] = vs[0]
		}
	}
	return out
}

// logRequest logs outgoing request details.
func logRequest(logger zerolog.Logger, req *http.Request) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Interface("headers", redactHeaders(req.Header)).
		Msg("HTTP request")
}

// logResponse logs response details for one attempt.
func logResponse(logger zerolog.Logger, resp *http.Response, duration time.Duration) {
	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Int64("content_length", resp.ContentLength).
		Msg("HTTP response")
}
