package httpclient

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// coalesceKey identifies a deduplicatable GET. Two requests coalesce only
// when method, full URL, and credential all match, so callers with
// different auth never share a response.
func coalesceKey(method, rawURL string, cred Credential) string {
	parts := []string{
		method,
		rawURL,
		cred.AdminKey,
		cred.SessionToken,
		cred.APIKey,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
