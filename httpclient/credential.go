package httpclient

import "net/http"

// Credential holds the authentication material for an Executor. It is fixed
// at construction and never mutated afterward.
//
// When more than one slot is set, precedence is AdminKey > SessionToken >
// APIKey; exactly one auth header is ever sent.
type Credential struct {
	// APIKey is sent as the X-API-Key header.
	APIKey string

	// SessionToken is sent as "Authorization: Bearer <token>".
	SessionToken string

	// AdminKey is sent as the X-Admin-Key header.
	AdminKey string
}

// isZero reports whether no credential slot is set.
func (c Credential) isZero() bool {
	return c.APIKey == "" && c.SessionToken == "" && c.AdminKey == ""
}

// apply sets the single auth header selected by precedence. It is a pure
// function of the credential; extra headers are merged afterwards by the
// caller and never replace the auth header.
func (c Credential) apply(h http.Header) {
	switch {
	case c.AdminKey != "":
		h.Set("X-Admin-Key", c.AdminKey)
	case c.SessionToken != "":
		h.Set("Authorization", "Bearer "+c.SessionToken)
	case c.APIKey != "":
		h.Set("X-API-Key", c.APIKey)
	}
}
