package rencom

import (
	"context"
	"net/url"

	"github.com/rencom-ai/rencom-go/httpclient"
)

// AuthClient handles passwordless authentication, API key management, and
// usage statistics.
//
// The login flow is magic-link based: RequestMagicLink sends an email,
// the user clicks the link, and VerifyMagicLink exchanges the link token
// for a session JWT:
//
//	_, err := client.Auth.RequestMagicLink(ctx, "user@example.com")
//	...
//	verified, err := client.Auth.VerifyMagicLink(ctx, tokenFromLink)
//	authed, err := rencom.New(rencom.WithSessionToken(verified.AccessToken))
type AuthClient struct {
	exec *httpclient.Executor
}

type loginRequest struct {
	Email string `json:"email"`
}

type createAPIKeyRequest struct {
	OrganizationName string `json:"organization_name"`
}

// RequestMagicLink sends a login link to the given email address.
func (c *AuthClient) RequestMagicLink(ctx context.Context, email string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.exec.Post(ctx, "/auth/login", loginRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMagicLink exchanges a magic link token for a session JWT and the
// user's default API key.
func (c *AuthClient) VerifyMagicLink(ctx context.Context, token string) (*VerifyResponse, error) {
	q := httpclient.NewQuery().Set("token", token)
	var out VerifyResponse
	if err := c.exec.Get(ctx, "/auth/verify", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user's profile. Requires a session token.
func (c *AuthClient) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.exec.Get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAPIKeys returns every API key on the account. Secrets are never
// included, only prefixes.
func (c *AuthClient) ListAPIKeys(ctx context.Context) ([]APIKeySummary, error) {
	var out []APIKeySummary
	if err := c.exec.Get(ctx, "/auth/api-keys", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAPIKey creates a new API key for the given organization. The full
// secret is returned only here; store it immediately.
func (c *AuthClient) CreateAPIKey(ctx context.Context, organizationName string) (*APIKey, error) {
	req := createAPIKeyRequest{OrganizationName: organizationName}
	var out APIKey
	if err := c.exec.Post(ctx, "/auth/api-keys", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAPIKey permanently revokes the key identified by its prefix.
func (c *AuthClient) DeleteAPIKey(ctx context.Context, keyPrefix string) error {
	return c.exec.Delete(ctx, "/auth/api-keys/"+url.PathEscape(keyPrefix))
}

// Usage returns request counts for the account, total and per key.
func (c *AuthClient) Usage(ctx context.Context) (*Usage, error) {
	var out Usage
	if err := c.exec.Get(ctx, "/auth/usage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
