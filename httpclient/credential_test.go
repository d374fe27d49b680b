package httpclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredential_Apply(t *testing.T) {
	tests := []struct {
		name       string
		cred       Credential
		wantHeader string
		wantValue  string
	}{
		{
			name:       "given api key only, then X-API-Key",
			cred:       Credential{APIKey: "rk_test"},
			wantHeader: "X-Api-Key",
			wantValue:  "rk_test",
		},
		{
			name:       "given session token only, then bearer Authorization",
			cred:       Credential{SessionToken: "tok"},
			wantHeader: "Authorization",
			wantValue:  "Bearer tok",
		},
		{
			name:       "given admin key only, then X-Admin-Key",
			cred:       Credential{AdminKey: "adm"},
			wantHeader: "X-Admin-Key",
			wantValue:  "adm",
		},
		{
			name:       "given session token and api key, then session wins",
			cred:       Credential{APIKey: "rk_test", SessionToken: "tok"},
			wantHeader: "Authorization",
			wantValue:  "Bearer tok",
		},
		{
			name:       "given all three, then admin wins",
			cred:       Credential{APIKey: "rk_test", SessionToken: "tok", AdminKey: "adm"},
			wantHeader: "X-Admin-Key",
			wantValue:  "adm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			tt.cred.apply(h)

			assert.Equal(t, tt.wantValue, h.Get(tt.wantHeader))
			// Exactly one auth header is ever set.
			assert.Len(t, h, 1)
		})
	}
}

func TestCredential_ApplyZero(t *testing.T) {
	h := make(http.Header)
	Credential{}.apply(h)

	assert.Empty(t, h)
}

func TestCredential_IsZero(t *testing.T) {
	assert.True(t, Credential{}.isZero())
	assert.False(t, Credential{APIKey: "k"}.isZero())
	assert.False(t, Credential{SessionToken: "t"}.isZero())
	assert.False(t, Credential{AdminKey: "a"}.isZero())
}
