// Package oauth manages the provider credentials the data clients depend on:
// expiry detection, token refresh against each provider's token endpoint, and
// an http.RoundTripper that authenticates requests with the current token.
package oauth

import (
	"context"
	"errors"
	"time"
)

// Credential is a provider token set as returned by the token endpoints.
// Field coverage is the union of both providers; unused fields stay zero.
type Credential struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	Scope        string `json:"scope,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// ProviderSecrets is a provider's client credentials plus its current token
// set, as held by the credential store.
type ProviderSecrets struct {
	ClientID     string      `json:"client_id"`
	ClientSecret string      `json:"client_secret"`
	Auth         *Credential `json:"auth"`
}

// CredentialStore loads and durably persists provider credentials. Save must
// be atomic: a successful refresh replaces the token set on disk before the
// new token is handed to a caller.
type CredentialStore interface {
	Load(ctx context.Context, provider string) (*ProviderSecrets, error)
	SaveCredential(ctx context.Context, provider string, cred *Credential) error
}

// ErrNoCredential is returned when the store has no token set for a provider.
var ErrNoCredential = errors.New("oauth: no credential stored for provider")

// Token is the validated token handed to HTTP clients.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	Expiry       time.Time
}

// AuthorizationType returns the scheme for the Authorization header,
// defaulting to Bearer when the provider didn't specify one.
func (t *Token) AuthorizationType() string {
	if t.TokenType == "" {
		return "Bearer"
	}
	return t.TokenType
}

// TokenSource returns a valid token, refreshing when necessary.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(ctx context.Context) (*Token, error)
	ForceRefresh(ctx context.Context) (*Token, error)
}

// expiryLeeway refreshes tokens slightly early so a token can't expire
// between the check and the request that uses it.
const expiryLeeway = time.Minute

func expired(expiry time.Time) bool {
	return !expiry.IsZero() && time.Now().Add(expiryLeeway).After(expiry)
}
