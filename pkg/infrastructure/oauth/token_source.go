package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	shared "github.com/ripixel/checkin-server/pkg"
	httputil "github.com/ripixel/checkin-server/pkg/infrastructure/http"
)

const (
	fitbitTokenURL = "https://api.fitbit.com/oauth2/token"
	stravaTokenURL = "https://www.strava.com/oauth/token"
)

// FitbitTokenSource manages the Fitbit credential. Fitbit access tokens are
// JWTs, so expiry comes from the token's embedded exp claim. Refresh posts the
// refresh token form-encoded with the client credentials in a Basic auth
// header.
type FitbitTokenSource struct {
	store    CredentialStore
	client   *http.Client
	logger   *slog.Logger
	tokenURL string
	mu       sync.Mutex
}

func NewFitbitTokenSource(store CredentialStore, logger *slog.Logger) *FitbitTokenSource {
	return &FitbitTokenSource{
		store:    store,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With("component", "oauth", "provider", shared.ProviderFitbit),
		tokenURL: fitbitTokenURL,
	}
}

// Token returns a valid Fitbit token. Check-expiry, refresh-if-needed and
// read-token happen as one unit under the source's mutex so concurrent
// pipeline runs can't use a stale token or refresh redundantly.
func (s *FitbitTokenSource) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.store.Load(ctx, shared.ProviderFitbit)
	if err != nil {
		return nil, fmt.Errorf("load fitbit credential: %w", err)
	}
	if secrets.Auth == nil || secrets.Auth.AccessToken == "" {
		return nil, ErrNoCredential
	}

	expiry, err := accessTokenExpiry(secrets.Auth.AccessToken)
	if err != nil {
		// An undecodable access token can't be validated, only replaced.
		s.logger.Warn("Could not decode access token expiry, refreshing", "error", err)
		return s.refresh(ctx, secrets)
	}

	if expired(expiry) {
		return s.refresh(ctx, secrets)
	}

	return &Token{
		AccessToken:  secrets.Auth.AccessToken,
		TokenType:    secrets.Auth.TokenType,
		RefreshToken: secrets.Auth.RefreshToken,
		Expiry:       expiry,
	}, nil
}

// ForceRefresh refreshes the Fitbit token regardless of expiry.
func (s *FitbitTokenSource) ForceRefresh(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.store.Load(ctx, shared.ProviderFitbit)
	if err != nil {
		return nil, fmt.Errorf("load fitbit credential: %w", err)
	}
	if secrets.Auth == nil || secrets.Auth.RefreshToken == "" {
		return nil, ErrNoCredential
	}

	return s.refresh(ctx, secrets)
}

// refresh exchanges the refresh token at the Fitbit token endpoint and
// persists the replacement credential before returning it. The prior
// credential is retained on any failure.
func (s *FitbitTokenSource) refresh(ctx context.Context, secrets *ProviderSecrets) (*Token, error) {
	s.logger.Debug("Refreshing Fitbit token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", secrets.Auth.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build fitbit refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(secrets.ClientID, secrets.ClientSecret)

	cred, err := exchange(s.client, req)
	if err != nil {
		return nil, fmt.Errorf("fitbit token refresh: %w", err)
	}

	if err := s.store.SaveCredential(ctx, shared.ProviderFitbit, cred); err != nil {
		return nil, fmt.Errorf("persist fitbit credential: %w", err)
	}

	expiry, err := accessTokenExpiry(cred.AccessToken)
	if err != nil {
		s.logger.Warn("Refreshed Fitbit token has no decodable expiry", "error", err)
	}

	return &Token{
		AccessToken:  cred.AccessToken,
		TokenType:    cred.TokenType,
		RefreshToken: cred.RefreshToken,
		Expiry:       expiry,
	}, nil
}

// accessTokenExpiry reads the exp claim from a Fitbit access token without
// verifying the signature; only the provider can verify it, we just need the
// embedded expiry.
func accessTokenExpiry(accessToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}

	return exp.Time, nil
}

// StravaTokenSource manages the Strava credential. Strava stores an explicit
// absolute expiry alongside the token; refresh posts the client credentials
// and refresh token query-string-encoded.
type StravaTokenSource struct {
	store    CredentialStore
	client   *http.Client
	logger   *slog.Logger
	tokenURL string
	mu       sync.Mutex
}

func NewStravaTokenSource(store CredentialStore, logger *slog.Logger) *StravaTokenSource {
	return &StravaTokenSource{
		store:    store,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With("component", "oauth", "provider", shared.ProviderStrava),
		tokenURL: stravaTokenURL,
	}
}

// Token returns a valid Strava token, refreshing under the source's mutex
// when the stored expiry has passed.
func (s *StravaTokenSource) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.store.Load(ctx, shared.ProviderStrava)
	if err != nil {
		return nil, fmt.Errorf("load strava credential: %w", err)
	}
	if secrets.Auth == nil || secrets.Auth.AccessToken == "" {
		return nil, ErrNoCredential
	}

	expiry := time.Unix(secrets.Auth.ExpiresAt, 0)
	if secrets.Auth.ExpiresAt == 0 || expired(expiry) {
		return s.refresh(ctx, secrets)
	}

	return &Token{
		AccessToken:  secrets.Auth.AccessToken,
		TokenType:    secrets.Auth.TokenType,
		RefreshToken: secrets.Auth.RefreshToken,
		Expiry:       expiry,
	}, nil
}

// ForceRefresh refreshes the Strava token regardless of expiry.
func (s *StravaTokenSource) ForceRefresh(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.store.Load(ctx, shared.ProviderStrava)
	if err != nil {
		return nil, fmt.Errorf("load strava credential: %w", err)
	}
	if secrets.Auth == nil || secrets.Auth.RefreshToken == "" {
		return nil, ErrNoCredential
	}

	return s.refresh(ctx, secrets)
}

func (s *StravaTokenSource) refresh(ctx context.Context, secrets *ProviderSecrets) (*Token, error) {
	s.logger.Debug("Refreshing Strava token")

	query := url.Values{}
	query.Set("client_id", secrets.ClientID)
	query.Set("client_secret", secrets.ClientSecret)
	query.Set("refresh_token", secrets.Auth.RefreshToken)
	query.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build strava refresh request: %w", err)
	}

	cred, err := exchange(s.client, req)
	if err != nil {
		return nil, fmt.Errorf("strava token refresh: %w", err)
	}

	if err := s.store.SaveCredential(ctx, shared.ProviderStrava, cred); err != nil {
		return nil, fmt.Errorf("persist strava credential: %w", err)
	}

	return &Token{
		AccessToken:  cred.AccessToken,
		TokenType:    cred.TokenType,
		RefreshToken: cred.RefreshToken,
		Expiry:       time.Unix(cred.ExpiresAt, 0),
	}, nil
}

// exchange executes a token-endpoint request and decodes the replacement
// credential.
func exchange(client *http.Client, req *http.Request) (*Credential, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return nil, err
	}

	var cred Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if cred.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &cred, nil
}
