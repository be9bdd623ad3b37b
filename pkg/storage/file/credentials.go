package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	shared "github.com/ripixel/checkin-server/pkg"
	"github.com/ripixel/checkin-server/pkg/infrastructure/oauth"
)

// secretsFile is the on-disk shape: one block per provider holding its client
// credentials and current token set.
type secretsFile struct {
	Strava *oauth.ProviderSecrets `json:"strava"`
	Fitbit *oauth.ProviderSecrets `json:"fitbit"`
}

// CredentialStore persists provider credentials in the secrets file. Saves
// replace only the refreshed provider's token set, keep the client
// credentials intact, and write atomically.
type CredentialStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewCredentialStore(dataDir string, logger *slog.Logger) *CredentialStore {
	return &CredentialStore{
		path:   filepath.Join(dataDir, secretsFileName),
		logger: logger.With("component", "credential-store"),
	}
}

// Load returns the named provider's client credentials and token set.
func (s *CredentialStore) Load(ctx context.Context, provider string) (*oauth.ProviderSecrets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.read()
	if err != nil {
		return nil, err
	}

	providerSecrets, err := secrets.provider(provider)
	if err != nil {
		return nil, err
	}
	return providerSecrets, nil
}

// SaveCredential replaces the provider's token set and persists the whole
// secrets file atomically.
func (s *CredentialStore) SaveCredential(ctx context.Context, provider string, cred *oauth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.read()
	if err != nil {
		return err
	}

	providerSecrets, err := secrets.provider(provider)
	if err != nil {
		return err
	}
	providerSecrets.Auth = cred

	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}

	s.logger.Debug("Persisted refreshed credential", "provider", provider)
	return nil
}

func (s *CredentialStore) read() (*secretsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}

	var secrets secretsFile
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("unmarshal secrets: %w", err)
	}
	return &secrets, nil
}

func (f *secretsFile) provider(provider string) (*oauth.ProviderSecrets, error) {
	switch provider {
	case shared.ProviderStrava:
		if f.Strava == nil {
			return nil, fmt.Errorf("%w: %s", oauth.ErrNoCredential, provider)
		}
		return f.Strava, nil
	case shared.ProviderFitbit:
		if f.Fitbit == nil {
			return nil, fmt.Errorf("%w: %s", oauth.ErrNoCredential, provider)
		}
		return f.Fitbit, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
