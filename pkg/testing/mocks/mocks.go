// Package mocks provides hand-rolled test doubles for the pipeline's
// collaborator interfaces. Unset funcs fall back to benign defaults.
package mocks

import (
	"context"
	"fmt"

	"github.com/ripixel/checkin-server/pkg/infrastructure/oauth"
	"github.com/ripixel/checkin-server/pkg/models"
)

// --- Mock Repository ---

type MockRepository struct {
	SaveCheckinItemFunc    func(ctx context.Context, item *models.CheckinItem) error
	GetCheckinItemFunc     func(ctx context.Context, date string) (*models.CheckinItem, error)
	GetCheckinItemsFunc    func(ctx context.Context, dates []string) ([]models.CheckinItem, error)
	GetAllCheckinDatesFunc func(ctx context.Context) ([]string, error)
	GetCheckinListsFunc    func(ctx context.Context) (*models.Checklist, error)
	UpdateCheckinListsFunc func(ctx context.Context, lists models.Checklist) error
	SaveCheckinRequestFunc func(ctx context.Context, request *models.CheckinRequest) error
}

func (m *MockRepository) SaveCheckinItem(ctx context.Context, item *models.CheckinItem) error {
	if m.SaveCheckinItemFunc != nil {
		return m.SaveCheckinItemFunc(ctx, item)
	}
	return nil
}

func (m *MockRepository) GetCheckinItem(ctx context.Context, date string) (*models.CheckinItem, error) {
	if m.GetCheckinItemFunc != nil {
		return m.GetCheckinItemFunc(ctx, date)
	}
	return nil, fmt.Errorf("no check-in item for %s", date)
}

func (m *MockRepository) GetCheckinItems(ctx context.Context, dates []string) ([]models.CheckinItem, error) {
	if m.GetCheckinItemsFunc != nil {
		return m.GetCheckinItemsFunc(ctx, dates)
	}
	return nil, nil
}

func (m *MockRepository) GetAllCheckinDates(ctx context.Context) ([]string, error) {
	if m.GetAllCheckinDatesFunc != nil {
		return m.GetAllCheckinDatesFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) GetCheckinLists(ctx context.Context) (*models.Checklist, error) {
	if m.GetCheckinListsFunc != nil {
		return m.GetCheckinListsFunc(ctx)
	}
	return &models.Checklist{}, nil
}

func (m *MockRepository) UpdateCheckinLists(ctx context.Context, lists models.Checklist) error {
	if m.UpdateCheckinListsFunc != nil {
		return m.UpdateCheckinListsFunc(ctx, lists)
	}
	return nil
}

func (m *MockRepository) SaveCheckinRequest(ctx context.Context, request *models.CheckinRequest) error {
	if m.SaveCheckinRequestFunc != nil {
		return m.SaveCheckinRequestFunc(ctx, request)
	}
	return nil
}

// --- Mock Data Services ---

type MockActivityService struct {
	GetActivityDataFunc func(ctx context.Context, startDate, endDate string) []models.Activity
	Calls               int
}

func (m *MockActivityService) GetActivityData(ctx context.Context, startDate, endDate string) []models.Activity {
	m.Calls++
	if m.GetActivityDataFunc != nil {
		return m.GetActivityDataFunc(ctx, startDate, endDate)
	}
	return []models.Activity{}
}

type MockHealthService struct {
	GetWeightDataFunc func(ctx context.Context, startDate, endDate string) []models.Weight
	Calls             int
}

func (m *MockHealthService) GetWeightData(ctx context.Context, startDate, endDate string) []models.Weight {
	m.Calls++
	if m.GetWeightDataFunc != nil {
		return m.GetWeightDataFunc(ctx, startDate, endDate)
	}
	return []models.Weight{}
}

// --- Mock Checklist Source ---

type MockChecklistSource struct {
	Lists models.Checklist
}

func (m *MockChecklistSource) Snapshot() models.Checklist {
	return m.Lists.Clone()
}

// --- Mock Credential Store ---

type MockCredentialStore struct {
	Secrets map[string]*oauth.ProviderSecrets
	Saved   map[string]*oauth.Credential

	LoadFunc           func(ctx context.Context, provider string) (*oauth.ProviderSecrets, error)
	SaveCredentialFunc func(ctx context.Context, provider string, cred *oauth.Credential) error
}

func (m *MockCredentialStore) Load(ctx context.Context, provider string) (*oauth.ProviderSecrets, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, provider)
	}
	if secrets, ok := m.Secrets[provider]; ok {
		return secrets, nil
	}
	return nil, fmt.Errorf("%w: %s", oauth.ErrNoCredential, provider)
}

func (m *MockCredentialStore) SaveCredential(ctx context.Context, provider string, cred *oauth.Credential) error {
	if m.SaveCredentialFunc != nil {
		return m.SaveCredentialFunc(ctx, provider, cred)
	}
	if m.Saved == nil {
		m.Saved = make(map[string]*oauth.Credential)
	}
	m.Saved[provider] = cred
	if secrets, ok := m.Secrets[provider]; ok {
		secrets.Auth = cred
	}
	return nil
}
