// Package checklist holds the externally-owned checklist lists and hands out
// consistent snapshots to pipeline runs.
package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	shared "github.com/ripixel/checkin-server/pkg"
	"github.com/ripixel/checkin-server/pkg/models"
)

// Store guards the current checklist. Administrative updates may land while a
// pipeline run is in flight; runs take one Snapshot at the start and use it
// throughout.
type Store struct {
	mu     sync.RWMutex
	lists  models.Checklist
	repo   shared.Repository
	logger *slog.Logger
}

// NewStore loads the persisted checklists from the repository.
func NewStore(ctx context.Context, repo shared.Repository, logger *slog.Logger) (*Store, error) {
	lists, err := repo.GetCheckinLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load check-in lists: %w", err)
	}

	return &Store{
		lists:  *lists,
		repo:   repo,
		logger: logger.With("component", "checklist"),
	}, nil
}

// Snapshot returns an independent copy of the current checklists.
func (s *Store) Snapshot() models.Checklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists.Clone()
}

// Update merges the non-nil fields of the request into the current lists and
// persists the result. Returns the lists now in effect.
func (s *Store) Update(ctx context.Context, request models.Checklist) (models.Checklist, error) {
	s.mu.Lock()
	if request.FullChecklist != nil {
		s.lists.FullChecklist = request.FullChecklist
	}
	if request.TrackedActivities != nil {
		s.lists.TrackedActivities = request.TrackedActivities
	}
	updated := s.lists.Clone()
	s.mu.Unlock()

	if err := s.repo.UpdateCheckinLists(ctx, updated); err != nil {
		s.logger.Error("Error persisting check-in lists", "error", err)
		return updated, fmt.Errorf("persist check-in lists: %w", err)
	}

	s.logger.Debug("Check-in lists updated",
		"full_checklist", len(updated.FullChecklist),
		"tracked_activities", len(updated.TrackedActivities))
	return updated, nil
}
