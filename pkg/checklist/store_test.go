package checklist_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/checkin-server/pkg/checklist"
	"github.com/ripixel/checkin-server/pkg/models"
	"github.com/ripixel/checkin-server/pkg/testing/mocks"
)

func newStoreWithLists(t *testing.T, lists models.Checklist, repo *mocks.MockRepository) *checklist.Store {
	t.Helper()
	repo.GetCheckinListsFunc = func(ctx context.Context) (*models.Checklist, error) {
		return &lists, nil
	}
	store, err := checklist.NewStore(context.Background(), repo, slog.Default())
	require.NoError(t, err)
	return store
}

func TestSnapshotIsIndependent(t *testing.T) {
	store := newStoreWithLists(t, models.Checklist{
		FullChecklist:     []string{"Journal", "Read"},
		TrackedActivities: []string{"Hike"},
	}, &mocks.MockRepository{})

	snapshot := store.Snapshot()
	snapshot.FullChecklist[0] = "Changed"

	assert.Equal(t, "Journal", store.Snapshot().FullChecklist[0])
}

func TestUpdateMergesNonNilFields(t *testing.T) {
	var persisted models.Checklist
	repo := &mocks.MockRepository{
		UpdateCheckinListsFunc: func(ctx context.Context, lists models.Checklist) error {
			persisted = lists
			return nil
		},
	}
	store := newStoreWithLists(t, models.Checklist{
		FullChecklist:     []string{"Journal"},
		TrackedActivities: []string{"Hike"},
	}, repo)

	updated, err := store.Update(context.Background(), models.Checklist{
		TrackedActivities: []string{"Hike", "Run"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Journal"}, updated.FullChecklist, "nil field leaves the list unchanged")
	assert.Equal(t, []string{"Hike", "Run"}, updated.TrackedActivities)
	assert.Equal(t, updated, persisted)
}

func TestUpdatePersistFailure(t *testing.T) {
	repo := &mocks.MockRepository{
		UpdateCheckinListsFunc: func(ctx context.Context, lists models.Checklist) error {
			return errors.New("disk full")
		},
	}
	store := newStoreWithLists(t, models.Checklist{FullChecklist: []string{"Journal"}}, repo)

	_, err := store.Update(context.Background(), models.Checklist{FullChecklist: []string{"Read"}})

	require.Error(t, err)
	// The in-memory lists already advanced; the next snapshot reflects them.
	assert.Equal(t, []string{"Read"}, store.Snapshot().FullChecklist)
}

func TestNewStoreLoadFailure(t *testing.T) {
	repo := &mocks.MockRepository{
		GetCheckinListsFunc: func(ctx context.Context) (*models.Checklist, error) {
			return nil, errors.New("missing lists file")
		},
	}

	_, err := checklist.NewStore(context.Background(), repo, slog.Default())

	assert.Error(t, err)
}
