package file

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/checkin-server/pkg/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(t.TempDir(), slog.Default())
	require.NoError(t, err)
	return repo
}

func testItem(date string) *models.CheckinItem {
	return &models.CheckinItem{
		CheckinFields: models.CheckinFields{
			SpreadsheetID: "sheet-1",
			Date:          date,
			Month:         "March 2024",
			CellReference: "Data!A1",
		},
		FormResponse: map[string]string{"Journal": "1"},
	}
}

func TestSaveAndGetCheckinItem(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-09")))

	got, err := repo.GetCheckinItem(ctx, "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", got.CheckinFields.Date)
	assert.Equal(t, "1", got.FormResponse["Journal"])
}

func TestSaveCheckinItemOverwrites(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-09")))

	updated := testItem("2024-03-09")
	updated.FormResponse["Read"] = "1"
	require.NoError(t, repo.SaveCheckinItem(ctx, updated))

	got, err := repo.GetCheckinItem(ctx, "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "1", got.FormResponse["Read"])
}

func TestGetCheckinItemMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetCheckinItem(context.Background(), "2024-03-09")

	assert.Error(t, err)
}

func TestGetCheckinItemsSkipsFailures(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-08")))
	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-09")))

	items, err := repo.GetCheckinItems(ctx, []string{"2024-03-08", "2024-03-01", "2024-03-09"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-03-08", items[0].CheckinFields.Date)
}

func TestGetAllCheckinDates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-09")))
	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-03-08")))
	require.NoError(t, repo.SaveCheckinItem(ctx, testItem("2024-04-01")))

	dates, err := repo.GetAllCheckinDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-08", "2024-03-09", "2024-04-01"}, dates)
}

func TestCheckinListsRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	lists := models.Checklist{
		FullChecklist:     []string{"Journal", "Read", "Hike"},
		TrackedActivities: []string{"Hike"},
	}
	require.NoError(t, repo.UpdateCheckinLists(ctx, lists))

	got, err := repo.GetCheckinLists(ctx)
	require.NoError(t, err)
	assert.Equal(t, lists, *got)
}

func TestGetCheckinListsMissingFile(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetCheckinLists(context.Background())

	assert.Error(t, err)
}

func TestSaveCheckinRequestArchives(t *testing.T) {
	dataDir := t.TempDir()
	repo, err := NewRepository(dataDir, slog.Default())
	require.NoError(t, err)

	request := &models.CheckinRequest{Queue: []models.CheckinItem{*testItem("2024-03-09")}}
	require.NoError(t, repo.SaveCheckinRequest(context.Background(), request))

	entries, err := os.ReadDir(filepath.Join(dataDir, requestsDirName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), ".json")
}
