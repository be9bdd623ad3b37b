// Package file implements the repository and credential store over a plain
// data directory: one JSON file per finalized check-in date, the checklists
// file, the secrets file, and a raw request archive.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ripixel/checkin-server/pkg/models"
)

const (
	resultsDirName  = "results"
	requestsDirName = "requests"
	listsFileName   = "lists.json"
	secretsFileName = "secrets.json"
)

// Repository stores check-in data under a single data directory.
type Repository struct {
	dataDir string
	logger  *slog.Logger
}

// NewRepository creates the results and requests directories if needed.
func NewRepository(dataDir string, logger *slog.Logger) (*Repository, error) {
	for _, dir := range []string{filepath.Join(dataDir, resultsDirName), filepath.Join(dataDir, requestsDirName)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	return &Repository{
		dataDir: dataDir,
		logger:  logger.With("component", "repository"),
	}, nil
}

func (r *Repository) itemPath(date string) string {
	return filepath.Join(r.dataDir, resultsDirName, date+".json")
}

// SaveCheckinItem writes the finalized item to its per-date file,
// overwriting any previous finalization for that date.
func (r *Repository) SaveCheckinItem(ctx context.Context, item *models.CheckinItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal check-in item: %w", err)
	}

	if err := os.WriteFile(r.itemPath(item.CheckinFields.Date), data, 0o644); err != nil {
		return fmt.Errorf("write check-in item for %s: %w", item.CheckinFields.Date, err)
	}
	return nil
}

// GetCheckinItem reads the finalized item stored for a date.
func (r *Repository) GetCheckinItem(ctx context.Context, date string) (*models.CheckinItem, error) {
	data, err := os.ReadFile(r.itemPath(date))
	if err != nil {
		return nil, fmt.Errorf("read check-in item for %s: %w", date, err)
	}

	var item models.CheckinItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("unmarshal check-in item for %s: %w", date, err)
	}
	return &item, nil
}

// GetCheckinItems reads the stored items for the given dates, skipping (and
// logging) dates that fail to load.
func (r *Repository) GetCheckinItems(ctx context.Context, dates []string) ([]models.CheckinItem, error) {
	items := make([]models.CheckinItem, 0, len(dates))
	for _, date := range dates {
		item, err := r.GetCheckinItem(ctx, date)
		if err != nil {
			r.logger.Error("Error retrieving check-in item", "date", date, "error", err)
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

// GetAllCheckinDates lists the dates with a stored finalized item, ascending.
func (r *Repository) GetAllCheckinDates(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dataDir, resultsDirName))
	if err != nil {
		return nil, fmt.Errorf("list check-in results: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			dates = append(dates, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// GetCheckinLists reads the persisted checklists.
func (r *Repository) GetCheckinLists(ctx context.Context) (*models.Checklist, error) {
	data, err := os.ReadFile(filepath.Join(r.dataDir, listsFileName))
	if err != nil {
		return nil, fmt.Errorf("read check-in lists: %w", err)
	}

	var lists models.Checklist
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("unmarshal check-in lists: %w", err)
	}
	return &lists, nil
}

// UpdateCheckinLists persists the checklists.
func (r *Repository) UpdateCheckinLists(ctx context.Context, lists models.Checklist) error {
	data, err := json.MarshalIndent(lists, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal check-in lists: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(r.dataDir, listsFileName), data); err != nil {
		return fmt.Errorf("write check-in lists: %w", err)
	}
	return nil
}

// SaveCheckinRequest archives the raw request under a timestamped filename.
func (r *Repository) SaveCheckinRequest(ctx context.Context, request *models.CheckinRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal check-in request: %w", err)
	}

	filename := time.Now().Format("2006-01-02_15-04-05") + ".json"
	if err := os.WriteFile(filepath.Join(r.dataDir, requestsDirName, filename), data, 0o644); err != nil {
		return fmt.Errorf("archive check-in request: %w", err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
