package shared

import (
	"context"

	"github.com/ripixel/checkin-server/pkg/models"
)

// --- Persistence Interfaces ---

// Repository persists check-in items, the checklists, and raw request
// archives. The pipeline consumes it; implementations live in pkg/storage.
type Repository interface {
	// Finalized items, one per calendar date.
	SaveCheckinItem(ctx context.Context, item *models.CheckinItem) error
	GetCheckinItem(ctx context.Context, date string) (*models.CheckinItem, error)
	GetCheckinItems(ctx context.Context, dates []string) ([]models.CheckinItem, error)
	GetAllCheckinDates(ctx context.Context) ([]string, error)

	// Checklists.
	GetCheckinLists(ctx context.Context) (*models.Checklist, error)
	UpdateCheckinLists(ctx context.Context, lists models.Checklist) error

	// Raw request archive, kept for replay/debugging.
	SaveCheckinRequest(ctx context.Context, request *models.CheckinRequest) error
}
