package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// Repository handles conflict-detection reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to availability queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindItem loads a rental item scoped to its tenant.
func (r *Repository) FindItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.RentalItem, error) {
	var item models.RentalItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// OverlappingReservations returns reservations for the item that intersect the
// half-open window [start, end). Cancelled and completed reservations are
// excluded.
func (r *Repository) OverlappingReservations(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("rental_item_id = ?", itemID).
		Where("start_at < ? AND end_at > ?", end, start).
		Where("status NOT IN ?", excludedStatuses()).
		Order("start_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// OverlappingBlackouts returns active blackout windows intersecting [start, end)
// that apply to the item, including tenant-wide windows with no item binding.
func (r *Repository) OverlappingBlackouts(ctx context.Context, tenantID, itemID uuid.UUID, start, end time.Time) ([]models.BlackoutWindow, error) {
	var windows []models.BlackoutWindow
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Where("start_at < ? AND end_at > ?", end, start).
		Where("rental_item_id = ? OR rental_item_id IS NULL", itemID).
		Order("start_at ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func excludedStatuses() []string {
	statuses := make([]string, 0, len(enums.ConflictExcludedReservationStatuses))
	for _, s := range enums.ConflictExcludedReservationStatuses {
		statuses = append(statuses, s.String())
	}
	return statuses
}
