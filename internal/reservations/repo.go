package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	"github.com/rentable/rentable-backend/pkg/pagination"
)

// Repository persists reservations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a reservation inside an existing transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, reservation *models.Reservation) error {
	if reservation == nil {
		return fmt.Errorf("reservation is required")
	}
	return tx.Create(reservation).Error
}

func (r *Repository) FindByID(ctx context.Context, tenantID, reservationID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", reservationID, tenantID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByTenant returns one page of the tenant's reservations, newest first,
// optionally filtered down to one item. The extra row beyond the limit lets
// the caller detect whether a next page exists.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID, params pagination.Params) ([]models.Reservation, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if itemID != nil {
		query = query.Where("rental_item_id = ?", *itemID)
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var reservations []models.Reservation
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListUpcoming returns active reservations whose window ends after the cutoff.
func (r *Repository) ListUpcoming(ctx context.Context, tenantID uuid.UUID, after time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND end_at > ?", tenantID, after).
		Where("status NOT IN ?", enums.ConflictExcludedReservationStatuses).
		Order("start_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *Repository) Update(ctx context.Context, reservation *models.Reservation) error {
	if reservation == nil {
		return fmt.Errorf("reservation is required")
	}
	return r.db.WithContext(ctx).Save(reservation).Error
}
