package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// Repository handles rental item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rental item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new rental item row.
func (r *Repository) Create(ctx context.Context, item *models.RentalItem) error {
	if item == nil {
		return fmt.Errorf("rental item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads a rental item scoped to its tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, itemID uuid.UUID) (*models.RentalItem, error) {
	var item models.RentalItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Find loads a rental item by ID alone, for background workers that carry no
// tenant scope.
func (r *Repository) Find(ctx context.Context, itemID uuid.UUID) (*models.RentalItem, error) {
	var item models.RentalItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByTenant returns the tenant's items ordered by creation time.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.RentalItem, error) {
	var items []models.RentalItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListBySyncStatuses returns items whose projection state matches any of the
// provided statuses.
func (r *Repository) ListBySyncStatuses(ctx context.Context, statuses ...enums.SyncStatus) ([]models.RentalItem, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, s.String())
	}
	var items []models.RentalItem
	if err := r.db.WithContext(ctx).
		Where("sync_status IN ?", raw).
		Order("updated_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update saves the provided item.
func (r *Repository) Update(ctx context.Context, item *models.RentalItem) error {
	if item == nil {
		return fmt.Errorf("rental item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the item row.
func (r *Repository) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		Delete(&models.RentalItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SyncStateUpdate carries the projection bookkeeping columns. Only these
// columns are written so projector updates cannot clobber concurrent edits.
type SyncStateUpdate struct {
	RemoteServiceID *string
	Status          enums.SyncStatus
	SyncError       *string
	SyncedAt        *time.Time
}

// UpdateSyncState writes the item's projection bookkeeping columns.
func (r *Repository) UpdateSyncState(ctx context.Context, itemID uuid.UUID, state SyncStateUpdate) error {
	updates := map[string]any{
		"sync_status": state.Status.String(),
		"sync_error":  state.SyncError,
	}
	if state.RemoteServiceID != nil {
		updates["remote_service_id"] = *state.RemoteServiceID
	}
	if state.SyncedAt != nil {
		updates["last_synced_at"] = *state.SyncedAt
	}
	return r.db.WithContext(ctx).
		Model(&models.RentalItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}
