package blackouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// WindowRepository handles blackout window persistence.
type WindowRepository struct {
	db *gorm.DB
}

// NewWindowRepository binds a GORM DB to blackout window operations.
func NewWindowRepository(db *gorm.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

// Create persists a new blackout window row.
func (r *WindowRepository) Create(ctx context.Context, window *models.BlackoutWindow) error {
	if window == nil {
		return fmt.Errorf("blackout window is required")
	}
	return r.db.WithContext(ctx).Create(window).Error
}

// CreateWithTx persists a window inside the provided transaction.
func (r *WindowRepository) CreateWithTx(tx *gorm.DB, window *models.BlackoutWindow) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if window == nil {
		return fmt.Errorf("blackout window is required")
	}
	return tx.Create(window).Error
}

// FindByID loads a window scoped to its tenant.
func (r *WindowRepository) FindByID(ctx context.Context, tenantID, windowID uuid.UUID) (*models.BlackoutWindow, error) {
	var window models.BlackoutWindow
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", windowID, tenantID).
		First(&window).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

// Find loads a window by ID alone, for background workers.
func (r *WindowRepository) Find(ctx context.Context, windowID uuid.UUID) (*models.BlackoutWindow, error) {
	var window models.BlackoutWindow
	if err := r.db.WithContext(ctx).First(&window, "id = ?", windowID).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

// FindByExternalID loads a window by its projection key.
func (r *WindowRepository) FindByExternalID(ctx context.Context, externalID string) (*models.BlackoutWindow, error) {
	var window models.BlackoutWindow
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&window).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

// FindByExternalIDWithTx loads a window by projection key inside a transaction.
func (r *WindowRepository) FindByExternalIDWithTx(tx *gorm.DB, externalID string) (*models.BlackoutWindow, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var window models.BlackoutWindow
	if err := tx.Where("external_id = ?", externalID).First(&window).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

// ListByTenant returns the tenant's windows ordered by start time.
func (r *WindowRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.BlackoutWindow, error) {
	var windows []models.BlackoutWindow
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_at ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// ListBySyncStatuses returns windows whose projection state matches any of the
// provided statuses.
func (r *WindowRepository) ListBySyncStatuses(ctx context.Context, statuses ...enums.SyncStatus) ([]models.BlackoutWindow, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, s.String())
	}
	var windows []models.BlackoutWindow
	if err := r.db.WithContext(ctx).
		Where("sync_status IN ?", raw).
		Order("updated_at ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// Update saves the provided window.
func (r *WindowRepository) Update(ctx context.Context, window *models.BlackoutWindow) error {
	if window == nil {
		return fmt.Errorf("blackout window is required")
	}
	return r.db.WithContext(ctx).Save(window).Error
}

// UpdateWithTx persists the window using the provided transaction.
func (r *WindowRepository) UpdateWithTx(tx *gorm.DB, window *models.BlackoutWindow) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if window == nil {
		return fmt.Errorf("blackout window is required")
	}
	return tx.Save(window).Error
}

// SyncStateUpdate carries the projection bookkeeping columns for a window.
type SyncStateUpdate struct {
	RemoteID      *string
	ClearRemoteID bool
	Status        enums.SyncStatus
	SyncError     *string
	SyncedAt      *time.Time
}

// UpdateSyncState writes only the window's projection bookkeeping columns.
func (r *WindowRepository) UpdateSyncState(ctx context.Context, windowID uuid.UUID, state SyncStateUpdate) error {
	updates := map[string]any{
		"sync_status": state.Status.String(),
		"sync_error":  state.SyncError,
	}
	if state.ClearRemoteID {
		updates["remote_id"] = nil
	} else if state.RemoteID != nil {
		updates["remote_id"] = *state.RemoteID
	}
	if state.SyncedAt != nil {
		updates["last_synced_at"] = *state.SyncedAt
	}
	return r.db.WithContext(ctx).
		Model(&models.BlackoutWindow{}).
		Where("id = ?", windowID).
		Updates(updates).Error
}
