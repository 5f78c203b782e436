package blackouts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
)

// MaintenanceRepository handles maintenance record persistence.
type MaintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository binds a GORM DB to maintenance operations.
func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// CreateWithTx persists a record inside the provided transaction.
func (r *MaintenanceRepository) CreateWithTx(tx *gorm.DB, record *models.MaintenanceRecord) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if record == nil {
		return fmt.Errorf("maintenance record is required")
	}
	return tx.Create(record).Error
}

// FindByID loads a record scoped to its tenant.
func (r *MaintenanceRepository) FindByID(ctx context.Context, tenantID, recordID uuid.UUID) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", recordID, tenantID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByTenant returns the tenant's records ordered by start time.
func (r *MaintenanceRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByItem returns the item's records ordered by start time.
func (r *MaintenanceRepository) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND rental_item_id = ?", tenantID, itemID).
		Order("start_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateWithTx persists the record using the provided transaction.
func (r *MaintenanceRepository) UpdateWithTx(tx *gorm.DB, record *models.MaintenanceRecord) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if record == nil {
		return fmt.Errorf("maintenance record is required")
	}
	return tx.Save(record).Error
}
