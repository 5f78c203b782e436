package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/enums"
)

// MaintenanceRecord schedules service work on an item. While scheduled or in
// progress it materializes a derived blackout window.
type MaintenanceRecord struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;index"`
	RentalItemID uuid.UUID               `gorm:"column:rental_item_id;type:uuid;not null;index"`
	Type         enums.MaintenanceType   `gorm:"column:type;not null"`
	Status       enums.MaintenanceStatus `gorm:"column:status;not null;default:'scheduled'"`
	Description  *string                 `gorm:"column:description"`
	StartAt      time.Time               `gorm:"column:start_at;not null"`
	EndAt        time.Time               `gorm:"column:end_at;not null"`
	Cost         decimal.NullDecimal     `gorm:"column:cost;type:numeric(10,2)"`
	CompletedAt  *time.Time              `gorm:"column:completed_at"`
	CancelledAt  *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
