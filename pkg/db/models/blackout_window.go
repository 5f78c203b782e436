package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/pkg/enums"
)

// BlackoutWindow removes an item (or a whole tenant when RentalItemID is nil)
// from availability over [StartAt, EndAt). ExternalID keys the booking-engine
// projection and makes derived windows idempotent.
type BlackoutWindow struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index"`
	RentalItemID *uuid.UUID           `gorm:"column:rental_item_id;type:uuid;index"`
	ExternalID   string               `gorm:"column:external_id;not null;uniqueIndex"`
	Reason       enums.BlackoutReason `gorm:"column:reason;not null;default:'other'"`
	Source       enums.BlackoutSource `gorm:"column:source;not null;default:'manual'"`
	Note         *string              `gorm:"column:note"`
	StartAt      time.Time            `gorm:"column:start_at;not null;index"`
	EndAt        time.Time            `gorm:"column:end_at;not null;index"`
	IsActive     bool                 `gorm:"column:is_active;not null;default:true"`
	RemoteID     *string              `gorm:"column:remote_id"`
	SyncStatus   enums.SyncStatus     `gorm:"column:sync_status;not null;default:'pending'"`
	SyncError    *string              `gorm:"column:sync_error"`
	LastSyncedAt *time.Time           `gorm:"column:last_synced_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
