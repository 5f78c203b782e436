package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/enums"
)

// RentalItem represents a unit of rentable inventory. Quantity is the fleet
// size; concurrent reservations may consume it partially.
type RentalItem struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID              uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name                  string              `gorm:"column:name;not null"`
	Description           *string             `gorm:"column:description"`
	Category              enums.ItemCategory  `gorm:"column:category;not null;default:'other'"`
	DailyRate             decimal.NullDecimal `gorm:"column:daily_rate;type:numeric(10,2)"`
	HourlyRate            decimal.NullDecimal `gorm:"column:hourly_rate;type:numeric(10,2)"`
	Quantity              int                 `gorm:"column:quantity;not null;default:1"`
	MaxConcurrentBookings *int                `gorm:"column:max_concurrent_bookings"`
	IsActive              bool                `gorm:"column:is_active;not null;default:true"`
	RemoteServiceID       *string             `gorm:"column:remote_service_id"`
	SyncStatus            enums.SyncStatus    `gorm:"column:sync_status;not null;default:'pending'"`
	SyncError             *string             `gorm:"column:sync_error"`
	LastSyncedAt          *time.Time          `gorm:"column:last_synced_at"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveDailyRate is the price projected remotely: the daily rate when set,
// otherwise eight hourly units.
func (r RentalItem) EffectiveDailyRate() decimal.Decimal {
	if r.DailyRate.Valid {
		return r.DailyRate.Decimal
	}
	if r.HourlyRate.Valid {
		return r.HourlyRate.Decimal.Mul(decimal.NewFromInt(8))
	}
	return decimal.Zero
}

// BookableQuantity caps the fleet size by max concurrent bookings when that
// limit is the tighter one.
func (r RentalItem) BookableQuantity() int {
	qty := r.Quantity
	if qty < 1 {
		qty = 1
	}
	if r.MaxConcurrentBookings != nil && *r.MaxConcurrentBookings > 0 && *r.MaxConcurrentBookings < qty {
		return *r.MaxConcurrentBookings
	}
	return qty
}
