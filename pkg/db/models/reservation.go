package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/enums"
)

// Reservation books quantity units of an item over a half-open interval
// [StartAt, EndAt).
type Reservation struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;index"`
	RentalItemID  uuid.UUID               `gorm:"column:rental_item_id;type:uuid;not null;index"`
	CustomerName  string                  `gorm:"column:customer_name;not null"`
	CustomerEmail *string                 `gorm:"column:customer_email"`
	CustomerPhone *string                 `gorm:"column:customer_phone"`
	StartAt       time.Time               `gorm:"column:start_at;not null;index"`
	EndAt         time.Time               `gorm:"column:end_at;not null;index"`
	Quantity      int                     `gorm:"column:quantity;not null;default:1"`
	Status        enums.ReservationStatus `gorm:"column:status;not null;default:'pending'"`
	TotalPrice    decimal.NullDecimal     `gorm:"column:total_price;type:numeric(10,2)"`
	Notes         *string                 `gorm:"column:notes"`
	CancelledAt   *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
