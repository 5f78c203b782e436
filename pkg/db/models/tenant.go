package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tenant represents the canonical rental business account. Its settings
// columns feed the booking-engine tenant projection.
type Tenant struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName       string         `gorm:"column:business_name;not null"`
	Slug               string         `gorm:"column:slug;not null;uniqueIndex"`
	Email              *string        `gorm:"column:email"`
	Phone              *string        `gorm:"column:phone"`
	Timezone           string         `gorm:"column:timezone;not null;default:'America/New_York'"`
	OpeningTime        string         `gorm:"column:opening_time;not null;default:'08:00'"`
	ClosingTime        string         `gorm:"column:closing_time;not null;default:'18:00'"`
	BusinessDays       pq.StringArray `gorm:"column:business_days;type:text[]"`
	SlotGranularity    int            `gorm:"column:slot_granularity;not null;default:30"`
	LeadTimeHours      int            `gorm:"column:lead_time_hours;not null;default:24"`
	BookingWindow      int            `gorm:"column:booking_window_days;not null;default:90"`
	Currency           string         `gorm:"column:currency;not null;default:'USD'"`
	Locale             string         `gorm:"column:locale;not null;default:'en-US'"`
	CancellationPolicy *string        `gorm:"column:cancellation_policy"`
	RemoteTenantID     *string        `gorm:"column:remote_tenant_id"`
	SettingsSyncedAt   *time.Time     `gorm:"column:settings_synced_at"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
