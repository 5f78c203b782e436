package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/pkg/db/models"
)

// SettingsDTO is the API shape of tenant scheduling settings.
type SettingsDTO struct {
	TenantID           uuid.UUID  `json:"tenant_id"`
	BusinessName       string     `json:"business_name"`
	Timezone           string     `json:"timezone"`
	OpeningTime        string     `json:"opening_time"`
	ClosingTime        string     `json:"closing_time"`
	BusinessDays       []string   `json:"business_days"`
	SlotGranularity    int        `json:"slot_granularity"`
	LeadTimeHours      int        `json:"lead_time_hours"`
	BookingWindow      int        `json:"booking_window_days"`
	Currency           string     `json:"currency"`
	Locale             string     `json:"locale"`
	CancellationPolicy *string    `json:"cancellation_policy,omitempty"`
	RemoteTenantID     *string    `json:"remote_tenant_id,omitempty"`
	SettingsSyncedAt   *time.Time `json:"settings_synced_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// FromModel maps the persisted tenant into a settings DTO.
func FromModel(m *models.Tenant) *SettingsDTO {
	if m == nil {
		return nil
	}
	return &SettingsDTO{
		TenantID:           m.ID,
		BusinessName:       m.BusinessName,
		Timezone:           m.Timezone,
		OpeningTime:        m.OpeningTime,
		ClosingTime:        m.ClosingTime,
		BusinessDays:       append([]string(nil), m.BusinessDays...),
		SlotGranularity:    m.SlotGranularity,
		LeadTimeHours:      m.LeadTimeHours,
		BookingWindow:      m.BookingWindow,
		Currency:           m.Currency,
		Locale:             m.Locale,
		CancellationPolicy: m.CancellationPolicy,
		RemoteTenantID:     m.RemoteTenantID,
		SettingsSyncedAt:   m.SettingsSyncedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
