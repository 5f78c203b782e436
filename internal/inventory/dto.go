package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// ItemDTO exposes rental item data in API responses.
type ItemDTO struct {
	ID                    uuid.UUID          `json:"id"`
	TenantID              uuid.UUID          `json:"tenant_id"`
	Name                  string             `json:"name"`
	Description           *string            `json:"description,omitempty"`
	Category              enums.ItemCategory `json:"category"`
	DailyRate             *decimal.Decimal   `json:"daily_rate,omitempty"`
	HourlyRate            *decimal.Decimal   `json:"hourly_rate,omitempty"`
	Quantity              int                `json:"quantity"`
	MaxConcurrentBookings *int               `json:"max_concurrent_bookings,omitempty"`
	IsActive              bool               `json:"is_active"`
	RemoteServiceID       *string            `json:"remote_service_id,omitempty"`
	SyncStatus            enums.SyncStatus   `json:"sync_status"`
	SyncError             *string            `json:"sync_error,omitempty"`
	LastSyncedAt          *time.Time         `json:"last_synced_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// FromModel maps the persisted item into a DTO.
func FromModel(m *models.RentalItem) *ItemDTO {
	if m == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:                    m.ID,
		TenantID:              m.TenantID,
		Name:                  m.Name,
		Description:           m.Description,
		Category:              m.Category,
		Quantity:              m.Quantity,
		MaxConcurrentBookings: m.MaxConcurrentBookings,
		IsActive:              m.IsActive,
		RemoteServiceID:       m.RemoteServiceID,
		SyncStatus:            m.SyncStatus,
		SyncError:             m.SyncError,
		LastSyncedAt:          m.LastSyncedAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if m.DailyRate.Valid {
		rate := m.DailyRate.Decimal
		dto.DailyRate = &rate
	}
	if m.HourlyRate.Valid {
		rate := m.HourlyRate.Decimal
		dto.HourlyRate = &rate
	}
	return dto
}
