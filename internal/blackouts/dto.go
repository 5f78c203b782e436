package blackouts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// BlackoutDTO exposes blackout window data in API responses.
type BlackoutDTO struct {
	ID           uuid.UUID            `json:"id"`
	TenantID     uuid.UUID            `json:"tenant_id"`
	RentalItemID *uuid.UUID           `json:"rental_item_id,omitempty"`
	ExternalID   string               `json:"external_id"`
	Reason       enums.BlackoutReason `json:"reason"`
	Source       enums.BlackoutSource `json:"source"`
	Note         *string              `json:"note,omitempty"`
	StartAt      time.Time            `json:"start_at"`
	EndAt        time.Time            `json:"end_at"`
	IsActive     bool                 `json:"is_active"`
	RemoteID     *string              `json:"remote_id,omitempty"`
	SyncStatus   enums.SyncStatus     `json:"sync_status"`
	SyncError    *string              `json:"sync_error,omitempty"`
	LastSyncedAt *time.Time           `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// WindowFromModel maps the persisted window into a DTO.
func WindowFromModel(m *models.BlackoutWindow) *BlackoutDTO {
	if m == nil {
		return nil
	}
	return &BlackoutDTO{
		ID:           m.ID,
		TenantID:     m.TenantID,
		RentalItemID: m.RentalItemID,
		ExternalID:   m.ExternalID,
		Reason:       m.Reason,
		Source:       m.Source,
		Note:         m.Note,
		StartAt:      m.StartAt,
		EndAt:        m.EndAt,
		IsActive:     m.IsActive,
		RemoteID:     m.RemoteID,
		SyncStatus:   m.SyncStatus,
		SyncError:    m.SyncError,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MaintenanceDTO exposes maintenance record data in API responses.
type MaintenanceDTO struct {
	ID           uuid.UUID               `json:"id"`
	TenantID     uuid.UUID               `json:"tenant_id"`
	RentalItemID uuid.UUID               `json:"rental_item_id"`
	Type         enums.MaintenanceType   `json:"type"`
	Status       enums.MaintenanceStatus `json:"status"`
	Description  *string                 `json:"description,omitempty"`
	StartAt      time.Time               `json:"start_at"`
	EndAt        time.Time               `json:"end_at"`
	Cost         *decimal.Decimal        `json:"cost,omitempty"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
	CancelledAt  *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// MaintenanceFromModel maps the persisted record into a DTO.
func MaintenanceFromModel(m *models.MaintenanceRecord) *MaintenanceDTO {
	if m == nil {
		return nil
	}
	dto := &MaintenanceDTO{
		ID:           m.ID,
		TenantID:     m.TenantID,
		RentalItemID: m.RentalItemID,
		Type:         m.Type,
		Status:       m.Status,
		Description:  m.Description,
		StartAt:      m.StartAt,
		EndAt:        m.EndAt,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Cost.Valid {
		cost := m.Cost.Decimal
		dto.Cost = &cost
	}
	return dto
}
