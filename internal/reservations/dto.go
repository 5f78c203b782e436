package reservations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

// ReservationDTO is the API shape of a reservation.
type ReservationDTO struct {
	ID            uuid.UUID               `json:"id"`
	TenantID      uuid.UUID               `json:"tenant_id"`
	RentalItemID  uuid.UUID               `json:"rental_item_id"`
	CustomerName  string                  `json:"customer_name"`
	CustomerEmail *string                 `json:"customer_email,omitempty"`
	CustomerPhone *string                 `json:"customer_phone,omitempty"`
	StartAt       time.Time               `json:"start_at"`
	EndAt         time.Time               `json:"end_at"`
	Quantity      int                     `json:"quantity"`
	Status        enums.ReservationStatus `json:"status"`
	TotalPrice    *decimal.Decimal        `json:"total_price,omitempty"`
	Notes         *string                 `json:"notes,omitempty"`
	CancelledAt   *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// FromModel maps the persisted reservation into a DTO.
func FromModel(m *models.Reservation) *ReservationDTO {
	if m == nil {
		return nil
	}
	dto := &ReservationDTO{
		ID:            m.ID,
		TenantID:      m.TenantID,
		RentalItemID:  m.RentalItemID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		StartAt:       m.StartAt,
		EndAt:         m.EndAt,
		Quantity:      m.Quantity,
		Status:        m.Status,
		Notes:         m.Notes,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.TotalPrice.Valid {
		price := m.TotalPrice.Decimal
		dto.TotalPrice = &price
	}
	return dto
}
