package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/types"
)

type itemReader interface {
	FindItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.RentalItem, error)
}

type conflictReader interface {
	OverlappingReservations(ctx context.Context, itemID uuid.UUID, start, end time.Time) ([]models.Reservation, error)
	OverlappingBlackouts(ctx context.Context, tenantID, itemID uuid.UUID, start, end time.Time) ([]models.BlackoutWindow, error)
}

type availabilityRepository interface {
	itemReader
	conflictReader
}

// Service answers availability questions for a rental item over a half-open
// window. Lookup failures surface as errors, never as availability.
type Service interface {
	Check(ctx context.Context, input CheckInput) (*Result, error)
}

type service struct {
	repo availabilityRepository
}

// NewService builds the availability service.
func NewService(repo availabilityRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	return &service{repo: repo}, nil
}

// CheckInput identifies the item and window being checked. Quantity defaults
// to one unit.
type CheckInput struct {
	TenantID uuid.UUID
	ItemID   uuid.UUID
	Period   types.Period
	Quantity int
}

// Conflict describes one interval blocking the requested window. Booking
// conflicts carry the reservation status, blackouts carry the reason.
type Conflict struct {
	Type     enums.ConflictType `json:"type"`
	ID       uuid.UUID          `json:"id"`
	StartAt  time.Time          `json:"start_at"`
	EndAt    time.Time          `json:"end_at"`
	Quantity int                `json:"quantity,omitempty"`
	Status   string             `json:"status,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

// ItemSummary carries the item fields echoed in availability responses.
type ItemSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
}

// Result is the availability verdict for the requested window.
type Result struct {
	Available       bool         `json:"available"`
	RentalItem      ItemSummary  `json:"rental_item"`
	RequestedPeriod types.Period `json:"requested_period"`
	Conflicts       []Conflict   `json:"conflicts"`
	ConflictCount   int          `json:"conflict_count"`
}

// Check computes availability for the window. A blackout removes the whole
// fleet; every overlapping reservation consumes its full quantity for the
// entire window.
func (s *service) Check(ctx context.Context, input CheckInput) (*Result, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInterval, err, "invalid availability window")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	item, err := s.repo.FindItem(ctx, input.TenantID, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeAvailabilityCheck, err, "loading rental item")
	}

	result := &Result{
		RentalItem: ItemSummary{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
		},
		RequestedPeriod: input.Period,
		Conflicts:       []Conflict{},
	}

	if !item.IsActive {
		result.Available = false
		result.RentalItem.AvailableQuantity = 0
		return result, nil
	}

	reservations, err := s.repo.OverlappingReservations(ctx, item.ID, input.Period.Start, input.Period.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAvailabilityCheck, err, "querying reservations")
	}
	blackouts, err := s.repo.OverlappingBlackouts(ctx, input.TenantID, item.ID, input.Period.Start, input.Period.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAvailabilityCheck, err, "querying blackout windows")
	}

	for _, res := range reservations {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:     enums.ConflictTypeBooking,
			ID:       res.ID,
			StartAt:  res.StartAt,
			EndAt:    res.EndAt,
			Quantity: res.Quantity,
			Status:   res.Status.String(),
		})
	}
	for _, window := range blackouts {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:    enums.ConflictTypeBlackout,
			ID:      window.ID,
			StartAt: window.StartAt,
			EndAt:   window.EndAt,
			Reason:  window.Reason.String(),
		})
	}
	result.ConflictCount = len(result.Conflicts)

	if len(blackouts) > 0 {
		// A blackout takes the entire fleet out of service.
		result.Available = false
		result.RentalItem.AvailableQuantity = 0
		return result, nil
	}

	consumed := reservedQuantity(reservations)
	available := item.BookableQuantity() - consumed
	if available < 0 {
		available = 0
	}
	result.RentalItem.AvailableQuantity = available
	result.Available = available >= quantity
	return result, nil
}

// reservedQuantity sums the quantities of all overlapping reservations. Every
// reservation touching the window consumes its units for the whole window,
// even when the reservations themselves never coincide.
func reservedQuantity(reservations []models.Reservation) int {
	var total int
	for _, res := range reservations {
		qty := res.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}
