package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/internal/availability"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/pagination"
	"github.com/rentable/rentable-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRepository interface {
	CreateWithTx(tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, tenantID, reservationID uuid.UUID) (*models.Reservation, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID, params pagination.Params) ([]models.Reservation, error)
	Update(ctx context.Context, reservation *models.Reservation) error
}

// Service manages the reservation lifecycle. Creation re-checks availability
// inside the insert transaction so two concurrent bookings cannot both claim
// the last unit.
type Service interface {
	CreateReservation(ctx context.Context, tenantID uuid.UUID, input CreateReservationInput) (*ReservationDTO, error)
	GetReservation(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationDTO, error)
	ListReservations(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID, params pagination.Params) (*ReservationPage, error)
	UpdateStatus(ctx context.Context, tenantID, reservationID uuid.UUID, status enums.ReservationStatus) (*ReservationDTO, error)
	CancelReservation(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationDTO, error)
}

type service struct {
	tx   txRunner
	repo reservationRepository
	now  func() time.Time
}

// NewService builds the reservation service.
func NewService(tx txRunner, repo reservationRepository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	return &service{tx: tx, repo: repo, now: time.Now}, nil
}

// CreateReservationInput captures the booking request.
type CreateReservationInput struct {
	RentalItemID  uuid.UUID
	CustomerName  string
	CustomerEmail *string
	CustomerPhone *string
	Period        types.Period
	Quantity      int
	TotalPrice    *decimal.Decimal
	Notes         *string
}

func (s *service) CreateReservation(ctx context.Context, tenantID uuid.UUID, input CreateReservationInput) (*ReservationDTO, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInterval, err, "invalid reservation window")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	reservation := &models.Reservation{
		ID:            uuid.New(),
		TenantID:      tenantID,
		RentalItemID:  input.RentalItemID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		StartAt:       input.Period.Start,
		EndAt:         input.Period.End,
		Quantity:      quantity,
		Status:        enums.ReservationStatusPending,
		Notes:         input.Notes,
	}
	if input.TotalPrice != nil {
		reservation.TotalPrice = decimal.NewNullDecimal(*input.TotalPrice)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// The availability read and the insert share one transaction.
		checker, err := availability.NewService(availability.NewRepository(tx))
		if err != nil {
			return err
		}
		result, err := checker.Check(ctx, availability.CheckInput{
			TenantID: tenantID,
			ItemID:   input.RentalItemID,
			Period:   input.Period,
			Quantity: quantity,
		})
		if err != nil {
			return err
		}
		if !result.Available {
			return pkgerrors.New(pkgerrors.CodeConflict, "requested window is not available").
				WithDetails(result.Conflicts)
		}
		return s.repo.CreateWithTx(tx, reservation)
	})
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, domainErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating reservation")
	}
	return FromModel(reservation), nil
}

func (s *service) GetReservation(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationDTO, error) {
	reservation, err := s.find(ctx, tenantID, reservationID)
	if err != nil {
		return nil, err
	}
	return FromModel(reservation), nil
}

// ReservationPage is one cursor page of reservations. An empty NextCursor
// means the listing is exhausted.
type ReservationPage struct {
	Reservations []ReservationDTO `json:"reservations"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

func (s *service) ListReservations(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID, params pagination.Params) (*ReservationPage, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	reservations, err := s.repo.ListByTenant(ctx, tenantID, itemID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reservations")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ReservationPage{Reservations: make([]ReservationDTO, 0, limit)}
	if len(reservations) > limit {
		last := reservations[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		reservations = reservations[:limit]
	}
	for i := range reservations {
		page.Reservations = append(page.Reservations, *FromModel(&reservations[i]))
	}
	return page, nil
}

// statusTransitions lists the permitted next statuses per current status.
var statusTransitions = map[enums.ReservationStatus][]enums.ReservationStatus{
	enums.ReservationStatusPending:   {enums.ReservationStatusConfirmed, enums.ReservationStatusCancelled},
	enums.ReservationStatusConfirmed: {enums.ReservationStatusDelivered, enums.ReservationStatusCancelled},
	enums.ReservationStatusDelivered: {enums.ReservationStatusCompleted, enums.ReservationStatusCancelled},
}

func canTransition(from, to enums.ReservationStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, tenantID, reservationID uuid.UUID, status enums.ReservationStatus) (*ReservationDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid reservation status")
	}
	reservation, err := s.find(ctx, tenantID, reservationID)
	if err != nil {
		return nil, err
	}
	if !canTransition(reservation.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, status))
	}

	reservation.Status = status
	if status == enums.ReservationStatusCancelled {
		cancelledAt := s.now().UTC()
		reservation.CancelledAt = &cancelledAt
	}
	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating reservation")
	}
	return FromModel(reservation), nil
}

func (s *service) CancelReservation(ctx context.Context, tenantID, reservationID uuid.UUID) (*ReservationDTO, error) {
	return s.UpdateStatus(ctx, tenantID, reservationID, enums.ReservationStatusCancelled)
}

func (s *service) find(ctx context.Context, tenantID, reservationID uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading reservation")
	}
	return reservation, nil
}
