package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/api/responses"
	"github.com/rentable/rentable-backend/api/validators"
	"github.com/rentable/rentable-backend/internal/reservations"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/pagination"
	"github.com/rentable/rentable-backend/pkg/types"
)

type createReservationRequest struct {
	RentalItemID  string   `json:"rental_item_id" validate:"required,uuid"`
	CustomerName  string   `json:"customer_name" validate:"required,max=200"`
	CustomerEmail *string  `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone *string  `json:"customer_phone,omitempty"`
	StartAt       string   `json:"start_at" validate:"required"`
	EndAt         string   `json:"end_at" validate:"required"`
	Quantity      *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	TotalPrice    *float64 `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes,omitempty"`
}

func (p createReservationRequest) toInput() (reservations.CreateReservationInput, error) {
	itemID, err := uuid.Parse(p.RentalItemID)
	if err != nil {
		return reservations.CreateReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rental_item_id")
	}
	start, err := time.Parse(time.RFC3339, p.StartAt)
	if err != nil {
		return reservations.CreateReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "start_at must be RFC 3339")
	}
	end, err := time.Parse(time.RFC3339, p.EndAt)
	if err != nil {
		return reservations.CreateReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "end_at must be RFC 3339")
	}

	input := reservations.CreateReservationInput{
		RentalItemID:  itemID,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		CustomerPhone: p.CustomerPhone,
		Period:        types.Period{Start: start, End: end},
		Notes:         p.Notes,
	}
	if p.Quantity != nil {
		input.Quantity = *p.Quantity
	}
	if p.TotalPrice != nil {
		price := decimal.NewFromFloat(*p.TotalPrice)
		input.TotalPrice = &price
	}
	return input, nil
}

// CreateReservation books an item for a customer.
func CreateReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		var payload createReservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.CreateReservation(r.Context(), tenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reservation)
	}
}

// GetReservation returns one reservation.
func GetReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		reservationID, err := validators.PathUUID(chi.URLParam(r, "reservationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.GetReservation(r.Context(), tenantID, reservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

// ListReservations returns a cursor page of the tenant's reservations,
// optionally filtered by item via ?item_id=.
func ListReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		itemID, err := validators.ParseQueryUUID(r, "item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		list, err := svc.ListReservations(r.Context(), tenantID, itemID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type updateReservationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateReservationStatus moves a reservation through its lifecycle.
func UpdateReservationStatus(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		reservationID, err := validators.PathUUID(chi.URLParam(r, "reservationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateReservationStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseReservationStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		reservation, err := svc.UpdateStatus(r.Context(), tenantID, reservationID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

// CancelReservation cancels a reservation, freeing its window.
func CancelReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		reservationID, err := validators.PathUUID(chi.URLParam(r, "reservationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.CancelReservation(r.Context(), tenantID, reservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}
