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
	"github.com/rentable/rentable-backend/internal/blackouts"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/types"
)

func parsePeriodFields(startRaw, endRaw string) (types.Period, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return types.Period{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "start_at must be RFC 3339")
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return types.Period{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "end_at must be RFC 3339")
	}
	return types.Period{Start: start, End: end}, nil
}

type createBlackoutRequest struct {
	RentalItemID *string `json:"rental_item_id,omitempty" validate:"omitempty,uuid"`
	Reason       *string `json:"reason,omitempty"`
	Note         *string `json:"note,omitempty"`
	StartAt      string  `json:"start_at" validate:"required"`
	EndAt        string  `json:"end_at" validate:"required"`
}

func (p createBlackoutRequest) toInput() (blackouts.CreateBlackoutInput, error) {
	input := blackouts.CreateBlackoutInput{Note: p.Note}

	if p.RentalItemID != nil {
		itemID, err := uuid.Parse(*p.RentalItemID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rental_item_id")
		}
		input.RentalItemID = &itemID
	}
	if p.Reason != nil {
		reason, err := enums.ParseBlackoutReason(*p.Reason)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason")
		}
		input.Reason = reason
	}
	period, err := parsePeriodFields(p.StartAt, p.EndAt)
	if err != nil {
		return input, err
	}
	input.Period = period
	return input, nil
}

// CreateBlackout opens a manual blackout window.
func CreateBlackout(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		var payload createBlackoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := svc.CreateBlackout(r.Context(), tenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, window)
	}
}

// GetBlackout returns one blackout window.
func GetBlackout(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		windowID, err := validators.PathUUID(chi.URLParam(r, "blackoutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := svc.GetBlackout(r.Context(), tenantID, windowID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, window)
	}
}

// ListBlackouts returns the tenant's blackout windows.
func ListBlackouts(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		windows, err := svc.ListBlackouts(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, windows)
	}
}

type updateBlackoutRequest struct {
	Reason   *string `json:"reason,omitempty"`
	Note     *string `json:"note,omitempty"`
	StartAt  *string `json:"start_at,omitempty"`
	EndAt    *string `json:"end_at,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (p updateBlackoutRequest) toInput() (blackouts.UpdateBlackoutInput, error) {
	input := blackouts.UpdateBlackoutInput{Note: p.Note, IsActive: p.IsActive}

	if p.Reason != nil {
		reason, err := enums.ParseBlackoutReason(*p.Reason)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason")
		}
		input.Reason = &reason
	}
	if (p.StartAt == nil) != (p.EndAt == nil) {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "start_at and end_at must be updated together")
	}
	if p.StartAt != nil {
		period, err := parsePeriodFields(*p.StartAt, *p.EndAt)
		if err != nil {
			return input, err
		}
		input.Period = &period
	}
	return input, nil
}

// UpdateBlackout mutates a manual blackout window.
func UpdateBlackout(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		windowID, err := validators.PathUUID(chi.URLParam(r, "blackoutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBlackoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := svc.UpdateBlackout(r.Context(), tenantID, windowID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, window)
	}
}

// DeactivateBlackout closes a blackout window and queues the remote removal.
func DeactivateBlackout(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		windowID, err := validators.PathUUID(chi.URLParam(r, "blackoutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := svc.DeactivateBlackout(r.Context(), tenantID, windowID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, window)
	}
}

type scheduleMaintenanceRequest struct {
	RentalItemID string   `json:"rental_item_id" validate:"required,uuid"`
	Type         string   `json:"type" validate:"required"`
	Description  *string  `json:"description,omitempty"`
	StartAt      string   `json:"start_at" validate:"required"`
	EndAt        string   `json:"end_at" validate:"required"`
	Cost         *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

func (p scheduleMaintenanceRequest) toInput() (blackouts.ScheduleMaintenanceInput, error) {
	itemID, err := uuid.Parse(p.RentalItemID)
	if err != nil {
		return blackouts.ScheduleMaintenanceInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rental_item_id")
	}
	maintenanceType, err := enums.ParseMaintenanceType(p.Type)
	if err != nil {
		return blackouts.ScheduleMaintenanceInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}
	period, err := parsePeriodFields(p.StartAt, p.EndAt)
	if err != nil {
		return blackouts.ScheduleMaintenanceInput{}, err
	}

	input := blackouts.ScheduleMaintenanceInput{
		RentalItemID: itemID,
		Type:         maintenanceType,
		Description:  p.Description,
		Period:       period,
	}
	if p.Cost != nil {
		cost := decimal.NewFromFloat(*p.Cost)
		input.Cost = &cost
	}
	return input, nil
}

// ScheduleMaintenance books maintenance work and its derived blackout.
func ScheduleMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		var payload scheduleMaintenanceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ScheduleMaintenance(r.Context(), tenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// GetMaintenance returns one maintenance record.
func GetMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		recordID, err := validators.PathUUID(chi.URLParam(r, "maintenanceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetMaintenance(r.Context(), tenantID, recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ListMaintenance returns the tenant's maintenance records, optionally
// filtered by ?item_id=.
func ListMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
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

		records, err := svc.ListMaintenance(r.Context(), tenantID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// StartMaintenance moves a scheduled record into progress.
func StartMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		recordID, err := validators.PathUUID(chi.URLParam(r, "maintenanceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.StartMaintenance(r.Context(), tenantID, recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type completeMaintenanceRequest struct {
	CompletedAt *string `json:"completed_at,omitempty"`
}

// CompleteMaintenance finishes maintenance work and shrinks or deactivates
// its derived blackout.
func CompleteMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		recordID, err := validators.PathUUID(chi.URLParam(r, "maintenanceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var completedAt *time.Time
		if r.ContentLength > 0 {
			var payload completeMaintenanceRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if payload.CompletedAt != nil {
				parsed, err := time.Parse(time.RFC3339, *payload.CompletedAt)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "completed_at must be RFC 3339"))
					return
				}
				completedAt = &parsed
			}
		}

		record, err := svc.CompleteMaintenance(r.Context(), tenantID, recordID, completedAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CancelMaintenance drops scheduled work and deactivates its derived blackout.
func CancelMaintenance(svc blackouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		recordID, err := validators.PathUUID(chi.URLParam(r, "maintenanceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CancelMaintenance(r.Context(), tenantID, recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}
