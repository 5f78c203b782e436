package controllers

import (
	"net/http"

	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/api/responses"
	"github.com/rentable/rentable-backend/api/validators"
	"github.com/rentable/rentable-backend/internal/settings"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

// GetSettings returns the tenant's scheduling settings.
func GetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		dto, err := svc.GetSettings(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type updateSettingsRequest struct {
	Timezone           *string  `json:"timezone,omitempty"`
	OpeningTime        *string  `json:"opening_time,omitempty"`
	ClosingTime        *string  `json:"closing_time,omitempty"`
	BusinessDays       []string `json:"business_days,omitempty"`
	SlotGranularity    *int     `json:"slot_granularity,omitempty"`
	LeadTimeHours      *int     `json:"lead_time_hours,omitempty"`
	BookingWindow      *int     `json:"booking_window_days,omitempty"`
	Currency           *string  `json:"currency,omitempty"`
	Locale             *string  `json:"locale,omitempty"`
	CancellationPolicy *string  `json:"cancellation_policy,omitempty"`
}

// UpdateSettings mutates the tenant's scheduling settings and projects them.
func UpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), tenantID, settings.UpdateSettingsInput{
			Timezone:           payload.Timezone,
			OpeningTime:        payload.OpeningTime,
			ClosingTime:        payload.ClosingTime,
			BusinessDays:       payload.BusinessDays,
			SlotGranularity:    payload.SlotGranularity,
			LeadTimeHours:      payload.LeadTimeHours,
			BookingWindow:      payload.BookingWindow,
			Currency:           payload.Currency,
			Locale:             payload.Locale,
			CancellationPolicy: payload.CancellationPolicy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
