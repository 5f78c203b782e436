package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/api/responses"
	"github.com/rentable/rentable-backend/api/validators"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type createItemRequest struct {
	Name                  string   `json:"name" validate:"required,max=200"`
	Description           *string  `json:"description,omitempty"`
	Category              *string  `json:"category,omitempty"`
	DailyRate             *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	HourlyRate            *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Quantity              *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	MaxConcurrentBookings *int     `json:"max_concurrent_bookings,omitempty" validate:"omitempty,min=1"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

func (p createItemRequest) toInput() (inventory.CreateItemInput, error) {
	input := inventory.CreateItemInput{
		Name:                  p.Name,
		Description:           p.Description,
		MaxConcurrentBookings: p.MaxConcurrentBookings,
		IsActive:              p.IsActive,
	}
	if p.Category != nil {
		category, err := enums.ParseItemCategory(*p.Category)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = category
	}
	if p.Quantity != nil {
		input.Quantity = *p.Quantity
	}
	if p.DailyRate != nil {
		rate := decimal.NewFromFloat(*p.DailyRate)
		input.DailyRate = &rate
	}
	if p.HourlyRate != nil {
		rate := decimal.NewFromFloat(*p.HourlyRate)
		input.HourlyRate = &rate
	}
	return input, nil
}

// CreateItem handles rental item creation.
func CreateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), tenantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// GetItem returns one rental item.
func GetItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), tenantID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListItems returns the tenant's rental items.
func ListItems(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		items, err := svc.List(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type updateItemRequest struct {
	Name                  *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description           *string  `json:"description,omitempty"`
	Category              *string  `json:"category,omitempty"`
	DailyRate             *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	HourlyRate            *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Quantity              *int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	MaxConcurrentBookings *int     `json:"max_concurrent_bookings,omitempty" validate:"omitempty,min=1"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

func (p updateItemRequest) toInput() (inventory.UpdateItemInput, error) {
	input := inventory.UpdateItemInput{
		Name:                  p.Name,
		Description:           p.Description,
		Quantity:              p.Quantity,
		MaxConcurrentBookings: p.MaxConcurrentBookings,
		IsActive:              p.IsActive,
	}
	if p.Category != nil {
		category, err := enums.ParseItemCategory(*p.Category)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if p.DailyRate != nil {
		rate := decimal.NewFromFloat(*p.DailyRate)
		input.DailyRate = &rate
	}
	if p.HourlyRate != nil {
		rate := decimal.NewFromFloat(*p.HourlyRate)
		input.HourlyRate = &rate
	}
	return input, nil
}

// UpdateItem mutates a rental item and queues a re-projection.
func UpdateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), tenantID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteItem removes a rental item.
func DeleteItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), tenantID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

// ResyncItem queues the item for another projection pass.
func ResyncItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RequestResync(r.Context(), tenantID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, item)
	}
}
