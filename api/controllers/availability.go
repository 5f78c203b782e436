package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/api/responses"
	"github.com/rentable/rentable-backend/api/validators"
	"github.com/rentable/rentable-backend/internal/availability"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/types"
)

// CheckAvailability answers whether an item can be booked over a window.
// GET /items/{itemID}/availability?start=...&end=...&quantity=N
func CheckAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
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
		start, err := validators.ParseQueryTime(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryTime(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Check(r.Context(), availability.CheckInput{
			TenantID: tenantID,
			ItemID:   itemID,
			Period:   types.Period{Start: start, End: end},
			Quantity: quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
