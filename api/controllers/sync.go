package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/api/responses"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/internal/reconcile"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type statusReporter interface {
	CheckSyncStatus(ctx context.Context, tenantID uuid.UUID) (*reconcile.Report, error)
}

type itemProjector interface {
	ProjectPending(ctx context.Context) (inventory.BulkResult, error)
}

type windowProjector interface {
	ProjectPending(ctx context.Context) (int, error)
}

type tenantProjector interface {
	ProjectTenant(ctx context.Context, tenantID uuid.UUID) error
}

// SyncStatus reconciles the tenant's inventory against the booking engine
// and reports per-resource sync state.
func SyncStatus(reporter statusReporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}

		report, err := reporter.CheckSyncStatus(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// SyncRun drives one projection sweep: every pending or failed item and
// blackout window plus the tenant's settings. Per-resource failures are
// reported in the payload, not as a request failure.
func SyncRun(items itemProjector, windows windowProjector, tenants tenantProjector, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing"))
			return
		}
		ctx := r.Context()

		result := map[string]any{}
		itemResult, err := items.ProjectPending(ctx)
		result["items_synced"] = itemResult.Synced
		result["items_failed"] = itemResult.Failed
		if err != nil {
			result["items_error"] = err.Error()
		}
		windowsSynced, err := windows.ProjectPending(ctx)
		result["blackouts_synced"] = windowsSynced
		if err != nil {
			result["blackouts_error"] = err.Error()
		}
		if err := tenants.ProjectTenant(ctx, tenantID); err != nil {
			result["settings_error"] = err.Error()
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, result)
	}
}
