package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/api/responses"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

const tenantIDHeader = "X-Tenant-Id"

type contextKey string

const ctxTenantID contextKey = "tenant_id"

// TenantContext requires a tenant identifier on every request and injects it
// into the context for downstream handlers.
func TenantContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := r.Header.Get(tenantIDHeader)
			if raw == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing X-Tenant-Id header"))
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "malformed X-Tenant-Id header"))
				return
			}

			ctx = context.WithValue(ctx, ctxTenantID, tenantID)
			if logg != nil {
				ctx = logg.WithTenantID(ctx, tenantID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantIDFromContext returns the tenant injected by TenantContext.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	tenantID, ok := ctx.Value(ctxTenantID).(uuid.UUID)
	return tenantID, ok
}
