package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rentable/rentable-backend/internal/reconcile"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type tenantLister interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type statusChecker interface {
	CheckSyncStatus(ctx context.Context, tenantID uuid.UUID) (*reconcile.Report, error)
}

type settingsPusher interface {
	ProjectTenant(ctx context.Context, tenantID uuid.UUID) error
}

type ReconcileJobParams struct {
	Logger   *logger.Logger
	Tenants  tenantLister
	Reporter statusChecker
	Settings settingsPusher
}

// NewReconcileJob builds the job that compares every tenant's local state
// against the booking engine and re-projects tenant settings. Items that
// drifted or vanished remotely are surfaced out_of_sync in the report.
func NewReconcileJob(params ReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tenants == nil {
		return nil, fmt.Errorf("tenant lister required")
	}
	if params.Reporter == nil {
		return nil, fmt.Errorf("status reporter required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings projector required")
	}
	return &reconcileJob{
		logg:     params.Logger,
		tenants:  params.Tenants,
		reporter: params.Reporter,
		settings: params.Settings,
	}, nil
}

type reconcileJob struct {
	logg     *logger.Logger
	tenants  tenantLister
	reporter statusChecker
	settings settingsPusher
}

func (j *reconcileJob) Name() string {
	return "reconciliation"
}

func (j *reconcileJob) Run(ctx context.Context) error {
	tenantIDs, err := j.tenants.ListTenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing tenants: %w", err)
	}

	var errs error
	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		tenantCtx := j.logg.WithTenantID(ctx, tenantID.String())

		report, err := j.reporter.CheckSyncStatus(tenantCtx, tenantID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
			continue
		}
		if !report.SyncEnabled {
			j.logg.Info(tenantCtx, "sync disabled, reconciliation skipped")
			continue
		}
		if report.OutOfSync > 0 {
			statusCtx := j.logg.WithFields(tenantCtx, map[string]any{
				"out_of_sync": report.OutOfSync,
				"total_items": report.TotalItems,
			})
			j.logg.Warn(statusCtx, "tenant has items out of sync")
		}
		if err := j.settings.ProjectTenant(tenantCtx, tenantID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("tenant %s settings: %w", tenantID, err))
		}
	}
	return errs
}
