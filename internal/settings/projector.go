package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
)

type settingsEngine interface {
	UpdateTenantSettings(ctx context.Context, remoteTenantID string, settings bookingengine.TenantSettings) error
}

type projectorTenantRepository interface {
	Find(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	MarkSettingsSynced(ctx context.Context, tenantID uuid.UUID, syncedAt time.Time) error
}

// Projector pushes tenant scheduling settings into the booking engine.
// Tenants without a remote counterpart are skipped.
type Projector struct {
	repo    projectorTenantRepository
	engine  settingsEngine
	logger  *logger.Logger
	metrics *metrics.SyncMetrics
	now     func() time.Time
}

// NewProjector builds the settings projector.
func NewProjector(repo projectorTenantRepository, engine settingsEngine, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Projector, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("booking engine client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Projector{
		repo:    repo,
		engine:  engine,
		logger:  logg,
		metrics: syncMetrics,
		now:     time.Now,
	}, nil
}

// SettingsPayload maps the tenant's scheduling columns into the remote shape.
func SettingsPayload(tenant *models.Tenant) bookingengine.TenantSettings {
	payload := bookingengine.TenantSettings{
		Timezone:          tenant.Timezone,
		OpeningTime:       tenant.OpeningTime,
		ClosingTime:       tenant.ClosingTime,
		BusinessDays:      append([]string(nil), tenant.BusinessDays...),
		SlotGranularity:   tenant.SlotGranularity,
		LeadTimeHours:     tenant.LeadTimeHours,
		BookingWindowDays: tenant.BookingWindow,
		Currency:          tenant.Currency,
		Locale:            tenant.Locale,
	}
	if tenant.CancellationPolicy != nil {
		payload.CancellationPolicy = *tenant.CancellationPolicy
	}
	return payload
}

// ProjectTenant patches the remote tenant configuration and stamps
// settings_synced_at on success.
func (p *Projector) ProjectTenant(ctx context.Context, tenantID uuid.UUID) error {
	ctx = p.logger.WithTenantID(ctx, tenantID.String())

	tenant, err := p.repo.Find(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tenant")
	}
	if tenant.RemoteTenantID == nil {
		p.logger.Info(ctx, "tenant has no remote counterpart, skipping settings projection")
		return nil
	}

	started := p.now()
	err = p.engine.UpdateTenantSettings(ctx, *tenant.RemoteTenantID, SettingsPayload(tenant))
	p.metrics.ObserveDuration("tenant_settings", p.now().Sub(started))

	if errors.Is(err, bookingengine.ErrSyncDisabled) {
		return nil
	}
	if err != nil {
		p.metrics.IncFailure("tenant_settings")
		return pkgerrors.Wrap(pkgerrors.CodeProjection, err, "projecting tenant settings")
	}

	p.metrics.IncSuccess("tenant_settings")
	if err := p.repo.MarkSettingsSynced(ctx, tenantID, p.now().UTC()); err != nil {
		return fmt.Errorf("recording settings sync time: %w", err)
	}
	p.logger.Info(ctx, "tenant settings projected")
	return nil
}
