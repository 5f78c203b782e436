package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
)

// defaultDurationMinutes is the remote service duration for a full rental day.
const defaultDurationMinutes = 480

type serviceEngine interface {
	UpsertService(ctx context.Context, knownRemoteID string, svc bookingengine.Service) (*bookingengine.Service, error)
}

type projectorRepository interface {
	Find(ctx context.Context, itemID uuid.UUID) (*models.RentalItem, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.RentalItem, error)
	ListBySyncStatuses(ctx context.Context, statuses ...enums.SyncStatus) ([]models.RentalItem, error)
	UpdateSyncState(ctx context.Context, itemID uuid.UUID, state SyncStateUpdate) error
}

// Projector pushes rental items into the booking engine as services.
type Projector struct {
	repo    projectorRepository
	engine  serviceEngine
	logger  *logger.Logger
	metrics *metrics.SyncMetrics
	now     func() time.Time
}

// NewProjector builds the inventory projector.
func NewProjector(repo projectorRepository, engine serviceEngine, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Projector, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
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

// ServicePayload maps an item onto the remote service shape.
func ServicePayload(item *models.RentalItem) bookingengine.Service {
	payload := bookingengine.Service{
		ExternalID:      bookingengine.ItemExternalID(item.ID),
		Name:            item.Name,
		Category:        item.Category.Label(),
		Price:           item.EffectiveDailyRate(),
		DurationMinutes: defaultDurationMinutes,
		Quantity:        item.Quantity,
		IsActive:        item.IsActive,
	}
	if item.Description != nil {
		payload.Description = *item.Description
	}
	if item.MaxConcurrentBookings != nil {
		payload.MaxConcurrentBookings = *item.MaxConcurrentBookings
	}
	return payload
}

// ProjectItem pushes a single item remotely and records the outcome on the
// item's sync columns.
func (p *Projector) ProjectItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := p.repo.Find(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rental item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading rental item")
	}
	return p.project(ctx, item)
}

func (p *Projector) project(ctx context.Context, item *models.RentalItem) error {
	ctx = p.logger.WithItemID(ctx, item.ID.String())
	started := p.now()

	var knownRemoteID string
	if item.RemoteServiceID != nil {
		knownRemoteID = *item.RemoteServiceID
	}

	remote, err := p.engine.UpsertService(ctx, knownRemoteID, ServicePayload(item))
	p.metrics.ObserveDuration("rental_item", p.now().Sub(started))

	if errors.Is(err, bookingengine.ErrSyncDisabled) {
		return p.repo.UpdateSyncState(ctx, item.ID, SyncStateUpdate{
			Status: enums.SyncStatusNotSynced,
		})
	}
	if err != nil {
		p.metrics.IncFailure("rental_item")
		message := err.Error()
		if stateErr := p.repo.UpdateSyncState(ctx, item.ID, SyncStateUpdate{
			Status:    enums.SyncStatusFailed,
			SyncError: &message,
		}); stateErr != nil {
			p.logger.Error(ctx, "recording item sync failure", stateErr)
		}
		return pkgerrors.Wrap(pkgerrors.CodeProjection, err, "projecting rental item")
	}

	p.metrics.IncSuccess("rental_item")
	syncedAt := p.now().UTC()
	if err := p.repo.UpdateSyncState(ctx, item.ID, SyncStateUpdate{
		RemoteServiceID: &remote.ID,
		Status:          enums.SyncStatusSynced,
		SyncedAt:        &syncedAt,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording item sync state")
	}
	p.logger.Info(p.logger.WithExternalID(ctx, remote.ExternalID), "rental item projected")
	return nil
}

// ProgressFunc reports per-item projection outcomes during a bulk run.
type ProgressFunc func(itemID uuid.UUID, err error)

// BulkResult summarizes a bulk projection run.
type BulkResult struct {
	Total  int `json:"total"`
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// ProjectAll pushes every item of the tenant sequentially. Failures do not
// stop the run; they are accumulated and returned alongside the summary.
func (p *Projector) ProjectAll(ctx context.Context, tenantID uuid.UUID, onProgress ProgressFunc) (BulkResult, error) {
	items, err := p.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return BulkResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing rental items")
	}
	return p.projectBatch(ctx, items, onProgress)
}

// ProjectPending retries every item still waiting for a successful projection.
func (p *Projector) ProjectPending(ctx context.Context) (BulkResult, error) {
	items, err := p.repo.ListBySyncStatuses(ctx,
		enums.SyncStatusPending, enums.SyncStatusFailed, enums.SyncStatusOutOfSync)
	if err != nil {
		return BulkResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pending rental items")
	}
	return p.projectBatch(ctx, items, nil)
}

func (p *Projector) projectBatch(ctx context.Context, items []models.RentalItem, onProgress ProgressFunc) (BulkResult, error) {
	result := BulkResult{Total: len(items)}
	var errs error
	for i := range items {
		if ctx.Err() != nil {
			return result, multierr.Append(errs, ctx.Err())
		}
		err := p.project(ctx, &items[i])
		if err != nil {
			result.Failed++
			errs = multierr.Append(errs, err)
		} else {
			result.Synced++
		}
		if onProgress != nil {
			onProgress(items[i].ID, err)
		}
	}
	return result, errs
}
