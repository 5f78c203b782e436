package blackouts

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

type blackoutEngine interface {
	UpsertBlackout(ctx context.Context, knownRemoteID string, window bookingengine.Blackout) (*bookingengine.Blackout, error)
	DeleteBlackout(ctx context.Context, remoteID string) error
}

type itemLookup interface {
	Find(ctx context.Context, itemID uuid.UUID) (*models.RentalItem, error)
}

type projectorWindowRepository interface {
	Find(ctx context.Context, windowID uuid.UUID) (*models.BlackoutWindow, error)
	ListBySyncStatuses(ctx context.Context, statuses ...enums.SyncStatus) ([]models.BlackoutWindow, error)
	UpdateSyncState(ctx context.Context, windowID uuid.UUID, state SyncStateUpdate) error
}

// Projector mirrors blackout windows into the booking engine. Inactive
// windows are deleted remotely; active ones are upserted by external key.
type Projector struct {
	repo    projectorWindowRepository
	items   itemLookup
	engine  blackoutEngine
	logger  *logger.Logger
	metrics *metrics.SyncMetrics
	now     func() time.Time
}

// NewProjector builds the blackout projector.
func NewProjector(repo projectorWindowRepository, items itemLookup, engine blackoutEngine, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Projector, error) {
	if repo == nil {
		return nil, fmt.Errorf("window repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item lookup required")
	}
	if engine == nil {
		return nil, fmt.Errorf("booking engine client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Projector{
		repo:    repo,
		items:   items,
		engine:  engine,
		logger:  logg,
		metrics: syncMetrics,
		now:     time.Now,
	}, nil
}

// ProjectWindow pushes a single window's state remotely and records the
// outcome on its sync columns.
func (p *Projector) ProjectWindow(ctx context.Context, windowID uuid.UUID) error {
	window, err := p.repo.Find(ctx, windowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "blackout window not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading blackout window")
	}
	return p.project(ctx, window)
}

func (p *Projector) project(ctx context.Context, window *models.BlackoutWindow) error {
	ctx = p.logger.WithExternalID(ctx, window.ExternalID)
	started := p.now()

	var err error
	if window.IsActive {
		err = p.projectActive(ctx, window)
	} else {
		err = p.projectRemoved(ctx, window)
	}
	p.metrics.ObserveDuration("blackout_window", p.now().Sub(started))

	if errors.Is(err, bookingengine.ErrSyncDisabled) {
		return p.repo.UpdateSyncState(ctx, window.ID, SyncStateUpdate{
			Status: enums.SyncStatusNotSynced,
		})
	}
	if err != nil {
		p.metrics.IncFailure("blackout_window")
		message := err.Error()
		if stateErr := p.repo.UpdateSyncState(ctx, window.ID, SyncStateUpdate{
			Status:    enums.SyncStatusFailed,
			SyncError: &message,
		}); stateErr != nil {
			p.logger.Error(ctx, "recording blackout sync failure", stateErr)
		}
		return pkgerrors.Wrap(pkgerrors.CodeProjection, err, "projecting blackout window")
	}

	p.metrics.IncSuccess("blackout_window")
	return nil
}

func (p *Projector) projectActive(ctx context.Context, window *models.BlackoutWindow) error {
	payload := bookingengine.Blackout{
		ExternalID: window.ExternalID,
		StartDate:  window.StartAt.UTC().Format(time.RFC3339),
		EndDate:    window.EndAt.UTC().Format(time.RFC3339),
		Reason:     window.Reason.String(),
		IsActive:   true,
	}

	if window.RentalItemID != nil {
		item, err := p.items.Find(ctx, *window.RentalItemID)
		if err != nil {
			return fmt.Errorf("loading blackout item: %w", err)
		}
		// Without a projected service there is nothing to attach the remote
		// blackout to yet. The window stays pending until the item syncs.
		if item.RemoteServiceID == nil {
			p.logger.Info(ctx, "blackout waiting for item projection")
			return p.repo.UpdateSyncState(ctx, window.ID, SyncStateUpdate{
				Status: enums.SyncStatusPending,
			})
		}
		payload.ServiceID = *item.RemoteServiceID
	}

	var knownRemoteID string
	if window.RemoteID != nil {
		knownRemoteID = *window.RemoteID
	}
	remote, err := p.engine.UpsertBlackout(ctx, knownRemoteID, payload)
	if err != nil {
		return err
	}

	syncedAt := p.now().UTC()
	if err := p.repo.UpdateSyncState(ctx, window.ID, SyncStateUpdate{
		RemoteID: &remote.ID,
		Status:   enums.SyncStatusSynced,
		SyncedAt: &syncedAt,
	}); err != nil {
		return fmt.Errorf("recording blackout sync state: %w", err)
	}
	p.logger.Info(ctx, "blackout window projected")
	return nil
}

func (p *Projector) projectRemoved(ctx context.Context, window *models.BlackoutWindow) error {
	if window.RemoteID != nil {
		if err := p.engine.DeleteBlackout(ctx, *window.RemoteID); err != nil {
			return err
		}
	}
	syncedAt := p.now().UTC()
	if err := p.repo.UpdateSyncState(ctx, window.ID, SyncStateUpdate{
		ClearRemoteID: true,
		Status:        enums.SyncStatusSynced,
		SyncedAt:      &syncedAt,
	}); err != nil {
		return fmt.Errorf("recording blackout sync state: %w", err)
	}
	p.logger.Info(ctx, "blackout window removed remotely")
	return nil
}

// ProjectPending retries every window still waiting for a successful
// projection. Failures are accumulated, not fatal.
func (p *Projector) ProjectPending(ctx context.Context) (int, error) {
	windows, err := p.repo.ListBySyncStatuses(ctx,
		enums.SyncStatusPending, enums.SyncStatusFailed, enums.SyncStatusOutOfSync)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pending blackout windows")
	}

	var (
		synced int
		errs   error
	)
	for i := range windows {
		if ctx.Err() != nil {
			return synced, multierr.Append(errs, ctx.Err())
		}
		if err := p.project(ctx, &windows[i]); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		synced++
	}
	return synced, errs
}
