package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type itemSweeper interface {
	ProjectPending(ctx context.Context) (inventory.BulkResult, error)
}

type windowSweeper interface {
	ProjectPending(ctx context.Context) (int, error)
}

type ProjectionSweepJobParams struct {
	Logger  *logger.Logger
	Items   itemSweeper
	Windows windowSweeper
}

// NewProjectionSweepJob builds the job that pushes every pending or failed
// rental item and blackout window to the booking engine. It is the retry
// path for projections the in-process queue dropped or failed.
func NewProjectionSweepJob(params ProjectionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item projector required")
	}
	if params.Windows == nil {
		return nil, fmt.Errorf("window projector required")
	}
	return &projectionSweepJob{
		logg:    params.Logger,
		items:   params.Items,
		windows: params.Windows,
	}, nil
}

type projectionSweepJob struct {
	logg    *logger.Logger
	items   itemSweeper
	windows windowSweeper
}

func (j *projectionSweepJob) Name() string {
	return "projection_sweep"
}

func (j *projectionSweepJob) Run(ctx context.Context) error {
	var errs error

	itemResult, err := j.items.ProjectPending(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("item sweep: %w", err))
	}
	windowsSynced, err := j.windows.ProjectPending(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("blackout sweep: %w", err))
	}

	sweepCtx := j.logg.WithFields(ctx, map[string]any{
		"items_synced":     itemResult.Synced,
		"items_failed":     itemResult.Failed,
		"blackouts_synced": windowsSynced,
	})
	j.logg.Info(sweepCtx, "projection sweep finished")
	return errs
}
