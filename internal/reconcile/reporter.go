package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type servicesLister interface {
	ListServices(ctx context.Context) ([]bookingengine.Service, error)
}

type itemRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.RentalItem, error)
}

type windowRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.BlackoutWindow, error)
}

// Reporter compares the local inventory against the booking engine and flags
// drifted items in its report. One remote list call serves the whole run, and
// nothing is written back.
type Reporter struct {
	items   itemRepository
	windows windowRepository
	engine  servicesLister
	logger  *logger.Logger
	now     func() time.Time
}

// NewReporter builds the reconciliation reporter.
func NewReporter(items itemRepository, windows windowRepository, engine servicesLister, logg *logger.Logger) (*Reporter, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if windows == nil {
		return nil, fmt.Errorf("window repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("booking engine client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reporter{
		items:   items,
		windows: windows,
		engine:  engine,
		logger:  logg,
		now:     time.Now,
	}, nil
}

// FieldDrift records one remote field disagreeing with its local value.
type FieldDrift struct {
	Field  string `json:"field"`
	Local  string `json:"local"`
	Remote string `json:"remote"`
}

// ItemStatus is the per-item verdict of a reconciliation run.
type ItemStatus struct {
	ItemID          uuid.UUID        `json:"item_id"`
	Name            string           `json:"name"`
	ExternalID      string           `json:"external_id"`
	SyncStatus      enums.SyncStatus `json:"sync_status"`
	SyncError       *string          `json:"sync_error,omitempty"`
	LastSyncedAt    *time.Time       `json:"last_synced_at,omitempty"`
	MissingRemotely bool             `json:"missing_remotely,omitempty"`
	Drift           []FieldDrift     `json:"drift,omitempty"`
}

// WindowStatus summarizes one blackout window's sync state.
type WindowStatus struct {
	WindowID     uuid.UUID        `json:"window_id"`
	ExternalID   string           `json:"external_id"`
	IsActive     bool             `json:"is_active"`
	SyncStatus   enums.SyncStatus `json:"sync_status"`
	SyncError    *string          `json:"sync_error,omitempty"`
	LastSyncedAt *time.Time       `json:"last_synced_at,omitempty"`
}

// Report is the outcome of a reconciliation run.
type Report struct {
	CheckedAt      time.Time      `json:"checked_at"`
	SyncEnabled    bool           `json:"sync_enabled"`
	TotalItems     int            `json:"total_items"`
	InSync         int            `json:"in_sync"`
	OutOfSync      int            `json:"out_of_sync"`
	Unsynced       int            `json:"unsynced"`
	Items          []ItemStatus   `json:"items"`
	TotalWindows   int            `json:"total_windows"`
	WindowsPending int            `json:"windows_pending"`
	WindowsFailed  int            `json:"windows_failed"`
	Windows        []WindowStatus `json:"windows"`
}

// CheckSyncStatus diffs every synced item against its remote service. The run
// is read-only: drifted and missing items are reported out_of_sync but never
// written back, so it is safe at any call frequency. Re-projection happens
// through an explicit resync.
func (r *Reporter) CheckSyncStatus(ctx context.Context, tenantID uuid.UUID) (*Report, error) {
	ctx = r.logger.WithTenantID(ctx, tenantID.String())

	items, err := r.items.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing rental items")
	}
	windows, err := r.windows.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing blackout windows")
	}

	report := &Report{
		CheckedAt:   r.now().UTC(),
		SyncEnabled: true,
		TotalItems:  len(items),
		Items:       make([]ItemStatus, 0, len(items)),
		Windows:     make([]WindowStatus, 0, len(windows)),
	}

	remote := map[string]bookingengine.Service{}
	services, err := r.engine.ListServices(ctx)
	switch {
	case errors.Is(err, bookingengine.ErrSyncDisabled):
		report.SyncEnabled = false
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeProjection, err, "listing remote services")
	default:
		for _, svc := range services {
			if bookingengine.IsOwnedExternalID(svc.ExternalID) {
				remote[svc.ExternalID] = svc
			}
		}
	}

	for i := range items {
		status := r.itemStatus(&items[i], remote, report.SyncEnabled)
		switch {
		case status.SyncStatus == enums.SyncStatusSynced:
			report.InSync++
		case status.SyncStatus == enums.SyncStatusOutOfSync:
			report.OutOfSync++
		default:
			report.Unsynced++
		}
		report.Items = append(report.Items, status)
	}

	report.TotalWindows = len(windows)
	for i := range windows {
		window := &windows[i]
		switch window.SyncStatus {
		case enums.SyncStatusPending:
			report.WindowsPending++
		case enums.SyncStatusFailed:
			report.WindowsFailed++
		}
		report.Windows = append(report.Windows, WindowStatus{
			WindowID:     window.ID,
			ExternalID:   window.ExternalID,
			IsActive:     window.IsActive,
			SyncStatus:   window.SyncStatus,
			SyncError:    window.SyncError,
			LastSyncedAt: window.LastSyncedAt,
		})
	}
	return report, nil
}

func (r *Reporter) itemStatus(item *models.RentalItem, remote map[string]bookingengine.Service, syncEnabled bool) ItemStatus {
	status := ItemStatus{
		ItemID:       item.ID,
		Name:         item.Name,
		ExternalID:   bookingengine.ItemExternalID(item.ID),
		SyncStatus:   item.SyncStatus,
		SyncError:    item.SyncError,
		LastSyncedAt: item.LastSyncedAt,
	}

	// Drift only makes sense for items both sides believe are synced.
	if !syncEnabled || item.SyncStatus != enums.SyncStatusSynced {
		return status
	}

	svc, ok := remote[status.ExternalID]
	if !ok {
		status.MissingRemotely = true
		status.SyncStatus = enums.SyncStatusOutOfSync
		return status
	}

	status.Drift = diffService(item, svc)
	if len(status.Drift) > 0 {
		status.SyncStatus = enums.SyncStatusOutOfSync
	}
	return status
}

// diffService compares the four projected fields the booking engine is
// allowed to disagree on: name, price, active flag, and quantity.
func diffService(item *models.RentalItem, svc bookingengine.Service) []FieldDrift {
	var drift []FieldDrift
	if item.Name != svc.Name {
		drift = append(drift, FieldDrift{Field: "name", Local: item.Name, Remote: svc.Name})
	}
	localPrice := item.EffectiveDailyRate()
	if !localPrice.Equal(svc.Price) {
		drift = append(drift, FieldDrift{Field: "price", Local: localPrice.String(), Remote: svc.Price.String()})
	}
	if item.IsActive != svc.IsActive {
		drift = append(drift, FieldDrift{
			Field:  "is_active",
			Local:  strconv.FormatBool(item.IsActive),
			Remote: strconv.FormatBool(svc.IsActive),
		})
	}
	if item.Quantity != svc.Quantity {
		drift = append(drift, FieldDrift{
			Field:  "quantity",
			Local:  strconv.Itoa(item.Quantity),
			Remote: strconv.Itoa(svc.Quantity),
		})
	}
	return drift
}
