package blackouts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/types"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingBlackoutEnqueuer struct {
	windowIDs []uuid.UUID
}

func (r *recordingBlackoutEnqueuer) EnqueueBlackoutSync(windowID uuid.UUID) bool {
	r.windowIDs = append(r.windowIDs, windowID)
	return true
}

func setupBlackoutsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	blackoutWindows := `
CREATE TABLE IF NOT EXISTS blackout_windows (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  rental_item_id TEXT,
  external_id TEXT NOT NULL UNIQUE,
  reason TEXT NOT NULL DEFAULT 'other',
  source TEXT NOT NULL DEFAULT 'manual',
  note TEXT,
  start_at DATETIME NOT NULL,
  end_at DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  remote_id TEXT,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  sync_error TEXT,
  last_synced_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	maintenanceRecords := `
CREATE TABLE IF NOT EXISTS maintenance_records (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  rental_item_id TEXT NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'scheduled',
  description TEXT,
  start_at DATETIME NOT NULL,
  end_at DATETIME NOT NULL,
  cost NUMERIC,
  completed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{blackoutWindows, maintenanceRecords} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newBlackoutService(t *testing.T, db *gorm.DB) (Service, *recordingBlackoutEnqueuer, *WindowRepository) {
	t.Helper()
	windows := NewWindowRepository(db)
	maintenance := NewMaintenanceRepository(db)
	queue := &recordingBlackoutEnqueuer{}
	svc, err := NewService(testTxRunner{db: db}, windows, maintenance, queue)
	require.NoError(t, err)
	return svc, queue, windows
}

func period(t *testing.T, start, end string) types.Period {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	p, err := types.NewPeriod(s, e)
	require.NoError(t, err)
	return p
}

func TestCreateBlackoutAssignsExternalIDAndEnqueues(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, queue, _ := newBlackoutService(t, db)
	tenantID := uuid.New()
	itemID := uuid.New()

	dto, err := svc.CreateBlackout(context.Background(), tenantID, CreateBlackoutInput{
		RentalItemID: &itemID,
		Reason:       enums.BlackoutReasonSeasonal,
		Period:       period(t, "2026-12-20T00:00:00Z", "2027-01-05T00:00:00Z"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dto.ExternalID, "rentable-blackout-"))
	assert.Equal(t, enums.BlackoutSourceManual, dto.Source)
	assert.Equal(t, enums.SyncStatusPending, dto.SyncStatus)
	assert.True(t, dto.IsActive)
	require.Len(t, queue.windowIDs, 1)
	assert.Equal(t, dto.ID, queue.windowIDs[0])
}

func TestCreateBlackoutRejectsInvertedInterval(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, _ := newBlackoutService(t, db)

	start, _ := time.Parse(time.RFC3339, "2026-06-02T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-06-01T00:00:00Z")
	_, err := svc.CreateBlackout(context.Background(), uuid.New(), CreateBlackoutInput{
		Period: types.Period{Start: start, End: end},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidInterval, pkgerrors.As(err).Code())
}

func TestScheduleMaintenanceMaterializesDerivedWindow(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, queue, windows := newBlackoutService(t, db)
	tenantID := uuid.New()
	itemID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: itemID,
		Type:         enums.MaintenanceTypeRepair,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MaintenanceStatusScheduled, dto.Status)

	window, err := windows.FindByExternalID(context.Background(), "rentable-maintenance-"+dto.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enums.BlackoutSourceMaintenance, window.Source)
	assert.Equal(t, enums.BlackoutReasonMaintenance, window.Reason)
	require.NotNil(t, window.RentalItemID)
	assert.Equal(t, itemID, *window.RentalItemID)
	assert.True(t, window.IsActive)
	assert.True(t, window.StartAt.Equal(dto.StartAt))
	assert.True(t, window.EndAt.Equal(dto.EndAt))
	require.Len(t, queue.windowIDs, 1)
	assert.Equal(t, window.ID, queue.windowIDs[0])
}

func TestCompleteMaintenanceTrimsDerivedWindow(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, queue, windows := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeInspection,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	doneAt, _ := time.Parse(time.RFC3339, "2026-06-11T10:00:00Z")
	completed, err := svc.CompleteMaintenance(context.Background(), tenantID, dto.ID, &doneAt)
	require.NoError(t, err)
	assert.Equal(t, enums.MaintenanceStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	window, err := windows.FindByExternalID(context.Background(), "rentable-maintenance-"+dto.ID.String())
	require.NoError(t, err)
	assert.True(t, window.IsActive)
	assert.True(t, window.EndAt.Equal(doneAt))
	assert.Equal(t, enums.SyncStatusPending, window.SyncStatus)
	assert.Len(t, queue.windowIDs, 2)
}

func TestCompleteMaintenanceBeforeStartDeactivatesWindow(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, windows := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeCleaning,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	doneAt, _ := time.Parse(time.RFC3339, "2026-06-09T12:00:00Z")
	_, err = svc.CompleteMaintenance(context.Background(), tenantID, dto.ID, &doneAt)
	require.NoError(t, err)

	window, err := windows.FindByExternalID(context.Background(), "rentable-maintenance-"+dto.ID.String())
	require.NoError(t, err)
	assert.False(t, window.IsActive)
}

func TestCancelMaintenanceDeactivatesDerivedWindow(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, windows := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeRepair,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelMaintenance(context.Background(), tenantID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MaintenanceStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	window, err := windows.FindByExternalID(context.Background(), "rentable-maintenance-"+dto.ID.String())
	require.NoError(t, err)
	assert.False(t, window.IsActive)
	assert.Equal(t, enums.SyncStatusPending, window.SyncStatus)
}

func TestMaintenanceLifecycleGuards(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, _ := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeRepair,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	started, err := svc.StartMaintenance(context.Background(), tenantID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MaintenanceStatusInProgress, started.Status)

	// Starting twice is a conflict.
	_, err = svc.StartMaintenance(context.Background(), tenantID, dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	_, err = svc.CancelMaintenance(context.Background(), tenantID, dto.ID)
	require.NoError(t, err)

	// Completed/cancelled records cannot be completed or cancelled again.
	_, err = svc.CompleteMaintenance(context.Background(), tenantID, dto.ID, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateBlackoutRejectsDerivedWindows(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, windows := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.ScheduleMaintenance(context.Background(), tenantID, ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeRepair,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	window, err := windows.FindByExternalID(context.Background(), "rentable-maintenance-"+dto.ID.String())
	require.NoError(t, err)

	active := false
	_, err = svc.UpdateBlackout(context.Background(), tenantID, window.ID, UpdateBlackoutInput{IsActive: &active})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestDeactivateBlackoutMarksPending(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, queue, _ := newBlackoutService(t, db)
	tenantID := uuid.New()

	dto, err := svc.CreateBlackout(context.Background(), tenantID, CreateBlackoutInput{
		Reason: enums.BlackoutReasonHoliday,
		Period: period(t, "2026-07-04T00:00:00Z", "2026-07-05T00:00:00Z"),
	})
	require.NoError(t, err)

	updated, err := svc.DeactivateBlackout(context.Background(), tenantID, dto.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, enums.SyncStatusPending, updated.SyncStatus)
	assert.Len(t, queue.windowIDs, 2)
}

func TestMaintenanceNotFoundScopedToTenant(t *testing.T) {
	db := setupBlackoutsTestDB(t)
	svc, _, _ := newBlackoutService(t, db)

	dto, err := svc.ScheduleMaintenance(context.Background(), uuid.New(), ScheduleMaintenanceInput{
		RentalItemID: uuid.New(),
		Type:         enums.MaintenanceTypeRepair,
		Period:       period(t, "2026-06-10T08:00:00Z", "2026-06-12T18:00:00Z"),
	})
	require.NoError(t, err)

	_, err = svc.GetMaintenance(context.Background(), uuid.New(), dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
