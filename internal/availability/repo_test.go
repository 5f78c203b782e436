package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
)

func setupAvailabilityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	rentalItems := `
CREATE TABLE IF NOT EXISTS rental_items (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL DEFAULT 'other',
  daily_rate NUMERIC,
  hourly_rate NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 1,
  max_concurrent_bookings INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  remote_service_id TEXT,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  sync_error TEXT,
  last_synced_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	reservations := `
CREATE TABLE IF NOT EXISTS reservations (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  rental_item_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  customer_phone TEXT,
  start_at DATETIME NOT NULL,
  end_at DATETIME NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price NUMERIC,
  notes TEXT,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
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

	for _, stmt := range []string{rentalItems, reservations, blackoutWindows} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func seedItem(t *testing.T, db *gorm.DB, tenantID uuid.UUID, quantity int, active bool) *models.RentalItem {
	t.Helper()
	item := &models.RentalItem{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Castle Bounce House",
		Quantity: quantity,
		IsActive: active,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedReservation(t *testing.T, db *gorm.DB, tenantID, itemID uuid.UUID, start, end time.Time, qty int, status enums.ReservationStatus) *models.Reservation {
	t.Helper()
	res := &models.Reservation{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: itemID,
		CustomerName: "Jordan Smith",
		StartAt:      start,
		EndAt:        end,
		Quantity:     qty,
		Status:       status,
	}
	require.NoError(t, db.Create(res).Error)
	return res
}

func seedBlackout(t *testing.T, db *gorm.DB, tenantID uuid.UUID, itemID *uuid.UUID, start, end time.Time, active bool) *models.BlackoutWindow {
	t.Helper()
	window := &models.BlackoutWindow{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: itemID,
		ExternalID:   "rentable-blackout-" + uuid.NewString(),
		Reason:       enums.BlackoutReasonMaintenance,
		Source:       enums.BlackoutSourceManual,
		StartAt:      start,
		EndAt:        end,
		IsActive:     active,
	}
	require.NoError(t, db.Create(window).Error)
	return window
}

func TestOverlappingReservationsExcludesTouchingAndInactive(t *testing.T) {
	db := setupAvailabilityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	item := seedItem(t, db, tenantID, 2, true)

	windowStart := ts(t, "2026-06-01T10:00:00Z")
	windowEnd := ts(t, "2026-06-01T14:00:00Z")

	overlapping := seedReservation(t, db, tenantID, item.ID,
		ts(t, "2026-06-01T12:00:00Z"), ts(t, "2026-06-01T16:00:00Z"), 1, enums.ReservationStatusConfirmed)
	// Ends exactly when the window starts: half-open, no overlap.
	seedReservation(t, db, tenantID, item.ID,
		ts(t, "2026-06-01T08:00:00Z"), ts(t, "2026-06-01T10:00:00Z"), 1, enums.ReservationStatusConfirmed)
	// Starts exactly when the window ends.
	seedReservation(t, db, tenantID, item.ID,
		ts(t, "2026-06-01T14:00:00Z"), ts(t, "2026-06-01T18:00:00Z"), 1, enums.ReservationStatusConfirmed)
	// Overlapping but cancelled/completed.
	seedReservation(t, db, tenantID, item.ID,
		ts(t, "2026-06-01T11:00:00Z"), ts(t, "2026-06-01T13:00:00Z"), 1, enums.ReservationStatusCancelled)
	seedReservation(t, db, tenantID, item.ID,
		ts(t, "2026-06-01T11:00:00Z"), ts(t, "2026-06-01T13:00:00Z"), 1, enums.ReservationStatusCompleted)

	found, err := repo.OverlappingReservations(ctx, item.ID, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overlapping.ID, found[0].ID)
}

func TestOverlappingBlackoutsIncludesTenantWideWindows(t *testing.T) {
	db := setupAvailabilityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	item := seedItem(t, db, tenantID, 2, true)
	otherItem := seedItem(t, db, tenantID, 1, true)

	windowStart := ts(t, "2026-07-04T08:00:00Z")
	windowEnd := ts(t, "2026-07-04T20:00:00Z")

	itemScoped := seedBlackout(t, db, tenantID, &item.ID,
		ts(t, "2026-07-04T10:00:00Z"), ts(t, "2026-07-04T12:00:00Z"), true)
	tenantWide := seedBlackout(t, db, tenantID, nil,
		ts(t, "2026-07-04T00:00:00Z"), ts(t, "2026-07-05T00:00:00Z"), true)
	// Other item's window and a deactivated window should not match.
	seedBlackout(t, db, tenantID, &otherItem.ID,
		ts(t, "2026-07-04T10:00:00Z"), ts(t, "2026-07-04T12:00:00Z"), true)
	seedBlackout(t, db, tenantID, &item.ID,
		ts(t, "2026-07-04T10:00:00Z"), ts(t, "2026-07-04T12:00:00Z"), false)

	found, err := repo.OverlappingBlackouts(ctx, tenantID, item.ID, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, found, 2)
	ids := []uuid.UUID{found[0].ID, found[1].ID}
	assert.Contains(t, ids, itemScoped.ID)
	assert.Contains(t, ids, tenantWide.ID)
}

func TestFindItemScopedToTenant(t *testing.T) {
	db := setupAvailabilityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	item := seedItem(t, db, tenantID, 2, true)

	found, err := repo.FindItem(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	_, err = repo.FindItem(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
