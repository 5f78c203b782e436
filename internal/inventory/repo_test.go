package inventory

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

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newItem(tenantID uuid.UUID, name string) *models.RentalItem {
	return &models.RentalItem{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       name,
		Category:   enums.ItemCategoryBounceHouse,
		Quantity:   2,
		IsActive:   true,
		SyncStatus: enums.SyncStatusPending,
	}
}

func TestUpdateSyncStateOnlyTouchesSyncColumns(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newItem(tenantID, "Castle Bounce House")
	require.NoError(t, repo.Create(ctx, item))

	// Simulate a concurrent rename between load and sync-state write.
	require.NoError(t, db.Model(&models.RentalItem{}).
		Where("id = ?", item.ID).
		Update("name", "Renamed Castle").Error)

	remoteID := "remote-1"
	syncedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateSyncState(ctx, item.ID, SyncStateUpdate{
		RemoteServiceID: &remoteID,
		Status:          enums.SyncStatusSynced,
		SyncedAt:        &syncedAt,
	}))

	reloaded, err := repo.Find(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Castle", reloaded.Name)
	assert.Equal(t, enums.SyncStatusSynced, reloaded.SyncStatus)
	require.NotNil(t, reloaded.RemoteServiceID)
	assert.Equal(t, "remote-1", *reloaded.RemoteServiceID)
	require.NotNil(t, reloaded.LastSyncedAt)
	assert.Nil(t, reloaded.SyncError)
}

func TestUpdateSyncStateRecordsFailure(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := newItem(uuid.New(), "Water Slide")
	require.NoError(t, repo.Create(ctx, item))

	message := "booking engine POST /api/services returned 500"
	require.NoError(t, repo.UpdateSyncState(ctx, item.ID, SyncStateUpdate{
		Status:    enums.SyncStatusFailed,
		SyncError: &message,
	}))

	reloaded, err := repo.Find(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SyncStatusFailed, reloaded.SyncStatus)
	require.NotNil(t, reloaded.SyncError)
	assert.Equal(t, message, *reloaded.SyncError)
	assert.Nil(t, reloaded.RemoteServiceID)
}

func TestListBySyncStatuses(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	pending := newItem(tenantID, "Pending Item")
	require.NoError(t, repo.Create(ctx, pending))

	synced := newItem(tenantID, "Synced Item")
	synced.SyncStatus = enums.SyncStatusSynced
	require.NoError(t, repo.Create(ctx, synced))

	failed := newItem(tenantID, "Failed Item")
	failed.SyncStatus = enums.SyncStatusFailed
	require.NoError(t, repo.Create(ctx, failed))

	items, err := repo.ListBySyncStatuses(ctx, enums.SyncStatusPending, enums.SyncStatusFailed)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.NotEqual(t, enums.SyncStatusSynced, it.SyncStatus)
	}
}

func TestDeleteScopedToTenant(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newItem(tenantID, "Combo Unit")
	require.NoError(t, repo.Create(ctx, item))

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), item.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, tenantID, item.ID))
	_, err := repo.Find(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
