package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rentable/rentable-backend/internal/availability"
	"github.com/rentable/rentable-backend/internal/blackouts"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/internal/reconcile"
	"github.com/rentable/rentable-backend/internal/reservations"
	"github.com/rentable/rentable-backend/internal/settings"
	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/config"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type fakeEngine struct{}

func (fakeEngine) UpsertService(_ context.Context, _ string, svc bookingengine.Service) (*bookingengine.Service, error) {
	return &svc, nil
}

func (fakeEngine) UpsertBlackout(_ context.Context, _ string, window bookingengine.Blackout) (*bookingengine.Blackout, error) {
	return &window, nil
}

func (fakeEngine) DeleteBlackout(context.Context, string) error { return nil }

func (fakeEngine) DeleteService(context.Context, string) error { return nil }

func (fakeEngine) UpdateTenantSettings(context.Context, string, bookingengine.TenantSettings) error {
	return nil
}

func (fakeEngine) ListServices(context.Context) ([]bookingengine.Service, error) {
	return nil, bookingengine.ErrSyncDisabled
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type noopEnqueuer struct{}

func (noopEnqueuer) EnqueueItemSync(uuid.UUID) bool     { return true }
func (noopEnqueuer) EnqueueBlackoutSync(uuid.UUID) bool { return true }

type testTxRunner struct{ db *gorm.DB }

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

const routerTestSchema = `
CREATE TABLE rental_items (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL DEFAULT 'other',
  daily_rate NUMERIC,
  hourly_rate NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 1,
  max_concurrent_bookings INTEGER,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  external_id TEXT,
  remote_service_id TEXT,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  sync_error TEXT,
  last_synced_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(routerTestSchema).Error)

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	engine := fakeEngine{}

	itemRepo := inventory.NewRepository(db)
	windowRepo := blackouts.NewWindowRepository(db)
	maintenanceRepo := blackouts.NewMaintenanceRepository(db)
	tenantRepo := settings.NewRepository(db)

	inventoryProjector, err := inventory.NewProjector(itemRepo, engine, logg, nil)
	require.NoError(t, err)
	blackoutProjector, err := blackouts.NewProjector(windowRepo, itemRepo, engine, logg, nil)
	require.NoError(t, err)
	settingsProjector, err := settings.NewProjector(tenantRepo, engine, logg, nil)
	require.NoError(t, err)
	reporter, err := reconcile.NewReporter(itemRepo, windowRepo, engine, logg)
	require.NoError(t, err)

	availabilityService, err := availability.NewService(availability.NewRepository(db))
	require.NoError(t, err)
	inventoryService, err := inventory.NewService(itemRepo, noopEnqueuer{}, engine, logg)
	require.NoError(t, err)
	reservationService, err := reservations.NewService(testTxRunner{db}, reservations.NewRepository(db))
	require.NoError(t, err)
	blackoutService, err := blackouts.NewService(testTxRunner{db}, windowRepo, maintenanceRepo, noopEnqueuer{})
	require.NoError(t, err)
	settingsService, err := settings.NewService(tenantRepo, settingsProjector, logg)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:             &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:             logg,
		DB:                 fakePinger{},
		Availability:       availabilityService,
		Inventory:          inventoryService,
		Reservations:       reservationService,
		Blackouts:          blackoutService,
		Settings:           settingsService,
		Reporter:           reporter,
		InventoryProjector: inventoryProjector,
		BlackoutProjector:  blackoutProjector,
		SettingsProjector:  settingsProjector,
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Rentable-Env"))
}

func TestRouterServesMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRequiresTenantHeader(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterListItemsWithTenantHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("X-Tenant-Id", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
