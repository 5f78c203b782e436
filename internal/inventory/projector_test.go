package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
)

type stubProjectorRepo struct {
	items  map[uuid.UUID]*models.RentalItem
	states map[uuid.UUID]SyncStateUpdate
}

func newStubProjectorRepo(items ...*models.RentalItem) *stubProjectorRepo {
	repo := &stubProjectorRepo{
		items:  map[uuid.UUID]*models.RentalItem{},
		states: map[uuid.UUID]SyncStateUpdate{},
	}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (s *stubProjectorRepo) Find(ctx context.Context, itemID uuid.UUID) (*models.RentalItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubProjectorRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.RentalItem, error) {
	var out []models.RentalItem
	for _, item := range s.items {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubProjectorRepo) ListBySyncStatuses(ctx context.Context, statuses ...enums.SyncStatus) ([]models.RentalItem, error) {
	var out []models.RentalItem
	for _, item := range s.items {
		for _, status := range statuses {
			if item.SyncStatus == status {
				out = append(out, *item)
				break
			}
		}
	}
	return out, nil
}

func (s *stubProjectorRepo) UpdateSyncState(ctx context.Context, itemID uuid.UUID, state SyncStateUpdate) error {
	s.states[itemID] = state
	return nil
}

type stubEngine struct {
	err      error
	upserted []bookingengine.Service
	remoteID string
}

func (s *stubEngine) UpsertService(ctx context.Context, knownRemoteID string, svc bookingengine.Service) (*bookingengine.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserted = append(s.upserted, svc)
	out := svc
	out.ID = s.remoteID
	return &out, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testProjector(t *testing.T, repo projectorRepository, engine serviceEngine) *Projector {
	t.Helper()
	p, err := NewProjector(repo, engine, testLogger(), metrics.NewSyncMetrics(nil))
	require.NoError(t, err)
	return p
}

func TestProjectItemRecordsRemoteIDOnSuccess(t *testing.T) {
	rate := decimal.NewFromInt(250)
	item := &models.RentalItem{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Name:      "Castle Bounce House",
		Category:  enums.ItemCategoryBounceHouse,
		DailyRate: decimal.NullDecimal{Decimal: rate, Valid: true},
		Quantity:  2,
		IsActive:  true,
	}
	repo := newStubProjectorRepo(item)
	engine := &stubEngine{remoteID: "remote-1"}

	p := testProjector(t, repo, engine)
	require.NoError(t, p.ProjectItem(context.Background(), item.ID))

	state := repo.states[item.ID]
	assert.Equal(t, enums.SyncStatusSynced, state.Status)
	require.NotNil(t, state.RemoteServiceID)
	assert.Equal(t, "remote-1", *state.RemoteServiceID)
	require.NotNil(t, state.SyncedAt)
	assert.Nil(t, state.SyncError)

	require.Len(t, engine.upserted, 1)
	payload := engine.upserted[0]
	assert.Equal(t, bookingengine.ItemExternalID(item.ID), payload.ExternalID)
	assert.True(t, payload.Price.Equal(rate))
	assert.Equal(t, defaultDurationMinutes, payload.DurationMinutes)
}

func TestProjectItemHourlyRateFallback(t *testing.T) {
	item := &models.RentalItem{
		ID:         uuid.New(),
		Name:       "Obstacle Course",
		Category:   enums.ItemCategoryObstacleCourse,
		HourlyRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(40), Valid: true},
		Quantity:   1,
		IsActive:   true,
	}
	repo := newStubProjectorRepo(item)
	engine := &stubEngine{remoteID: "remote-2"}

	p := testProjector(t, repo, engine)
	require.NoError(t, p.ProjectItem(context.Background(), item.ID))

	require.Len(t, engine.upserted, 1)
	assert.True(t, engine.upserted[0].Price.Equal(decimal.NewFromInt(320)))
}

func TestProjectItemRecordsFailure(t *testing.T) {
	item := &models.RentalItem{ID: uuid.New(), Name: "Water Slide", Quantity: 1, IsActive: true}
	repo := newStubProjectorRepo(item)
	engine := &stubEngine{err: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "booking engine unreachable")}

	p := testProjector(t, repo, engine)
	err := p.ProjectItem(context.Background(), item.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeProjection, typed.Code())

	state := repo.states[item.ID]
	assert.Equal(t, enums.SyncStatusFailed, state.Status)
	require.NotNil(t, state.SyncError)
	assert.Contains(t, *state.SyncError, "unreachable")
}

func TestProjectItemDisabledSyncIsNoop(t *testing.T) {
	item := &models.RentalItem{ID: uuid.New(), Name: "Tent", Quantity: 1, IsActive: true}
	repo := newStubProjectorRepo(item)
	engine := &stubEngine{err: bookingengine.ErrSyncDisabled}

	p := testProjector(t, repo, engine)
	require.NoError(t, p.ProjectItem(context.Background(), item.ID))
	assert.Equal(t, enums.SyncStatusNotSynced, repo.states[item.ID].Status)
}

func TestProjectAllContinuesPastFailures(t *testing.T) {
	tenantID := uuid.New()
	good := &models.RentalItem{ID: uuid.New(), TenantID: tenantID, Name: "Good", Quantity: 1, IsActive: true}
	bad := &models.RentalItem{ID: uuid.New(), TenantID: tenantID, Name: "Bad", Quantity: 1, IsActive: true}
	repo := newStubProjectorRepo(good, bad)
	engine := &failOnceEngine{failFor: bad.ID}

	p := testProjector(t, repo, engine)

	var progressed []uuid.UUID
	result, err := p.ProjectAll(context.Background(), tenantID, func(itemID uuid.UUID, itemErr error) {
		progressed = append(progressed, itemID)
	})
	require.Error(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, progressed, 2)
}

type failOnceEngine struct {
	failFor uuid.UUID
}

func (f *failOnceEngine) UpsertService(ctx context.Context, knownRemoteID string, svc bookingengine.Service) (*bookingengine.Service, error) {
	if svc.ExternalID == bookingengine.ItemExternalID(f.failFor) {
		return nil, pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "boom")
	}
	out := svc
	out.ID = "remote-" + svc.ExternalID
	return &out, nil
}
