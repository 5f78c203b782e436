package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	"github.com/rentable/rentable-backend/pkg/pagination"
)

func seedReservation(t *testing.T, db *gorm.DB, tenantID, itemID uuid.UUID, status enums.ReservationStatus, start, end time.Time) *models.Reservation {
	t.Helper()
	reservation := &models.Reservation{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: itemID,
		CustomerName: "Ada",
		StartAt:      start,
		EndAt:        end,
		Quantity:     1,
		Status:       status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

func TestRepositoryListByTenantFiltersByItem(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	wanted := seedReservation(t, db, tenantID, itemA, enums.ReservationStatusPending, start, start.Add(48*time.Hour))
	seedReservation(t, db, tenantID, itemB, enums.ReservationStatusPending, start, start.Add(48*time.Hour))

	reservations, err := repo.ListByTenant(context.Background(), tenantID, &itemA, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, wanted.ID, reservations[0].ID)

	all, err := repo.ListByTenant(context.Background(), tenantID, nil, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryListByTenantPagesWithCursor(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	itemID := uuid.New()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	var seeded []*models.Reservation
	for i := 0; i < 3; i++ {
		reservation := seedReservation(t, db, tenantID, itemID, enums.ReservationStatusPending,
			start.Add(time.Duration(i)*24*time.Hour), start.Add(time.Duration(i+2)*24*time.Hour))
		createdAt := start.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Model(reservation).Update("created_at", createdAt).Error)
		reservation.CreatedAt = createdAt
		seeded = append(seeded, reservation)
	}

	// first page holds the two newest rows plus the buffer row
	firstPage, err := repo.ListByTenant(context.Background(), tenantID, nil, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 3)
	assert.Equal(t, seeded[2].ID, firstPage[0].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: firstPage[1].CreatedAt,
		ID:        firstPage[1].ID,
	})
	secondPage, err := repo.ListByTenant(context.Background(), tenantID, nil, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, seeded[0].ID, secondPage[0].ID)
}

func TestRepositoryListUpcomingSkipsFinishedAndCancelled(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	itemID := uuid.New()
	cutoff := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	upcoming := seedReservation(t, db, tenantID, itemID, enums.ReservationStatusConfirmed,
		cutoff.Add(24*time.Hour), cutoff.Add(72*time.Hour))
	seedReservation(t, db, tenantID, itemID, enums.ReservationStatusCancelled,
		cutoff.Add(24*time.Hour), cutoff.Add(72*time.Hour))
	seedReservation(t, db, tenantID, itemID, enums.ReservationStatusCompleted,
		cutoff.Add(-96*time.Hour), cutoff.Add(-48*time.Hour))

	reservations, err := repo.ListUpcoming(context.Background(), tenantID, cutoff)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, upcoming.ID, reservations[0].ID)
}
