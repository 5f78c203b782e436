package settings

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type stubTenantRepo struct {
	tenants map[uuid.UUID]*models.Tenant
	updated int
}

func newStubTenantRepo(tenants ...*models.Tenant) *stubTenantRepo {
	repo := &stubTenantRepo{tenants: map[uuid.UUID]*models.Tenant{}}
	for _, tenant := range tenants {
		repo.tenants[tenant.ID] = tenant
	}
	return repo
}

func (s *stubTenantRepo) Find(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tenant, nil
}

func (s *stubTenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	s.updated++
	s.tenants[tenant.ID] = tenant
	return nil
}

type stubSettingsProjector struct {
	projected []uuid.UUID
	err       error
}

func (s *stubSettingsProjector) ProjectTenant(ctx context.Context, tenantID uuid.UUID) error {
	s.projected = append(s.projected, tenantID)
	return s.err
}

func testSettingsLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testTenant() *models.Tenant {
	return &models.Tenant{
		ID:              uuid.New(),
		BusinessName:    "Lakeside Rentals",
		Slug:            "lakeside",
		Timezone:        "America/New_York",
		OpeningTime:     "08:00",
		ClosingTime:     "18:00",
		BusinessDays:    []string{"monday", "tuesday", "wednesday"},
		SlotGranularity: 30,
		LeadTimeHours:   24,
		BookingWindow:   90,
		Currency:        "USD",
		Locale:          "en-US",
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestUpdateSettingsAppliesPartialInput(t *testing.T) {
	tenant := testTenant()
	repo := newStubTenantRepo(tenant)
	projector := &stubSettingsProjector{}
	svc, err := NewService(repo, projector, testSettingsLogger())
	require.NoError(t, err)

	dto, err := svc.UpdateSettings(context.Background(), tenant.ID, UpdateSettingsInput{
		Timezone:           strPtr("Europe/London"),
		SlotGranularity:    intPtr(15),
		Currency:           strPtr("GBP"),
		CancellationPolicy: strPtr("Full refund up to 48 hours before the rental."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", dto.Timezone)
	assert.Equal(t, 15, dto.SlotGranularity)
	assert.Equal(t, "08:00", dto.OpeningTime)
	assert.Equal(t, "GBP", dto.Currency)
	assert.Equal(t, "en-US", dto.Locale)
	require.NotNil(t, dto.CancellationPolicy)
	assert.Equal(t, "Full refund up to 48 hours before the rental.", *dto.CancellationPolicy)
	assert.Equal(t, 1, repo.updated)
	require.Len(t, projector.projected, 1)
	assert.Equal(t, tenant.ID, projector.projected[0])
}

func TestUpdateSettingsValidation(t *testing.T) {
	cases := []struct {
		name  string
		input UpdateSettingsInput
	}{
		{"unknown timezone", UpdateSettingsInput{Timezone: strPtr("Mars/Olympus")}},
		{"malformed opening time", UpdateSettingsInput{OpeningTime: strPtr("8am")}},
		{"closing before opening", UpdateSettingsInput{OpeningTime: strPtr("19:00")}},
		{"unknown business day", UpdateSettingsInput{BusinessDays: []string{"funday"}}},
		{"granularity too small", UpdateSettingsInput{SlotGranularity: intPtr(1)}},
		{"negative lead time", UpdateSettingsInput{LeadTimeHours: intPtr(-1)}},
		{"zero booking window", UpdateSettingsInput{BookingWindow: intPtr(0)}},
		{"lowercase currency", UpdateSettingsInput{Currency: strPtr("usd")}},
		{"malformed locale", UpdateSettingsInput{Locale: strPtr("english")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tenant := testTenant()
			svc, err := NewService(newStubTenantRepo(tenant), nil, testSettingsLogger())
			require.NoError(t, err)

			_, err = svc.UpdateSettings(context.Background(), tenant.ID, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestUpdateSettingsSurvivesProjectionFailure(t *testing.T) {
	tenant := testTenant()
	repo := newStubTenantRepo(tenant)
	projector := &stubSettingsProjector{err: pkgerrors.New(pkgerrors.CodeRemoteUnreachable, "remote down")}
	svc, err := NewService(repo, projector, testSettingsLogger())
	require.NoError(t, err)

	dto, err := svc.UpdateSettings(context.Background(), tenant.ID, UpdateSettingsInput{
		LeadTimeHours: intPtr(48),
	})
	require.NoError(t, err)
	assert.Equal(t, 48, dto.LeadTimeHours)
	assert.Equal(t, 1, repo.updated)
}

func TestGetSettingsNotFound(t *testing.T) {
	svc, err := NewService(newStubTenantRepo(), nil, testSettingsLogger())
	require.NoError(t, err)

	_, err = svc.GetSettings(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
