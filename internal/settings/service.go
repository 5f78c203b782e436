package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/db/models"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type tenantRepository interface {
	Find(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
}

type tenantProjector interface {
	ProjectTenant(ctx context.Context, tenantID uuid.UUID) error
}

// Service reads and mutates tenant scheduling settings. Every successful
// update triggers a best-effort projection into the booking engine.
type Service interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*SettingsDTO, error)
	UpdateSettings(ctx context.Context, tenantID uuid.UUID, input UpdateSettingsInput) (*SettingsDTO, error)
}

type service struct {
	repo      tenantRepository
	projector tenantProjector
	logger    *logger.Logger
}

// NewService builds the settings service. The projector may be nil when the
// deployment has no booking engine configured.
func NewService(repo tenantRepository, projector tenantProjector, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, projector: projector, logger: logg}, nil
}

// UpdateSettingsInput carries the mutable scheduling fields. Nil fields are
// left untouched.
type UpdateSettingsInput struct {
	Timezone           *string
	OpeningTime        *string
	ClosingTime        *string
	BusinessDays       []string
	SlotGranularity    *int
	LeadTimeHours      *int
	BookingWindow      *int
	Currency           *string
	Locale             *string
	CancellationPolicy *string
}

const maxCancellationPolicyLen = 2000

var (
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	localePattern   = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

var validBusinessDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func (s *service) GetSettings(ctx context.Context, tenantID uuid.UUID) (*SettingsDTO, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return FromModel(tenant), nil
}

func (s *service) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input UpdateSettingsInput) (*SettingsDTO, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown timezone %q", *input.Timezone))
		}
		tenant.Timezone = *input.Timezone
	}
	if input.OpeningTime != nil {
		if !clockPattern.MatchString(*input.OpeningTime) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening time must be HH:MM")
		}
		tenant.OpeningTime = *input.OpeningTime
	}
	if input.ClosingTime != nil {
		if !clockPattern.MatchString(*input.ClosingTime) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing time must be HH:MM")
		}
		tenant.ClosingTime = *input.ClosingTime
	}
	if tenant.OpeningTime >= tenant.ClosingTime {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening time must precede closing time")
	}
	if input.BusinessDays != nil {
		for _, day := range input.BusinessDays {
			if !validBusinessDays[day] {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown business day %q", day))
			}
		}
		tenant.BusinessDays = input.BusinessDays
	}
	if input.SlotGranularity != nil {
		if *input.SlotGranularity < 5 || *input.SlotGranularity > 1440 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot granularity must be between 5 and 1440 minutes")
		}
		tenant.SlotGranularity = *input.SlotGranularity
	}
	if input.LeadTimeHours != nil {
		if *input.LeadTimeHours < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead time cannot be negative")
		}
		tenant.LeadTimeHours = *input.LeadTimeHours
	}
	if input.BookingWindow != nil {
		if *input.BookingWindow < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking window must be at least 1 day")
		}
		tenant.BookingWindow = *input.BookingWindow
	}
	if input.Currency != nil {
		if !currencyPattern.MatchString(*input.Currency) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must be a three-letter ISO 4217 code")
		}
		tenant.Currency = *input.Currency
	}
	if input.Locale != nil {
		if !localePattern.MatchString(*input.Locale) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed locale %q", *input.Locale))
		}
		tenant.Locale = *input.Locale
	}
	if input.CancellationPolicy != nil {
		if len(*input.CancellationPolicy) > maxCancellationPolicyLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation policy is too long")
		}
		tenant.CancellationPolicy = input.CancellationPolicy
	}

	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating tenant settings")
	}

	// The local update is the source of truth. A failed projection is
	// retried on the next settings sync, not surfaced to the caller.
	if s.projector != nil {
		if err := s.projector.ProjectTenant(ctx, tenantID); err != nil {
			s.logger.Error(s.logger.WithTenantID(ctx, tenantID.String()), "projecting tenant settings", err)
		}
	}
	return FromModel(tenant), nil
}

func (s *service) findTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.repo.Find(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tenant")
	}
	return tenant, nil
}
