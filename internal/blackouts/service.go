package blackouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type windowRepository interface {
	Create(ctx context.Context, window *models.BlackoutWindow) error
	CreateWithTx(tx *gorm.DB, window *models.BlackoutWindow) error
	FindByID(ctx context.Context, tenantID, windowID uuid.UUID) (*models.BlackoutWindow, error)
	FindByExternalIDWithTx(tx *gorm.DB, externalID string) (*models.BlackoutWindow, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.BlackoutWindow, error)
	Update(ctx context.Context, window *models.BlackoutWindow) error
	UpdateWithTx(tx *gorm.DB, window *models.BlackoutWindow) error
}

type maintenanceRepository interface {
	CreateWithTx(tx *gorm.DB, record *models.MaintenanceRecord) error
	FindByID(ctx context.Context, tenantID, recordID uuid.UUID) (*models.MaintenanceRecord, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.MaintenanceRecord, error)
	ListByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]models.MaintenanceRecord, error)
	UpdateWithTx(tx *gorm.DB, record *models.MaintenanceRecord) error
}

// Enqueuer schedules a background projection for a blackout window.
type Enqueuer interface {
	EnqueueBlackoutSync(windowID uuid.UUID) bool
}

// Service manages blackout windows and the maintenance records that derive
// them. A maintenance record in a blocking state always has a matching local
// window, written in the same transaction, so availability checks see it
// immediately.
type Service interface {
	CreateBlackout(ctx context.Context, tenantID uuid.UUID, input CreateBlackoutInput) (*BlackoutDTO, error)
	GetBlackout(ctx context.Context, tenantID, windowID uuid.UUID) (*BlackoutDTO, error)
	ListBlackouts(ctx context.Context, tenantID uuid.UUID) ([]BlackoutDTO, error)
	UpdateBlackout(ctx context.Context, tenantID, windowID uuid.UUID, input UpdateBlackoutInput) (*BlackoutDTO, error)
	DeactivateBlackout(ctx context.Context, tenantID, windowID uuid.UUID) (*BlackoutDTO, error)

	ScheduleMaintenance(ctx context.Context, tenantID uuid.UUID, input ScheduleMaintenanceInput) (*MaintenanceDTO, error)
	GetMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error)
	ListMaintenance(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID) ([]MaintenanceDTO, error)
	StartMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error)
	CompleteMaintenance(ctx context.Context, tenantID, recordID uuid.UUID, completedAt *time.Time) (*MaintenanceDTO, error)
	CancelMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error)
}

type service struct {
	tx          txRunner
	windows     windowRepository
	maintenance maintenanceRepository
	queue       Enqueuer
	now         func() time.Time
}

// NewService builds the blackout service.
func NewService(tx txRunner, windows windowRepository, maintenance maintenanceRepository, queue Enqueuer) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if windows == nil {
		return nil, fmt.Errorf("window repository required")
	}
	if maintenance == nil {
		return nil, fmt.Errorf("maintenance repository required")
	}
	if queue == nil {
		return nil, fmt.Errorf("sync enqueuer required")
	}
	return &service{
		tx:          tx,
		windows:     windows,
		maintenance: maintenance,
		queue:       queue,
		now:         time.Now,
	}, nil
}

// CreateBlackoutInput captures the fields for a manual blackout window.
type CreateBlackoutInput struct {
	RentalItemID *uuid.UUID
	Reason       enums.BlackoutReason
	Note         *string
	Period       types.Period
}

// UpdateBlackoutInput captures the allowed window fields for mutation.
type UpdateBlackoutInput struct {
	Period   *types.Period
	Reason   *enums.BlackoutReason
	Note     *string
	IsActive *bool
}

// ScheduleMaintenanceInput captures the fields for new maintenance work.
type ScheduleMaintenanceInput struct {
	RentalItemID uuid.UUID
	Type         enums.MaintenanceType
	Description  *string
	Period       types.Period
	Cost         *decimal.Decimal
}

func (s *service) CreateBlackout(ctx context.Context, tenantID uuid.UUID, input CreateBlackoutInput) (*BlackoutDTO, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInterval, err, "invalid blackout window")
	}
	reason := input.Reason
	if reason == "" {
		reason = enums.BlackoutReasonOther
	}
	if !reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blackout reason")
	}

	window := &models.BlackoutWindow{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: input.RentalItemID,
		Reason:       reason,
		Source:       enums.BlackoutSourceManual,
		Note:         input.Note,
		StartAt:      input.Period.Start,
		EndAt:        input.Period.End,
		IsActive:     true,
		SyncStatus:   enums.SyncStatusPending,
	}
	window.ExternalID = bookingengine.BlackoutExternalID(window.ID)

	if err := s.windows.Create(ctx, window); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating blackout window")
	}
	s.queue.EnqueueBlackoutSync(window.ID)
	return WindowFromModel(window), nil
}

func (s *service) GetBlackout(ctx context.Context, tenantID, windowID uuid.UUID) (*BlackoutDTO, error) {
	window, err := s.findWindow(ctx, tenantID, windowID)
	if err != nil {
		return nil, err
	}
	return WindowFromModel(window), nil
}

func (s *service) ListBlackouts(ctx context.Context, tenantID uuid.UUID) ([]BlackoutDTO, error) {
	windows, err := s.windows.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing blackout windows")
	}
	dtos := make([]BlackoutDTO, 0, len(windows))
	for i := range windows {
		dtos = append(dtos, *WindowFromModel(&windows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateBlackout(ctx context.Context, tenantID, windowID uuid.UUID, input UpdateBlackoutInput) (*BlackoutDTO, error) {
	window, err := s.findWindow(ctx, tenantID, windowID)
	if err != nil {
		return nil, err
	}
	if window.Source == enums.BlackoutSourceMaintenance {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "window is managed by its maintenance record")
	}

	if input.Period != nil {
		if err := input.Period.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInterval, err, "invalid blackout window")
		}
		window.StartAt = input.Period.Start
		window.EndAt = input.Period.End
	}
	if input.Reason != nil {
		if !input.Reason.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid blackout reason")
		}
		window.Reason = *input.Reason
	}
	if input.Note != nil {
		window.Note = input.Note
	}
	if input.IsActive != nil {
		window.IsActive = *input.IsActive
	}

	window.SyncStatus = enums.SyncStatusPending
	if err := s.windows.Update(ctx, window); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating blackout window")
	}
	s.queue.EnqueueBlackoutSync(window.ID)
	return WindowFromModel(window), nil
}

func (s *service) DeactivateBlackout(ctx context.Context, tenantID, windowID uuid.UUID) (*BlackoutDTO, error) {
	active := false
	return s.UpdateBlackout(ctx, tenantID, windowID, UpdateBlackoutInput{IsActive: &active})
}

func (s *service) ScheduleMaintenance(ctx context.Context, tenantID uuid.UUID, input ScheduleMaintenanceInput) (*MaintenanceDTO, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidInterval, err, "invalid maintenance window")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid maintenance type")
	}

	record := &models.MaintenanceRecord{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: input.RentalItemID,
		Type:         input.Type,
		Status:       enums.MaintenanceStatusScheduled,
		Description:  input.Description,
		StartAt:      input.Period.Start,
		EndAt:        input.Period.End,
	}
	if input.Cost != nil {
		record.Cost = decimal.NullDecimal{Decimal: *input.Cost, Valid: true}
	}

	window := &models.BlackoutWindow{
		ID:           uuid.New(),
		TenantID:     tenantID,
		RentalItemID: &record.RentalItemID,
		ExternalID:   bookingengine.MaintenanceExternalID(record.ID),
		Reason:       enums.BlackoutReasonMaintenance,
		Source:       enums.BlackoutSourceMaintenance,
		Note:         input.Description,
		StartAt:      record.StartAt,
		EndAt:        record.EndAt,
		IsActive:     true,
		SyncStatus:   enums.SyncStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.maintenance.CreateWithTx(tx, record); err != nil {
			return err
		}
		return s.windows.CreateWithTx(tx, window)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scheduling maintenance")
	}
	s.queue.EnqueueBlackoutSync(window.ID)
	return MaintenanceFromModel(record), nil
}

func (s *service) GetMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error) {
	record, err := s.findRecord(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	return MaintenanceFromModel(record), nil
}

func (s *service) ListMaintenance(ctx context.Context, tenantID uuid.UUID, itemID *uuid.UUID) ([]MaintenanceDTO, error) {
	var (
		records []models.MaintenanceRecord
		err     error
	)
	if itemID != nil {
		records, err = s.maintenance.ListByItem(ctx, tenantID, *itemID)
	} else {
		records, err = s.maintenance.ListByTenant(ctx, tenantID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing maintenance records")
	}
	dtos := make([]MaintenanceDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *MaintenanceFromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) StartMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error) {
	record, err := s.findRecord(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != enums.MaintenanceStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot start maintenance in status %s", record.Status))
	}

	record.Status = enums.MaintenanceStatusInProgress
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.maintenance.UpdateWithTx(tx, record)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "starting maintenance")
	}
	return MaintenanceFromModel(record), nil
}

func (s *service) CompleteMaintenance(ctx context.Context, tenantID, recordID uuid.UUID, completedAt *time.Time) (*MaintenanceDTO, error) {
	record, err := s.findRecord(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if !record.Status.BlocksAvailability() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot complete maintenance in status %s", record.Status))
	}

	done := s.now().UTC()
	if completedAt != nil {
		done = completedAt.UTC()
	}

	var windowID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		record.Status = enums.MaintenanceStatusCompleted
		record.CompletedAt = &done
		if err := s.maintenance.UpdateWithTx(tx, record); err != nil {
			return err
		}

		window, err := s.windows.FindByExternalIDWithTx(tx, bookingengine.MaintenanceExternalID(record.ID))
		if err != nil {
			return err
		}
		// Early completion frees the item from the moment work stopped. A
		// completion at or before the window start leaves nothing to block.
		if done.After(window.StartAt) {
			window.EndAt = done
		} else {
			window.IsActive = false
		}
		window.SyncStatus = enums.SyncStatusPending
		if err := s.windows.UpdateWithTx(tx, window); err != nil {
			return err
		}
		windowID = window.ID
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing maintenance")
	}
	s.queue.EnqueueBlackoutSync(windowID)
	return MaintenanceFromModel(record), nil
}

func (s *service) CancelMaintenance(ctx context.Context, tenantID, recordID uuid.UUID) (*MaintenanceDTO, error) {
	record, err := s.findRecord(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if !record.Status.BlocksAvailability() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot cancel maintenance in status %s", record.Status))
	}

	cancelled := s.now().UTC()
	var windowID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		record.Status = enums.MaintenanceStatusCancelled
		record.CancelledAt = &cancelled
		if err := s.maintenance.UpdateWithTx(tx, record); err != nil {
			return err
		}

		window, err := s.windows.FindByExternalIDWithTx(tx, bookingengine.MaintenanceExternalID(record.ID))
		if err != nil {
			return err
		}
		window.IsActive = false
		window.SyncStatus = enums.SyncStatusPending
		if err := s.windows.UpdateWithTx(tx, window); err != nil {
			return err
		}
		windowID = window.ID
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling maintenance")
	}
	s.queue.EnqueueBlackoutSync(windowID)
	return MaintenanceFromModel(record), nil
}

func (s *service) findWindow(ctx context.Context, tenantID, windowID uuid.UUID) (*models.BlackoutWindow, error) {
	window, err := s.windows.FindByID(ctx, tenantID, windowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blackout window not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading blackout window")
	}
	return window, nil
}

func (s *service) findRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*models.MaintenanceRecord, error) {
	record, err := s.maintenance.FindByID(ctx, tenantID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "maintenance record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading maintenance record")
	}
	return record, nil
}
