package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/db/models"
	"github.com/rentable/rentable-backend/pkg/enums"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.RentalItem) error
	FindByID(ctx context.Context, tenantID, itemID uuid.UUID) (*models.RentalItem, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.RentalItem, error)
	Update(ctx context.Context, item *models.RentalItem) error
	Delete(ctx context.Context, tenantID, itemID uuid.UUID) error
}

// Enqueuer schedules a background projection for an item. It reports whether
// the job was accepted.
type Enqueuer interface {
	EnqueueItemSync(itemID uuid.UUID) bool
}

// RemoteRemover deletes the projected counterpart of an item. Optional: a nil
// remover leaves orphaned remote services for reconciliation to flag.
type RemoteRemover interface {
	DeleteService(ctx context.Context, remoteID string) error
}

// Service exposes rental item operations. Mutations mark the item pending and
// schedule a background projection.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	Get(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]ItemDTO, error)
	Update(ctx context.Context, tenantID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, tenantID, itemID uuid.UUID) error
	RequestResync(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemDTO, error)
}

type service struct {
	repo   itemRepository
	queue  Enqueuer
	remote RemoteRemover
	logger *logger.Logger
}

// NewService builds an inventory service. The remover may be nil.
func NewService(repo itemRepository, queue Enqueuer, remote RemoteRemover, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if queue == nil {
		return nil, fmt.Errorf("sync enqueuer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, queue: queue, remote: remote, logger: logg}, nil
}

// CreateItemInput captures the fields for a new rental item.
type CreateItemInput struct {
	Name                  string
	Description           *string
	Category              enums.ItemCategory
	DailyRate             *decimal.Decimal
	HourlyRate            *decimal.Decimal
	Quantity              int
	MaxConcurrentBookings *int
	IsActive              *bool
}

// UpdateItemInput captures the allowed item fields for mutation.
type UpdateItemInput struct {
	Name                  *string
	Description           *string
	Category              *enums.ItemCategory
	DailyRate             *decimal.Decimal
	HourlyRate            *decimal.Decimal
	Quantity              *int
	MaxConcurrentBookings *int
	IsActive              *bool
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}
	category := input.Category
	if category == "" {
		category = enums.ItemCategoryOther
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}

	item := &models.RentalItem{
		TenantID:              tenantID,
		Name:                  input.Name,
		Description:           input.Description,
		Category:              category,
		Quantity:              quantity,
		MaxConcurrentBookings: input.MaxConcurrentBookings,
		IsActive:              true,
		SyncStatus:            enums.SyncStatusPending,
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if input.DailyRate != nil {
		item.DailyRate = decimal.NullDecimal{Decimal: *input.DailyRate, Valid: true}
	}
	if input.HourlyRate != nil {
		item.HourlyRate = decimal.NullDecimal{Decimal: *input.HourlyRate, Valid: true}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating rental item")
	}
	s.queue.EnqueueItemSync(item.ID)
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.findItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing rental items")
	}
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, tenantID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.findItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
		}
		item.Category = *input.Category
	}
	if input.DailyRate != nil {
		item.DailyRate = decimal.NullDecimal{Decimal: *input.DailyRate, Valid: true}
	}
	if input.HourlyRate != nil {
		item.HourlyRate = decimal.NullDecimal{Decimal: *input.HourlyRate, Valid: true}
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		item.Quantity = *input.Quantity
	}
	if input.MaxConcurrentBookings != nil {
		item.MaxConcurrentBookings = input.MaxConcurrentBookings
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	// Any edit can change the remote projection, so the item goes back to
	// pending until the projector confirms it.
	item.SyncStatus = enums.SyncStatusPending
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating rental item")
	}
	s.queue.EnqueueItemSync(item.ID)
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.findItem(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rental item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting rental item")
	}

	// Best effort: the local delete already happened, a remote failure only
	// leaves an orphan for reconciliation to report.
	if s.remote != nil && item.RemoteServiceID != nil {
		if err := s.remote.DeleteService(ctx, *item.RemoteServiceID); err != nil && !errors.Is(err, bookingengine.ErrSyncDisabled) {
			s.logger.Warn(s.logger.WithItemID(ctx, itemID.String()), "removing remote service failed: "+err.Error())
		}
	}
	return nil
}

func (s *service) RequestResync(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.findItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	item.SyncStatus = enums.SyncStatusPending
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking rental item pending")
	}
	s.queue.EnqueueItemSync(item.ID)
	return FromModel(item), nil
}

func (s *service) findItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.RentalItem, error) {
	item, err := s.repo.FindByID(ctx, tenantID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading rental item")
	}
	return item, nil
}
