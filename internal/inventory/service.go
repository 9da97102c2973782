package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
	"github.com/stockpulse/stockpulse-backend/pkg/pagination"
)

const itemNotFoundMessage = "inventory item not found"

// Service exposes inventory management operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*SummaryDTO, error)
}

type repository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params pagination.Params) ([]models.InventoryItem, int64, error)
	Summary(ctx context.Context) (*SummaryDTO, error)
}

type service struct {
	repo repository
}

// NewService constructs an inventory service instance.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	params = pagination.Normalize(params.Page, params.Size)
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	return &ListResult{
		Items: fromModels(items),
		Page:  params.Page,
		Size:  params.Size,
		Total: total,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return FromModel(item), nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	item, err := s.repo.Create(ctx, req.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}

	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	// Full replacement, every mutable field is overwritten.
	item.Name = req.Name
	item.Category = req.Category
	item.Quantity = req.Quantity
	item.Price = req.Price
	item.ImageURL = req.ImageURL
	item.Description = req.Description

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
	}
	return nil
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inventory summary")
	}
	return summary, nil
}
