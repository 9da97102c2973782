package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
)

// ItemDTO is the transport shape for a single inventory item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateItemRequest is the validated payload for creating an item.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// UpdateItemRequest carries the full replacement state for an item.
// Every field is overwritten, this is not a partial merge.
type UpdateItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// ListResult bundles a page of items with paging metadata.
type ListResult struct {
	Items []ItemDTO `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int64     `json:"total"`
}

// SummaryDTO aggregates stock levels across the whole inventory.
type SummaryDTO struct {
	TotalItems      int64           `json:"totalItems"`
	TotalQuantity   int64           `json:"totalQuantity"`
	TotalCategories int64           `json:"totalCategories"`
	OutOfStock      int64           `json:"outOfStock"`
	TotalValue      decimal.Decimal `json:"totalValue"`
}

func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Quantity:    item.Quantity,
		Price:       item.Price,
		ImageURL:    item.ImageURL,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func fromModels(items []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}

func (c CreateItemRequest) toModel() *models.InventoryItem {
	return &models.InventoryItem{
		Name:        c.Name,
		Category:    c.Category,
		Quantity:    c.Quantity,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		Description: c.Description,
	}
}
