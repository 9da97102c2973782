package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	"github.com/stockpulse/stockpulse-backend/pkg/enums"
)

// OrderLineInput names one inventory item and the quantity ordered.
type OrderLineInput struct {
	InventoryID uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the validated payload for placing an order.
type CreateOrderRequest struct {
	Items                []OrderLineInput `json:"items" validate:"required,min=1,dive"`
	Supplier             *string          `json:"supplier,omitempty"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
	IsPurchaseOrder      bool             `json:"is_purchase_order"`
}

// UpdateStatusRequest carries the requested lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderLineDTO is the transport shape for a single order line.
type OrderLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	InventoryID uuid.UUID       `json:"inventory_id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

// OrderDTO is the transport shape for a full order.
type OrderDTO struct {
	ID                   uuid.UUID         `json:"id"`
	UserID               uuid.UUID         `json:"user_id"`
	Status               enums.OrderStatus `json:"status"`
	TotalAmount          decimal.Decimal   `json:"total_amount"`
	Supplier             *string           `json:"supplier,omitempty"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date,omitempty"`
	Notes                *string           `json:"notes,omitempty"`
	IsPurchaseOrder      bool              `json:"is_purchase_order"`
	Items                []OrderLineDTO    `json:"items"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ListResult bundles a page of orders with paging metadata.
type ListResult struct {
	Orders []OrderDTO `json:"orders"`
	Page   int        `json:"page"`
	Size   int        `json:"size"`
	Total  int64      `json:"total"`
}

func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLineDTO{
			ID:          item.ID,
			InventoryID: item.InventoryID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}
	return &OrderDTO{
		ID:                   order.ID,
		UserID:               order.UserID,
		Status:               order.Status,
		TotalAmount:          order.TotalAmount,
		Supplier:             order.Supplier,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Notes:                order.Notes,
		IsPurchaseOrder:      order.IsPurchaseOrder,
		Items:                lines,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

func fromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
