package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/internal/inventory"
	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	"github.com/stockpulse/stockpulse-backend/pkg/enums"
	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
	"github.com/stockpulse/stockpulse-backend/pkg/pagination"
)

const orderNotFoundMessage = "order not found"

// Service exposes the order workflow.
type Service interface {
	Create(ctx context.Context, user *models.User, req CreateOrderRequest) (*OrderDTO, error)
	List(ctx context.Context, user *models.User, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, user *models.User, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID *uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type stockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, id uuid.UUID, qty int) error
}

// ServiceParams bundles the dependencies for the order workflow.
type ServiceParams struct {
	TxRunner         txRunner
	OrderRepoFactory func(tx *gorm.DB) orderRepository
	StockRepoFactory func(tx *gorm.DB) stockRepository
}

type service struct {
	tx     txRunner
	orders func(tx *gorm.DB) orderRepository
	stock  func(tx *gorm.DB) stockRepository
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	orderFactory := params.OrderRepoFactory
	if orderFactory == nil {
		orderFactory = func(tx *gorm.DB) orderRepository {
			return NewRepository(tx)
		}
	}
	stockFactory := params.StockRepoFactory
	if stockFactory == nil {
		stockFactory = func(tx *gorm.DB) stockRepository {
			return inventory.NewRepository(tx)
		}
	}
	return &service{
		tx:     params.TxRunner,
		orders: orderFactory,
		stock:  stockFactory,
	}, nil
}

// Create places an order: every line is priced from the current catalog and,
// for customer orders, stock is decremented in the same transaction so a
// failing line rolls back the whole order. Purchase orders skip the draw-down.
func (s *service) Create(ctx context.Context, user *models.User, req CreateOrderRequest) (*OrderDTO, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var created *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stockRepo := s.stock(tx)
		orderRepo := s.orders(tx)

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := stockRepo.FindByID(ctx, line.InventoryID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("inventory item %s not found", line.InventoryID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
			}

			// Purchase orders replenish stock on delivery, so they never
			// draw down inventory here.
			if !req.IsPurchaseOrder {
				ok, err := stockRepo.DecrementStock(ctx, item.ID, line.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
				}
				if !ok {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("not enough stock for %s", item.Name))
				}
			}

			lines = append(lines, models.OrderItem{
				InventoryID: item.ID,
				Quantity:    line.Quantity,
				PriceAtTime: item.Price,
			})
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order := &models.Order{
			UserID:               user.ID,
			Status:               enums.OrderStatusPending,
			TotalAmount:          total,
			Supplier:             req.Supplier,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
			Notes:                req.Notes,
			IsPurchaseOrder:      req.IsPurchaseOrder,
			Items:                lines,
		}
		persisted, err := orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		created = FromModel(persisted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns the caller's orders, or every order for admins.
func (s *service) List(ctx context.Context, user *models.User, params pagination.Params) (*ListResult, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	params = pagination.Normalize(params.Page, params.Size)

	var result *ListResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var scope *uuid.UUID
		if !user.IsAdmin {
			id := user.ID
			scope = &id
		}
		orders, total, err := s.orders(tx).List(ctx, scope, params)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
		}
		result = &ListResult{
			Orders: fromModels(orders),
			Page:   params.Page,
			Size:   params.Size,
			Total:  total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns a single order, restricted to its owner unless the caller is
// an admin.
func (s *service) Get(ctx context.Context, user *models.User, id uuid.UUID) (*OrderDTO, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders(tx).FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if !user.IsAdmin && order.UserID != user.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to access this order")
		}
		dto = FromModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdateStatus transitions the order lifecycle. Delivered purchase orders
// restock their lines exactly once.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var dto *OrderDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders(tx)
		order, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if status == enums.OrderStatusDelivered && order.IsPurchaseOrder && order.Status != enums.OrderStatusDelivered {
			stockRepo := s.stock(tx)
			for _, line := range order.Items {
				if err := stockRepo.RestoreStock(ctx, line.InventoryID, line.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock delivered purchase order")
				}
			}
		}

		if err := orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		order.Status = status
		dto = FromModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
