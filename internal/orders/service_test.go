package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	"github.com/stockpulse/stockpulse-backend/pkg/enums"
	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
	"github.com/stockpulse/stockpulse-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	tx := setupOrdersTestDB(t)
	svc, err := NewService(ServiceParams{TxRunner: testTxRunner{db: tx}})
	require.NoError(t, err)
	return svc, tx
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateOrderSnapshotsPriceAndDecrementsStock(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)
	item := mustCreateStock(t, tx, "widget", 5, "10.00")

	order, err := svc.Create(ctx, user, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("30.00")),
		"expected total 30.00, got %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].PriceAtTime.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 2, stockQuantity(t, tx, item.ID))
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)
	plenty := mustCreateStock(t, tx, "plenty", 10, "1.00")
	scarce := mustCreateStock(t, tx, "scarce", 2, "5.00")

	_, err := svc.Create(ctx, user, CreateOrderRequest{
		Items: []OrderLineInput{
			{InventoryID: plenty.ID, Quantity: 4},
			{InventoryID: scarce.ID, Quantity: 3},
		},
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	// the failed line must roll back the whole order
	assert.Equal(t, 10, stockQuantity(t, tx, plenty.ID))
	assert.Equal(t, 2, stockQuantity(t, tx, scarce.ID))

	var count int64
	require.NoError(t, tx.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOrderUnknownItem(t *testing.T) {
	svc, tx := newTestService(t)

	user := mustCreateUser(t, tx, false)
	_, err := svc.Create(context.Background(), user, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: uuid.New(), Quantity: 1}},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateOrderRejectsEmptyAndNonPositiveLines(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)

	_, err := svc.Create(ctx, user, CreateOrderRequest{})
	requireCode(t, err, pkgerrors.CodeValidation)

	item := mustCreateStock(t, tx, "widget", 5, "10.00")
	_, err = svc.Create(ctx, user, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 0}},
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestListOrdersOwnerVsAdmin(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, tx, false)
	other := mustCreateUser(t, tx, false)
	admin := mustCreateUser(t, tx, true)
	item := mustCreateStock(t, tx, "widget", 50, "1.00")

	for _, user := range []*models.User{owner, owner, other} {
		_, err := svc.Create(ctx, user, CreateOrderRequest{
			Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	mine, err := svc.List(ctx, owner, pagination.Normalize(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	for _, order := range mine.Orders {
		assert.Equal(t, owner.ID, order.UserID)
	}

	all, err := svc.List(ctx, admin, pagination.Normalize(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
}

func TestGetOrderAccessControl(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, tx, false)
	stranger := mustCreateUser(t, tx, false)
	admin := mustCreateUser(t, tx, true)
	item := mustCreateStock(t, tx, "widget", 5, "10.00")

	order, err := svc.Create(ctx, owner, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner, order.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, admin, order.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, order.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Get(ctx, owner, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateStatusDeliveredRestocksPurchaseOrderOnce(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)
	item := mustCreateStock(t, tx, "widget", 10, "2.00")

	order, err := svc.Create(ctx, user, CreateOrderRequest{
		Items:           []OrderLineInput{{InventoryID: item.ID, Quantity: 4}},
		IsPurchaseOrder: true,
	})
	require.NoError(t, err)
	// incoming stock, nothing is drawn down at creation
	assert.Equal(t, 10, stockQuantity(t, tx, item.ID))

	updated, err := svc.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	assert.Equal(t, 14, stockQuantity(t, tx, item.ID))

	// marking delivered again must not restock twice
	_, err = svc.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, 14, stockQuantity(t, tx, item.ID))
}

func TestCreatePurchaseOrderAllowsOutOfStockItem(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)
	item := mustCreateStock(t, tx, "empty", 0, "3.50")

	order, err := svc.Create(ctx, user, CreateOrderRequest{
		Items:           []OrderLineInput{{InventoryID: item.ID, Quantity: 6}},
		IsPurchaseOrder: true,
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("21.00")))
	assert.Equal(t, 0, stockQuantity(t, tx, item.ID))

	_, err = svc.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, 6, stockQuantity(t, tx, item.ID))
}

func TestUpdateStatusRegularOrderNeverRestocks(t *testing.T) {
	svc, tx := newTestService(t)
	ctx := context.Background()

	user := mustCreateUser(t, tx, false)
	item := mustCreateStock(t, tx, "widget", 10, "2.00")

	order, err := svc.Create(ctx, user, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, 6, stockQuantity(t, tx, item.ID))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, tx := newTestService(t)

	user := mustCreateUser(t, tx, false)
	item := mustCreateStock(t, tx, "widget", 5, "1.00")
	order, err := svc.Create(context.Background(), user, CreateOrderRequest{
		Items: []OrderLineInput{{InventoryID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "teleported"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), UpdateStatusRequest{Status: "shipped"})
	requireCode(t, err, pkgerrors.CodeNotFound)
}
