package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	inventoryItems := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  image_url TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  supplier TEXT,
  expected_delivery_date DATETIME,
  notes TEXT,
  is_purchase_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  inventory_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_time NUMERIC NOT NULL DEFAULT 0
);`

	for _, schema := range []string{users, inventoryItems, ordersTable, orderItems} {
		require.NoError(t, conn.Exec(schema).Error)
	}

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func mustCreateUser(t *testing.T, tx *gorm.DB, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     fmt.Sprintf("user-%s", uuid.NewString()[:8]),
		PasswordHash: "hash",
		IsActive:     true,
		IsAdmin:      admin,
	}
	require.NoError(t, tx.Create(user).Error)
	return user
}

func mustCreateStock(t *testing.T, tx *gorm.DB, name string, quantity int, price string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:       uuid.New(),
		Name:     name,
		Category: "test",
		Quantity: quantity,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, tx.Create(item).Error)
	return item
}

func stockQuantity(t *testing.T, tx *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var item models.InventoryItem
	require.NoError(t, tx.First(&item, "id = ?", id).Error)
	return item.Quantity
}
