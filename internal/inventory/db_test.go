package inventory

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, conn.Exec(schema).Error)

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func mustCreateItem(t *testing.T, tx *gorm.DB, category string, quantity int, price string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("item-%s", uuid.NewString()[:8]),
		Category: category,
		Quantity: quantity,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, tx.Create(item).Error)
	return item
}
