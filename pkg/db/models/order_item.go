package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the snapshot of each line within an order. PriceAtTime
// freezes the catalog price at order creation, so deleting the referenced
// inventory item later never corrupts the historical record.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	InventoryID uuid.UUID       `gorm:"column:inventory_id;type:uuid;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(12,2);not null"`

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryID"`
}
