package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpulse/stockpulse-backend/pkg/enums"
)

// Order is either an outgoing customer order or, when IsPurchaseOrder is
// set, incoming supplier stock. TotalAmount is fixed at creation and never
// recomputed.
type Order struct {
	ID                   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status               enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalAmount          decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Supplier             *string           `gorm:"column:supplier"`
	ExpectedDeliveryDate *time.Time        `gorm:"column:expected_delivery_date"`
	Notes                *string           `gorm:"column:notes"`
	IsPurchaseOrder      bool              `gorm:"column:is_purchase_order;not null;default:false"`
	Items                []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
