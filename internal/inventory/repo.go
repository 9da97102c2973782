package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	"github.com/stockpulse/stockpulse-backend/pkg/pagination"
)

const summaryQuery = `
SELECT COUNT(*) AS total_items,
       COALESCE(SUM(quantity), 0) AS total_quantity,
       COUNT(DISTINCT category) AS total_categories,
       COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
       COALESCE(SUM(quantity * price), 0) AS total_value
FROM inventory_items
`

type summaryRow struct {
	TotalItems      int64
	TotalQuantity   int64
	TotalCategories int64
	OutOfStock      int64
	TotalValue      decimal.Decimal
}

// Repository exposes inventory persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new inventory item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update persists all fields of the item.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID and reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns one page of items plus the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.InventoryItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Summary aggregates stock levels across all items.
func (r *Repository) Summary(ctx context.Context) (*SummaryDTO, error) {
	var row summaryRow
	if err := r.db.WithContext(ctx).Raw(summaryQuery).Scan(&row).Error; err != nil {
		return nil, err
	}
	return &SummaryDTO{
		TotalItems:      row.TotalItems,
		TotalQuantity:   row.TotalQuantity,
		TotalCategories: row.TotalCategories,
		OutOfStock:      row.OutOfStock,
		TotalValue:      row.TotalValue,
	}, nil
}

// DecrementStock atomically subtracts qty when enough stock remains.
// Returns false when the item is missing or the stock would go negative.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreStock adds qty back to the item.
func (r *Repository) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
}
