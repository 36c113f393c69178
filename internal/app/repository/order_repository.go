package repository

import (
	"github.com/evermart/catalog-backend/internal/app/model"
	"github.com/evermart/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

// VariantSales is one row of the order-line aggregation: how many units of a
// variant were ever sold.
type VariantSales struct {
	VariantID     uint
	TotalQuantity int
}

type OrderRepository interface {
	Create(order *model.Order) error
	// TopSellingVariants groups historical order lines by variant id, sums
	// quantities and returns up to limit rows ordered by quantity descending.
	// Lines without a variant id are skipped.
	TopSellingVariants(limit int) ([]VariantSales, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"item_count": len(order.Items),
		})
		return err
	}
	return nil
}

func (r *orderRepository) TopSellingVariants(limit int) ([]VariantSales, error) {
	logger.Debug("Aggregating order lines by variant", map[string]interface{}{
		"limit": limit,
	})

	var sales []VariantSales
	err := r.db.Model(&model.OrderItem{}).
		Select("order_items.variant_id AS variant_id, SUM(order_items.quantity) AS total_quantity").
		Where("order_items.variant_id IS NOT NULL").
		Group("order_items.variant_id").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&sales).Error
	if err != nil {
		logger.Error("Failed to aggregate order lines", err, nil)
		return nil, err
	}

	logger.Debug("Order lines aggregated", map[string]interface{}{
		"variant_count": len(sales),
	})
	return sales, nil
}
