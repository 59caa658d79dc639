package repository

import (
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *model.Order) error
	FindByIDForUser(id, userID uint) (*model.Order, error)
	FindByUserID(userID uint, limit, offset int) ([]model.Order, int64, error)
	CountItemsByProductID(productID uint) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

// preloadOrder states every relation an order read returns: the lines, ordered, and
// the display columns of each line's product.
func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "slug", "images")
		})
}

// Create inserts the order and its Items in one statement batch; callers pass a transaction.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount.String(),
		"items":        len(order.Items),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByIDForUser(id, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.preloadOrder().
		Where("orders.id = ? AND orders.user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint, limit, offset int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	orders := []model.Order{}
	if total == 0 {
		return orders, 0, nil
	}

	err := r.preloadOrder().
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
		"total":   total,
	})
	return orders, total, nil
}

func (r *orderRepository) CountItemsByProductID(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
