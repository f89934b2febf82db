package repository

import (
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindAll() ([]model.Order, error)
	FindPending(userID, storeID uint) (*model.Order, error)
	FindPendingByUser(userID uint) (*model.Order, error)
	FindByUserAndStatus(userID uint, status model.OrderStatus) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) (int64, error)
	Delete(id uint) error
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
			"user_id":  order.UserID,
			"store_id": order.StoreID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Preload("Product")
		}).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders", err)
		return nil, err
	}
	return orders, nil
}

// FindPending returns the active cart for a (user, store) pair.
func (r *orderRepository) FindPending(userID, storeID uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.
		Where("user_id = ? AND store_id = ? AND status = ?", userID, storeID, model.OrderStatusPending).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindPendingByUser returns the user's pending order with its items and
// their products preloaded.
func (r *orderRepository) FindPendingByUser(userID uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Preload("Product")
		}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusPending).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserAndStatus(userID uint, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.
		Where("user_id = ? AND status = ?", userID, status).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders by user and status", err, map[string]interface{}{
			"user_id": userID,
			"status":  status,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}

// UpdateStatus sets the order status and reports how many rows matched.
func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) (int64, error) {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *orderRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Order{}, id).Error; err != nil {
		logger.Error("Failed to delete order from database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}
