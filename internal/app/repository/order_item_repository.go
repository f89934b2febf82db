package repository

import (
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(item *model.OrderItem) error
	FindByID(id uint) (*model.OrderItem, error)
	FindAll() ([]model.OrderItem, error)
	FindByOrderID(orderID uint) ([]model.OrderItem, error)
	Update(item *model.OrderItem) error
	Delete(id uint) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(item *model.OrderItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create order item in database", err, map[string]interface{}{
			"order_id":   item.OrderID,
			"product_id": item.ProductID,
		})
		return err
	}

	logger.Debug("Order item created in database", map[string]interface{}{
		"order_item_id": item.ID,
		"order_id":      item.OrderID,
	})
	return nil
}

func (r *orderItemRepository) FindByID(id uint) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) FindAll() ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.Find(&items).Error; err != nil {
		logger.Error("Failed to list order items", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepository) FindByOrderID(orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		logger.Error("Failed to list order items", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepository) Update(item *model.OrderItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update order item in database", err, map[string]interface{}{
			"order_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *orderItemRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.OrderItem{}, id).Error; err != nil {
		logger.Error("Failed to delete order item from database", err, map[string]interface{}{
			"order_item_id": id,
		})
		return err
	}
	return nil
}
