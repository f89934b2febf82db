package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

type OrderService interface {
	CreateOrder(order *model.Order) error
	GetOrderByID(id uint) (*model.Order, error)
	ListOrders() ([]model.Order, error)
	UpdateOrderStatus(id uint, status model.OrderStatus) error
	MarkPaid(id uint) error
	OrderHistory(userID uint) ([]model.Order, error)
	DeleteOrder(id uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) CreateOrder(order *model.Order) error {
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":  order.UserID,
			"store_id": order.StoreID,
		})
		return err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
	})
	return nil
}

func (s *orderService) GetOrderByID(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders() ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, err
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(id uint, status model.OrderStatus) error {
	if status != model.OrderStatusPending && status != model.OrderStatusPaid {
		return ErrInvalidOrderStatus
	}

	affected, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

// MarkPaid finalizes a pending order. The order stops being the user's
// active cart as soon as the status flips.
func (s *orderService) MarkPaid(id uint) error {
	return s.UpdateOrderStatus(id, model.OrderStatusPaid)
}

// OrderHistory lists the user's completed orders, newest first.
func (s *orderService) OrderHistory(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserAndStatus(userID, model.OrderStatusPaid)
	if err != nil {
		logger.Error("Failed to fetch order history", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) DeleteOrder(id uint) error {
	if _, err := s.orderRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orderRepo.Delete(id); err != nil {
		logger.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})
	return nil
}
