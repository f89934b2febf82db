package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrNoPendingOrder   = errors.New("no pending order found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// CartItemInput describes one product line to place into a cart.
type CartItemInput struct {
	ProductID uint
	Quantity  int
	Sizes     model.StringArray
	Colors    model.StringArray
}

// UpdateOrderItemInput lists the mutable cart-line fields. Nil fields are
// left untouched.
type UpdateOrderItemInput struct {
	Quantity *int
	Sizes    *model.StringArray
	Colors   *model.StringArray
}

type CartService interface {
	AddToCart(userID, storeID uint, item CartItemInput) (*model.OrderItem, error)
	UpdateCart(userID, storeID uint, items []CartItemInput) (*model.Order, error)
	GetCart(userID uint) (*model.Order, error)
	CreateItem(item *model.OrderItem) error
	GetItemByID(id uint) (*model.OrderItem, error)
	ListItems() ([]model.OrderItem, error)
	UpdateItem(id uint, input UpdateOrderItemInput) (*model.OrderItem, error)
	RemoveItem(id uint) error
	RemoveItemsByProduct(productID uint) (int64, error)
}

type cartService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	db            *gorm.DB
}

func NewCartService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		db:            db,
	}
}

// AddToCart appends a product line to the caller's pending order for the
// store, creating the order if none exists. The product price is snapshotted
// at add-time; later price changes never affect lines already in the cart.
func (s *cartService) AddToCart(userID, storeID uint, item CartItemInput) (*model.OrderItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"store_id":   storeID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if item.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic while adding to cart, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var product model.Product
	if err := tx.First(&product, item.ProductID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
			"product_id": item.ProductID,
		})
		return nil, err
	}

	var order model.Order
	err := tx.Where("user_id = ? AND store_id = ? AND status = ?",
		userID, storeID, model.OrderStatusPending).First(&order).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			logger.Error("Failed to look up pending order", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": storeID,
			})
			return nil, err
		}
		order = model.Order{
			UserID:    userID,
			StoreID:   storeID,
			Status:    model.OrderStatusPending,
			OrderDate: time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create pending order", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": storeID,
			})
			return nil, err
		}
	}

	line := model.OrderItem{
		OrderID:         order.ID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtPurchase: product.Price,
		Sizes:           item.Sizes,
		Colors:          item.Colors,
	}
	if err := tx.Create(&line).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create cart line", err, map[string]interface{}{
			"order_id":   order.ID,
			"product_id": item.ProductID,
		})
		return nil, err
	}

	if err := recalculateTotal(tx, order.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cart update", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"order_id":      order.ID,
		"order_item_id": line.ID,
	})
	return &line, nil
}

// UpdateCart replaces the entire line set of the pending order. Lines that
// reference products that no longer exist are skipped with a warning.
func (s *cartService) UpdateCart(userID, storeID uint, items []CartItemInput) (*model.Order, error) {
	logger.Info("Replacing cart contents", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
		"items":    len(items),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic while updating cart, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var order model.Order
	err := tx.Where("user_id = ? AND store_id = ? AND status = ?",
		userID, storeID, model.OrderStatusPending).First(&order).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingOrder
		}
		logger.Error("Failed to look up pending order", err, map[string]interface{}{
			"user_id":  userID,
			"store_id": storeID,
		})
		return nil, err
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart lines", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			tx.Rollback()
			return nil, ErrInvalidQuantity
		}

		var product model.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Skipping cart line: product no longer exists", map[string]interface{}{
					"order_id":   order.ID,
					"product_id": item.ProductID,
				})
				continue
			}
			tx.Rollback()
			logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, err
		}

		line := model.OrderItem{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: product.Price,
			Sizes:           item.Sizes,
			Colors:          item.Colors,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create cart line", err, map[string]interface{}{
				"order_id":   order.ID,
				"product_id": item.ProductID,
			})
			return nil, err
		}
	}

	if err := recalculateTotal(tx, order.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cart replacement", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	return s.orderRepo.FindByID(order.ID)
}

// GetCart returns the caller's pending order with its lines and products.
func (s *cartService) GetCart(userID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindPendingByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingOrder
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return order, nil
}

// CreateItem writes a raw cart line and refreshes its order's total.
func (s *cartService) CreateItem(item *model.OrderItem) error {
	tx := s.db.Begin()
	if err := tx.Create(item).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order item", err, map[string]interface{}{
			"order_id":   item.OrderID,
			"product_id": item.ProductID,
		})
		return err
	}
	if err := recalculateTotal(tx, item.OrderID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *cartService) GetItemByID(id uint) (*model.OrderItem, error) {
	item, err := s.orderItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		return nil, err
	}
	return item, nil
}

func (s *cartService) ListItems() ([]model.OrderItem, error) {
	items, err := s.orderItemRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list order items", err, nil)
		return nil, err
	}
	return items, nil
}

// UpdateItem mutates a cart line in place and refreshes its order's total.
func (s *cartService) UpdateItem(id uint, input UpdateOrderItemInput) (*model.OrderItem, error) {
	item, err := s.orderItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		return nil, err
	}

	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		item.Quantity = *input.Quantity
	}
	if input.Sizes != nil {
		item.Sizes = *input.Sizes
	}
	if input.Colors != nil {
		item.Colors = *input.Colors
	}

	tx := s.db.Begin()
	if err := tx.Save(item).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		return nil, err
	}
	if err := recalculateTotal(tx, item.OrderID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a single cart line and refreshes its order's total.
func (s *cartService) RemoveItem(id uint) error {
	item, err := s.orderItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	tx := s.db.Begin()
	if err := tx.Delete(&model.OrderItem{}, id).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		return err
	}
	if err := recalculateTotal(tx, item.OrderID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// RemoveItemsByProduct deletes every cart line referencing the product,
// across all orders, refreshes the totals of the orders it touched, and
// reports how many lines were removed.
func (s *cartService) RemoveItemsByProduct(productID uint) (int64, error) {
	tx := s.db.Begin()
	removed, err := removeProductLines(tx, productID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if removed == 0 {
		tx.Rollback()
		return 0, ErrCartItemNotFound
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	logger.Info("Cart lines removed", map[string]interface{}{
		"product_id": productID,
		"removed":    removed,
	})
	return removed, nil
}

// removeProductLines deletes the product's cart lines across all orders
// inside tx and recomputes the total of every order that lost a line.
func removeProductLines(tx *gorm.DB, productID uint) (int64, error) {
	var orderIDs []uint
	if err := tx.Model(&model.OrderItem{}).
		Where("product_id = ?", productID).
		Distinct().
		Pluck("order_id", &orderIDs).Error; err != nil {
		logger.Error("Failed to load orders for product lines", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}

	result := tx.Where("product_id = ?", productID).Delete(&model.OrderItem{})
	if result.Error != nil {
		logger.Error("Failed to remove cart lines by product", result.Error, map[string]interface{}{
			"product_id": productID,
		})
		return 0, result.Error
	}

	for _, orderID := range orderIDs {
		if err := recalculateTotal(tx, orderID); err != nil {
			return 0, err
		}
	}
	return result.RowsAffected, nil
}

// recalculateTotal rewrites the order total as the sum of price-at-purchase
// times quantity over all lines.
func recalculateTotal(tx *gorm.DB, orderID uint) error {
	var items []model.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		logger.Error("Failed to load lines for total", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	var total float64
	for _, item := range items {
		total += item.PriceAtPurchase * float64(item.Quantity)
	}

	if err := tx.Model(&model.Order{}).Where("id = ?", orderID).
		Update("total_amount", total).Error; err != nil {
		logger.Error("Failed to write order total", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}
	return nil
}
