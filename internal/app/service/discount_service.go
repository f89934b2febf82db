package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrDiscountNotFound = errors.New("discount not found")
	ErrPushFailed       = errors.New("push notification failed")
)

// PushSender delivers push notifications to subscribed devices.
type PushSender interface {
	SendToTopic(ctx context.Context, topic, title, body string) error
}

// UpdateDiscountInput lists the mutable discount fields. Nil fields are left
// untouched.
type UpdateDiscountInput struct {
	Percentage *float64
	Active     *bool
	StartDate  *time.Time
}

type DiscountService interface {
	CreateDiscount(discount *model.Discount) error
	GetDiscountByID(id uint) (*model.Discount, error)
	ListDiscounts() ([]model.Discount, error)
	ActiveDiscounts(storeID uint) ([]model.Discount, error)
	DiscountHistory(storeID uint) ([]model.Discount, error)
	UpdateDiscount(id uint, input UpdateDiscountInput) (*model.Discount, error)
	DeleteDiscount(id uint) error
	PublishDiscount(ctx context.Context, storeID, productID uint, percentage float64) (*model.Discount, error)
	DisableDiscount(id uint) error
}

type discountService struct {
	discountRepo repository.DiscountRepository
	push         PushSender
	pushTopic    string
	db           *gorm.DB
}

func NewDiscountService(
	discountRepo repository.DiscountRepository,
	push PushSender,
	pushTopic string,
	db *gorm.DB,
) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		push:         push,
		pushTopic:    pushTopic,
		db:           db,
	}
}

func (s *discountService) CreateDiscount(discount *model.Discount) error {
	if discount.StartDate.IsZero() {
		discount.StartDate = time.Now()
	}
	if err := s.discountRepo.Create(discount); err != nil {
		logger.Error("Failed to create discount", err, map[string]interface{}{
			"store_id":   discount.StoreID,
			"product_id": discount.ProductID,
		})
		return err
	}

	logger.Info("Discount created", map[string]interface{}{
		"discount_id": discount.ID,
	})
	return nil
}

func (s *discountService) GetDiscountByID(id uint) (*model.Discount, error) {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		logger.Error("Failed to fetch discount", err, map[string]interface{}{
			"discount_id": id,
		})
		return nil, err
	}
	return discount, nil
}

func (s *discountService) ListDiscounts() ([]model.Discount, error) {
	discounts, err := s.discountRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list discounts", err, nil)
		return nil, err
	}
	return discounts, nil
}

// ActiveDiscounts lists the store's currently running discounts. A product
// may appear more than once; every active row is surfaced.
func (s *discountService) ActiveDiscounts(storeID uint) ([]model.Discount, error) {
	discounts, err := s.discountRepo.FindByStore(storeID, true)
	if err != nil {
		logger.Error("Failed to fetch active discounts", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return discounts, nil
}

// DiscountHistory lists the store's ended discounts.
func (s *discountService) DiscountHistory(storeID uint) ([]model.Discount, error) {
	discounts, err := s.discountRepo.FindByStore(storeID, false)
	if err != nil {
		logger.Error("Failed to fetch discount history", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return discounts, nil
}

func (s *discountService) UpdateDiscount(id uint, input UpdateDiscountInput) (*model.Discount, error) {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		logger.Error("Failed to fetch discount for update", err, map[string]interface{}{
			"discount_id": id,
		})
		return nil, err
	}

	if input.Percentage != nil {
		discount.Percentage = *input.Percentage
	}
	if input.Active != nil {
		discount.Active = *input.Active
	}
	if input.StartDate != nil {
		discount.StartDate = *input.StartDate
	}

	if err := s.discountRepo.Update(discount); err != nil {
		logger.Error("Failed to update discount", err, map[string]interface{}{
			"discount_id": id,
		})
		return nil, err
	}
	return discount, nil
}

func (s *discountService) DeleteDiscount(id uint) error {
	if _, err := s.discountRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiscountNotFound
		}
		return err
	}

	if err := s.discountRepo.Delete(id); err != nil {
		logger.Error("Failed to delete discount", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}
	return nil
}

// PublishDiscount starts a discount on a store's product: one transaction
// writes the discount row, updates the product's current percentage and
// fans a notification out to every user. The push to subscribed devices
// happens after commit; a push failure surfaces as an error but the
// committed discount stands.
func (s *discountService) PublishDiscount(ctx context.Context, storeID, productID uint, percentage float64) (*model.Discount, error) {
	logger.Info("Publishing discount", map[string]interface{}{
		"store_id":   storeID,
		"product_id": productID,
		"percentage": percentage,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic while publishing discount, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"store_id": storeID,
			})
		}
	}()

	var product model.Product
	if err := tx.Where("store_id = ?", storeID).First(&product, productID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot publish discount: product not in store", map[string]interface{}{
				"store_id":   storeID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for discount", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	var store model.Store
	if err := tx.First(&store, storeID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store for discount", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	discount := model.Discount{
		StoreID:    storeID,
		ProductID:  productID,
		Percentage: percentage,
		Active:     true,
		StartDate:  time.Now(),
	}
	if err := tx.Create(&discount).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create discount", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	if err := tx.Model(&model.Product{}).Where("id = ?", productID).
		Update("discount", percentage).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update product discount", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	var users []model.User
	if err := tx.Find(&users).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to fetch users for notification fan-out", err, nil)
		return nil, err
	}

	message := fmt.Sprintf("%s: %g%% off %s", store.Name, percentage, product.Name)
	if len(users) > 0 {
		notifications := make([]model.Notification, 0, len(users))
		for _, user := range users {
			notifications = append(notifications, model.Notification{
				UserID:     user.ID,
				StoreID:    storeID,
				DiscountID: &discount.ID,
				Message:    message,
			})
		}
		if err := tx.Create(&notifications).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to fan out notifications", err, map[string]interface{}{
				"discount_id": discount.ID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit discount", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	logger.Info("Discount published", map[string]interface{}{
		"discount_id": discount.ID,
		"recipients":  len(users),
	})

	if s.push != nil {
		if err := s.push.SendToTopic(ctx, s.pushTopic, store.Name, message); err != nil {
			logger.Error("Failed to push discount notification", err, map[string]interface{}{
				"discount_id": discount.ID,
				"topic":       s.pushTopic,
			})
			return &discount, ErrPushFailed
		}
	}

	return &discount, nil
}

// DisableDiscount ends a discount and removes the notifications it fanned
// out. The product keeps its denormalized percentage only if another active
// discount still covers it.
func (s *discountService) DisableDiscount(id uint) error {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiscountNotFound
		}
		logger.Error("Failed to fetch discount for disable", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic while disabling discount, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"discount_id": id,
			})
		}
	}()

	if err := tx.Model(&model.Discount{}).Where("id = ?", id).
		Update("active", false).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to deactivate discount", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}

	if err := tx.Where("discount_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete discount notifications", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}

	// Recompute the product's visible percentage from whatever active
	// discounts remain.
	var remaining model.Discount
	var percentage float64
	err = tx.Where("product_id = ? AND active = ? AND id <> ?", discount.ProductID, true, id).
		Order("start_date DESC").First(&remaining).Error
	switch {
	case err == nil:
		percentage = remaining.Percentage
	case errors.Is(err, gorm.ErrRecordNotFound):
		percentage = 0
	default:
		tx.Rollback()
		logger.Error("Failed to check remaining discounts", err, map[string]interface{}{
			"product_id": discount.ProductID,
		})
		return err
	}

	if err := tx.Model(&model.Product{}).Where("id = ?", discount.ProductID).
		Update("discount", percentage).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to reset product discount", err, map[string]interface{}{
			"product_id": discount.ProductID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit discount disable", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}

	logger.Info("Discount disabled", map[string]interface{}{
		"discount_id": id,
	})
	return nil
}
