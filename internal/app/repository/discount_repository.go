package repository

import (
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(discount *model.Discount) error
	FindByID(id uint) (*model.Discount, error)
	FindAll() ([]model.Discount, error)
	FindByStore(storeID uint, active bool) ([]model.Discount, error)
	Update(discount *model.Discount) error
	Delete(id uint) error
}

type discountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(discount *model.Discount) error {
	if err := r.db.Create(discount).Error; err != nil {
		logger.Error("Failed to create discount in database", err, map[string]interface{}{
			"store_id":   discount.StoreID,
			"product_id": discount.ProductID,
		})
		return err
	}

	logger.Debug("Discount created in database", map[string]interface{}{
		"discount_id": discount.ID,
		"store_id":    discount.StoreID,
		"percentage":  discount.Percentage,
	})
	return nil
}

func (r *discountRepository) FindByID(id uint) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.First(&discount, id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) FindAll() ([]model.Discount, error) {
	var discounts []model.Discount
	if err := r.db.Find(&discounts).Error; err != nil {
		logger.Error("Failed to list discounts", err)
		return nil, err
	}
	return discounts, nil
}

// FindByStore returns a store's discounts filtered on the active flag.
func (r *discountRepository) FindByStore(storeID uint, active bool) ([]model.Discount, error) {
	var discounts []model.Discount
	if err := r.db.
		Where("store_id = ? AND active = ?", storeID, active).
		Find(&discounts).Error; err != nil {
		logger.Error("Failed to list discounts by store", err, map[string]interface{}{
			"store_id": storeID,
			"active":   active,
		})
		return nil, err
	}
	return discounts, nil
}

func (r *discountRepository) Update(discount *model.Discount) error {
	if err := r.db.Save(discount).Error; err != nil {
		logger.Error("Failed to update discount in database", err, map[string]interface{}{
			"discount_id": discount.ID,
		})
		return err
	}
	return nil
}

func (r *discountRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Discount{}, id).Error; err != nil {
		logger.Error("Failed to delete discount from database", err, map[string]interface{}{
			"discount_id": id,
		})
		return err
	}
	return nil
}
