package repository

import (
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreCategoryRepository interface {
	Create(category *model.StoreCategory) error
	FindByID(id uint) (*model.StoreCategory, error)
	FindAll() ([]model.StoreCategory, error)
	FindByStoreID(storeID uint) ([]model.StoreCategory, error)
	Update(category *model.StoreCategory) error
	Delete(id uint) error
}

type storeCategoryRepository struct {
	db *gorm.DB
}

func NewStoreCategoryRepository(db *gorm.DB) StoreCategoryRepository {
	return &storeCategoryRepository{db: db}
}

func (r *storeCategoryRepository) Create(category *model.StoreCategory) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create store category in database", err, map[string]interface{}{
			"store_id": category.StoreID,
			"category": category.Category,
		})
		return err
	}
	return nil
}

func (r *storeCategoryRepository) FindByID(id uint) (*model.StoreCategory, error) {
	var category model.StoreCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *storeCategoryRepository) FindAll() ([]model.StoreCategory, error) {
	var categories []model.StoreCategory
	if err := r.db.Find(&categories).Error; err != nil {
		logger.Error("Failed to list store categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *storeCategoryRepository) FindByStoreID(storeID uint) ([]model.StoreCategory, error) {
	var categories []model.StoreCategory
	if err := r.db.Where("store_id = ?", storeID).Find(&categories).Error; err != nil {
		logger.Error("Failed to list store categories by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return categories, nil
}

func (r *storeCategoryRepository) Update(category *model.StoreCategory) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update store category in database", err, map[string]interface{}{
			"store_category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *storeCategoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.StoreCategory{}, id).Error; err != nil {
		logger.Error("Failed to delete store category from database", err, map[string]interface{}{
			"store_category_id": id,
		})
		return err
	}
	return nil
}
