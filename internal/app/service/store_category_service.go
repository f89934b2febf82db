package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrStoreCategoryNotFound = errors.New("store category not found")
)

type StoreCategoryService interface {
	CreateStoreCategory(category *model.StoreCategory) error
	GetStoreCategoryByID(id uint) (*model.StoreCategory, error)
	ListStoreCategories() ([]model.StoreCategory, error)
	ListCategoriesByStore(storeID uint) ([]model.StoreCategory, error)
	UpdateStoreCategory(id uint, name string) (*model.StoreCategory, error)
	DeleteStoreCategory(id uint) error
}

type storeCategoryService struct {
	categoryRepo repository.StoreCategoryRepository
}

func NewStoreCategoryService(categoryRepo repository.StoreCategoryRepository) StoreCategoryService {
	return &storeCategoryService{categoryRepo: categoryRepo}
}

func (s *storeCategoryService) CreateStoreCategory(category *model.StoreCategory) error {
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create store category", err, map[string]interface{}{
			"store_id": category.StoreID,
		})
		return err
	}
	return nil
}

func (s *storeCategoryService) GetStoreCategoryByID(id uint) (*model.StoreCategory, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreCategoryNotFound
		}
		logger.Error("Failed to fetch store category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

func (s *storeCategoryService) ListStoreCategories() ([]model.StoreCategory, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list store categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *storeCategoryService) ListCategoriesByStore(storeID uint) ([]model.StoreCategory, error) {
	categories, err := s.categoryRepo.FindByStoreID(storeID)
	if err != nil {
		logger.Error("Failed to list categories for store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return categories, nil
}

func (s *storeCategoryService) UpdateStoreCategory(id uint, name string) (*model.StoreCategory, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreCategoryNotFound
		}
		logger.Error("Failed to fetch store category for update", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	if name != "" {
		category.Category = name
	}

	if err := s.categoryRepo.Update(category); err != nil {
		logger.Error("Failed to update store category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

func (s *storeCategoryService) DeleteStoreCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreCategoryNotFound
		}
		return err
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Error("Failed to delete store category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}
