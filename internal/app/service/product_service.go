package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// UpdateProductInput lists the mutable product fields. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Price           *float64
	Category        *string
	ImageURL        *string
	AvailableColors *model.StringArray
	AvailableSizes  *model.StringArray
}

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProductByID(id uint) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	ListProductsByCategory(category string) ([]model.Product, error)
	ListProductsByStore(storeID uint) ([]model.Product, error)
	UpdateProduct(id uint, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewProductService(productRepo repository.ProductRepository, db *gorm.DB) ProductService {
	return &productService{
		productRepo: productRepo,
		db:          db,
	}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"store_id": product.StoreID,
		"name":     product.Name,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"store_id": product.StoreID,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}
	return products, nil
}

func (s *productService) ListProductsByCategory(category string) ([]model.Product, error) {
	products, err := s.productRepo.FindByCategory(category)
	if err != nil {
		logger.Error("Failed to list products by category", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) ListProductsByStore(storeID uint) ([]model.Product, error) {
	products, err := s.productRepo.FindByStoreID(storeID)
	if err != nil {
		logger.Error("Failed to list products by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) UpdateProduct(id uint, input UpdateProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.AvailableColors != nil {
		product.AvailableColors = *input.AvailableColors
	}
	if input.AvailableSizes != nil {
		product.AvailableSizes = *input.AvailableSizes
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

// DeleteProduct removes a product together with any cart lines that still
// reference it.
func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	tx := s.db.Begin()
	removed, err := removeProductLines(tx, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&model.Product{}, id).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id":    id,
		"removed_items": removed,
	})
	return nil
}
