package repository

import (
	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindByOwnerID(ownerID uint) (*model.Store, error)
	FindAll(limit int) ([]model.Store, error)
	FindAllLocated() ([]model.Store, error)
	BulkCreate(stores []model.Store, batchSize int) error
	Update(store *model.Store) error
	Delete(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"owner_id": store.OwnerID,
			"name":     store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
	})
	return nil
}

func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	if err := r.db.CreateInBatches(stores, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create stores", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}

	logger.Info("Stores bulk created", map[string]interface{}{
		"count": len(stores),
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByOwnerID(ownerID uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindAll returns stores, optionally capped. limit <= 0 returns everything.
func (r *storeRepository) FindAll(limit int) ([]model.Store, error) {
	var stores []model.Store
	query := r.db
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to list stores", err)
		return nil, err
	}
	return stores, nil
}

// FindAllLocated returns stores that have a geographic point set.
func (r *storeRepository) FindAllLocated() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&stores).Error; err != nil {
		logger.Error("Failed to list located stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) Update(store *model.Store) error {
	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Store{}, id).Error; err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}
	return nil
}
