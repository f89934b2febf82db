package service

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"github.com/vestiapp/vesti-backend/pkg/util"
)

var (
	ErrStoreNotFound = errors.New("store not found")
)

const (
	// DefaultNearbyRadius is the search radius in meters used when the
	// caller does not supply one.
	DefaultNearbyRadius = 5000.0
	// DefaultNearbyLimit caps the number of nearby stores returned.
	DefaultNearbyLimit = 10
)

// StoreEventSink receives store lifecycle events. Delivery is best-effort;
// implementations must never block the caller.
type StoreEventSink interface {
	StoreCreated(store *model.Store)
}

// NearbyStore pairs a store with its distance in meters from the query point.
type NearbyStore struct {
	model.Store
	Distance float64 `json:"distance"`
}

// UpdateStoreInput lists the mutable store fields. Nil fields are left
// untouched.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	PictureURL  *string
}

type StoreService interface {
	CreateStore(store *model.Store) error
	GetStoreByID(id uint) (*model.Store, error)
	GetStoreByOwner(ownerID uint) (*model.Store, error)
	ListStores(limit int) ([]model.Store, error)
	UpdateStore(id uint, input UpdateStoreInput) (*model.Store, error)
	DeleteStore(id uint) error
	Nearby(latitude, longitude, radius float64, limit int) ([]NearbyStore, error)
}

type storeService struct {
	storeRepo   repository.StoreRepository
	storeEvents StoreEventSink
}

func NewStoreService(storeRepo repository.StoreRepository, storeEvents StoreEventSink) StoreService {
	return &storeService{
		storeRepo:   storeRepo,
		storeEvents: storeEvents,
	}
}

func (s *storeService) CreateStore(store *model.Store) error {
	logger.Info("Creating store", map[string]interface{}{
		"owner_id": store.OwnerID,
		"name":     store.Name,
	})

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"owner_id": store.OwnerID,
		})
		return err
	}

	// Broadcast is fire-and-forget; a failed or absent sink never fails
	// the creation.
	if s.storeEvents != nil {
		s.storeEvents.StoreCreated(store)
	}

	logger.Info("Store created successfully", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

func (s *storeService) GetStoreByID(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStoreByOwner(ownerID uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) ListStores(limit int) ([]model.Store, error) {
	stores, err := s.storeRepo.FindAll(limit)
	if err != nil {
		logger.Error("Failed to list stores", err, nil)
		return nil, err
	}
	return stores, nil
}

func (s *storeService) UpdateStore(id uint, input UpdateStoreInput) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store for update", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Latitude != nil {
		store.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		store.Longitude = input.Longitude
	}
	if input.PictureURL != nil {
		store.PictureURL = *input.PictureURL
	}

	if err := s.storeRepo.Update(store); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": id,
	})
	return store, nil
}

func (s *storeService) DeleteStore(id uint) error {
	if _, err := s.storeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	if err := s.storeRepo.Delete(id); err != nil {
		logger.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

// Nearby returns stores strictly within radius meters of the query point,
// nearest first. Stores without coordinates are never candidates.
func (s *storeService) Nearby(latitude, longitude, radius float64, limit int) ([]NearbyStore, error) {
	if radius <= 0 {
		radius = DefaultNearbyRadius
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}

	logger.Debug("Searching nearby stores", map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
		"radius":    radius,
		"limit":     limit,
	})

	stores, err := s.storeRepo.FindAllLocated()
	if err != nil {
		logger.Error("Failed to fetch stores for proximity search", err, nil)
		return nil, err
	}

	nearby := make([]NearbyStore, 0, len(stores))
	for _, store := range stores {
		if store.Latitude == nil || store.Longitude == nil {
			continue
		}
		distance := util.DistanceMeters(latitude, longitude, *store.Latitude, *store.Longitude)
		if distance < radius {
			nearby = append(nearby, NearbyStore{Store: store, Distance: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	logger.Info("Nearby stores resolved", map[string]interface{}{
		"count": len(nearby),
	})
	return nearby, nil
}
