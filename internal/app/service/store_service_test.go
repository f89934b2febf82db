package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/db"
)

type recordingEventSink struct {
	mu     sync.Mutex
	stores []*model.Store
}

func (s *recordingEventSink) StoreCreated(store *model.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = append(s.stores, store)
}

func (s *recordingEventSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

func setupStoreServiceTest(t *testing.T) (StoreService, *recordingEventSink, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sink := &recordingEventSink{}
	storeRepo := repository.NewStoreRepository(testDB)
	storeService := NewStoreService(storeRepo, sink)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Store Owner",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	return storeService, sink, owner, testDB
}

func createStoreAt(t *testing.T, testDB *gorm.DB, ownerID uint, name string, lat, lng float64) *model.Store {
	store := &model.Store{
		OwnerID:   ownerID,
		Name:      name,
		Latitude:  &lat,
		Longitude: &lng,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func TestStoreService_CreateStore_BroadcastsEvent(t *testing.T) {
	storeService, sink, owner, _ := setupStoreServiceTest(t)

	store := &model.Store{
		OwnerID: owner.ID,
		Name:    "New Boutique",
	}
	require.NoError(t, storeService.CreateStore(store))
	assert.NotZero(t, store.ID)
	assert.Equal(t, 1, sink.count())
}

func TestStoreService_Nearby_FiltersByRadius(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	// Query point is (40.7128, -74.0060); one store right there, one
	// ~1.1 km north, one far away
	createStoreAt(t, testDB, owner.ID, "Here", 40.7128, -74.0060)
	createStoreAt(t, testDB, owner.ID, "Close", 40.7228, -74.0060)
	createStoreAt(t, testDB, owner.ID, "Far", 41.5, -74.0060)

	nearby, err := storeService.Nearby(40.7128, -74.0060, 2000, 10)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "Here", nearby[0].Name)
	assert.Equal(t, "Close", nearby[1].Name)
	assert.Less(t, nearby[0].Distance, nearby[1].Distance)
}

func TestStoreService_Nearby_RadiusIsExclusive(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	// ~1112 m due north of the query point
	createStoreAt(t, testDB, owner.ID, "Edge", 40.7228, -74.0060)

	nearby, err := storeService.Nearby(40.7128, -74.0060, 1100, 10)
	require.NoError(t, err)
	assert.Len(t, nearby, 0)

	nearby, err = storeService.Nearby(40.7128, -74.0060, 1200, 10)
	require.NoError(t, err)
	assert.Len(t, nearby, 1)
}

func TestStoreService_Nearby_SkipsStoresWithoutCoordinates(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	unlocated := &model.Store{
		OwnerID: owner.ID,
		Name:    "No Location",
	}
	require.NoError(t, testDB.Create(unlocated).Error)
	createStoreAt(t, testDB, owner.ID, "Located", 40.7128, -74.0060)

	nearby, err := storeService.Nearby(40.7128, -74.0060, 5000, 10)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "Located", nearby[0].Name)
}

func TestStoreService_Nearby_AppliesLimit(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	createStoreAt(t, testDB, owner.ID, "A", 40.7129, -74.0060)
	createStoreAt(t, testDB, owner.ID, "B", 40.7130, -74.0060)
	createStoreAt(t, testDB, owner.ID, "C", 40.7131, -74.0060)

	nearby, err := storeService.Nearby(40.7128, -74.0060, 5000, 2)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "A", nearby[0].Name)
	assert.Equal(t, "B", nearby[1].Name)
}

func TestStoreService_Nearby_Defaults(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	// 12 stores inside the default 5 km radius; default limit caps at 10
	for i := 0; i < 12; i++ {
		createStoreAt(t, testDB, owner.ID, "Store", 40.7128+float64(i)*0.0001, -74.0060)
	}

	nearby, err := storeService.Nearby(40.7128, -74.0060, 0, 0)
	require.NoError(t, err)
	assert.Len(t, nearby, DefaultNearbyLimit)
}

func TestStoreService_UpdateStore(t *testing.T) {
	storeService, _, owner, testDB := setupStoreServiceTest(t)

	store := createStoreAt(t, testDB, owner.ID, "Old Name", 40.0, -74.0)

	name := "New Name"
	lat := 41.0
	updated, err := storeService.UpdateStore(store.ID, UpdateStoreInput{
		Name:     &name,
		Latitude: &lat,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	require.NotNil(t, updated.Latitude)
	assert.Equal(t, 41.0, *updated.Latitude)
	// Untouched fields survive
	require.NotNil(t, updated.Longitude)
	assert.Equal(t, -74.0, *updated.Longitude)
}

func TestStoreService_UpdateStore_NotFound(t *testing.T) {
	storeService, _, _, _ := setupStoreServiceTest(t)

	name := "Anything"
	_, err := storeService.UpdateStore(9999, UpdateStoreInput{Name: &name})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_DeleteStore_NotFound(t *testing.T) {
	storeService, _, _, _ := setupStoreServiceTest(t)

	err := storeService.DeleteStore(9999)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
