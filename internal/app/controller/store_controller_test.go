package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	"github.com/vestiapp/vesti-backend/internal/db"
)

func setupStoreControllerTest(t *testing.T) (*gin.Engine, *model.User, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	storeRepo := repository.NewStoreRepository(testDB)
	storeService := service.NewStoreService(storeRepo, nil)

	ctrl := NewStoreController(storeService)

	router := gin.New()
	router.POST("/stores", ctrl.CreateStore)
	router.GET("/stores", ctrl.GetAllStores)
	router.GET("/stores/nearby", ctrl.GetNearbyStores)
	router.GET("/stores/:id", ctrl.GetStoreByID)
	router.PUT("/stores/:id", ctrl.UpdateStore)
	router.DELETE("/stores/:id", ctrl.DeleteStore)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Store Owner",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	return router, owner, testDB
}

func seedStoreAt(t *testing.T, testDB *gorm.DB, ownerID uint, name string, lat, lng float64) *model.Store {
	store := &model.Store{
		OwnerID:   ownerID,
		Name:      name,
		Latitude:  &lat,
		Longitude: &lng,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func TestStoreController_GetNearbyStores(t *testing.T) {
	router, owner, testDB := setupStoreControllerTest(t)

	seedStoreAt(t, testDB, owner.ID, "Close", 40.7138, -74.0060)
	seedStoreAt(t, testDB, owner.ID, "Far", 41.5, -74.0060)

	req := httptest.NewRequest("GET", "/stores/nearby?lat=40.7128&lon=-74.0060&radius=2000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stores []struct {
		Name     string  `json:"name"`
		Distance float64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stores))
	require.Len(t, stores, 1)
	assert.Equal(t, "Close", stores[0].Name)
	assert.Greater(t, stores[0].Distance, 0.0)
}

func TestStoreController_GetNearbyStores_MissingCoordinates(t *testing.T) {
	router, _, _ := setupStoreControllerTest(t)

	for _, path := range []string{
		"/stores/nearby",
		"/stores/nearby?lat=40.7",
		"/stores/nearby?lon=-74.0",
	} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Latitude and longitude are required")
	}
}

func TestStoreController_GetNearbyStores_InvalidCoordinates(t *testing.T) {
	router, _, _ := setupStoreControllerTest(t)

	req := httptest.NewRequest("GET", "/stores/nearby?lat=abc&lon=-74.0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid latitude or longitude")
}

func TestStoreController_GetNearbyStores_InvalidLimitAndRadius(t *testing.T) {
	router, _, _ := setupStoreControllerTest(t)

	req := httptest.NewRequest("GET", "/stores/nearby?lat=40.7&lon=-74.0&limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Limit must be a number")

	req = httptest.NewRequest("GET", "/stores/nearby?lat=40.7&lon=-74.0&radius=abc", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Radius must be a number")
}

func TestStoreController_GetAllStores_Limit(t *testing.T) {
	router, owner, testDB := setupStoreControllerTest(t)

	for i := 0; i < 3; i++ {
		seedStoreAt(t, testDB, owner.ID, "Store", 40.0, -74.0)
	}

	req := httptest.NewRequest("GET", "/stores?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stores []model.Store
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stores))
	assert.Len(t, stores, 2)
}

func TestStoreController_GetAllStores_InvalidLimit(t *testing.T) {
	router, _, _ := setupStoreControllerTest(t)

	req := httptest.NewRequest("GET", "/stores?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Limit must be a number")
}

func TestStoreController_CreateStore(t *testing.T) {
	router, owner, _ := setupStoreControllerTest(t)

	w := postJSON(router, "/stores", gin.H{
		"ownerId":     owner.ID,
		"name":        "New Boutique",
		"description": "Vintage clothing",
		"latitude":    40.7128,
		"longitude":   -74.0060,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var store model.Store
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &store))
	assert.Equal(t, "New Boutique", store.Name)
	assert.NotZero(t, store.ID)
}

func TestStoreController_GetStoreByID_NotFound(t *testing.T) {
	router, _, _ := setupStoreControllerTest(t)

	req := httptest.NewRequest("GET", "/stores/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Store not found")
}

func TestStoreController_UpdateStore(t *testing.T) {
	router, owner, testDB := setupStoreControllerTest(t)
	store := seedStoreAt(t, testDB, owner.ID, "Old Name", 40.0, -74.0)

	w := putJSON(router, fmt.Sprintf("/stores/%d", store.ID), gin.H{
		"name": "New Name",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.Store
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "New Name", updated.Name)
}

func TestStoreController_DeleteStore(t *testing.T) {
	router, owner, testDB := setupStoreControllerTest(t)
	store := seedStoreAt(t, testDB, owner.ID, "Doomed", 40.0, -74.0)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/stores/%d", store.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	testDB.Model(&model.Store{}).Where("id = ?", store.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
