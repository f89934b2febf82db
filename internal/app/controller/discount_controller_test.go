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

func setupDiscountControllerTest(t *testing.T) (*gin.Engine, *model.Store, *model.Product, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	discountRepo := repository.NewDiscountRepository(testDB)
	discountService := service.NewDiscountService(discountRepo, nil, "nearby_stores", testDB)

	ctrl := NewDiscountController(discountService)

	router := gin.New()
	router.POST("/discounts", ctrl.CreateDiscount)
	router.GET("/discounts", ctrl.GetAllDiscounts)
	router.GET("/discounts/active", ctrl.GetActiveDiscounts)
	router.GET("/discounts/history", ctrl.GetDiscountHistory)
	router.POST("/discounts/disable", ctrl.DisableDiscount)
	router.PUT("/discounts/:id", ctrl.UpdateDiscount)
	router.DELETE("/discounts/:id", ctrl.DeleteDiscount)

	owner := &model.User{
		Email:        "discounter@example.com",
		PasswordHash: "hash",
		Name:         "Discounter",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	store := &model.Store{OwnerID: owner.ID, Name: "Sale Store"}
	testDB.Create(store)

	product := &model.Product{
		StoreID:     store.ID,
		Name:        "Linen Shirt",
		Description: "Summer fit",
		Price:       30,
		Category:    "shirts",
	}
	testDB.Create(product)

	return router, store, product, testDB
}

func seedDiscount(t *testing.T, testDB *gorm.DB, storeID, productID uint, percentage float64, active bool) *model.Discount {
	discount := &model.Discount{
		StoreID:    storeID,
		ProductID:  productID,
		Percentage: percentage,
		Active:     active,
	}
	require.NoError(t, testDB.Create(discount).Error)
	return discount
}

func TestDiscountController_CreateDiscount(t *testing.T) {
	router, store, product, _ := setupDiscountControllerTest(t)

	w := postJSON(router, "/discounts", gin.H{
		"storeId":    store.ID,
		"productId":  product.ID,
		"percentage": 25,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var discount model.Discount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &discount))
	assert.Equal(t, 25.0, discount.Percentage)
	assert.True(t, discount.Active)
}

func TestDiscountController_CreateDiscount_InvalidPercentage(t *testing.T) {
	router, store, product, _ := setupDiscountControllerTest(t)

	tests := []struct {
		name       string
		percentage float64
	}{
		{name: "zero", percentage: 0},
		{name: "negative", percentage: -5},
		{name: "over 100", percentage: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/discounts", gin.H{
				"storeId":    store.ID,
				"productId":  product.ID,
				"percentage": tt.percentage,
			})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid request data")
		})
	}
}

func TestDiscountController_GetActiveDiscounts(t *testing.T) {
	router, store, product, testDB := setupDiscountControllerTest(t)

	seedDiscount(t, testDB, store.ID, product.ID, 20, true)
	seedDiscount(t, testDB, store.ID, product.ID, 10, false)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discounts/active?storeId=%d", store.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var discounts []model.Discount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &discounts))
	require.Len(t, discounts, 1)
	assert.Equal(t, 20.0, discounts[0].Percentage)
}

func TestDiscountController_GetActiveDiscounts_MissingStoreID(t *testing.T) {
	router, _, _, _ := setupDiscountControllerTest(t)

	req := httptest.NewRequest("GET", "/discounts/active", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "storeId is required")
}

func TestDiscountController_GetActiveDiscounts_InvalidStoreID(t *testing.T) {
	router, _, _, _ := setupDiscountControllerTest(t)

	req := httptest.NewRequest("GET", "/discounts/active?storeId=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid storeId")
}

func TestDiscountController_GetActiveDiscounts_Empty(t *testing.T) {
	router, store, _, _ := setupDiscountControllerTest(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discounts/active?storeId=%d", store.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No active discounts found")
}

func TestDiscountController_GetDiscountHistory_Empty(t *testing.T) {
	router, store, product, testDB := setupDiscountControllerTest(t)

	seedDiscount(t, testDB, store.ID, product.ID, 20, true)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discounts/history?storeId=%d", store.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No past discounts found")
}

func TestDiscountController_DisableDiscount(t *testing.T) {
	router, store, product, testDB := setupDiscountControllerTest(t)

	discount := seedDiscount(t, testDB, store.ID, product.ID, 20, true)
	testDB.Create(&model.Notification{
		UserID:     store.OwnerID,
		StoreID:    store.ID,
		DiscountID: &discount.ID,
		Message:    "20% off Linen Shirt",
	})

	w := postJSON(router, "/discounts/disable", gin.H{"discountId": discount.ID})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Discount disabled and notifications removed successfully")

	var updated model.Discount
	require.NoError(t, testDB.First(&updated, discount.ID).Error)
	assert.False(t, updated.Active)

	var count int64
	testDB.Model(&model.Notification{}).Where("discount_id = ?", discount.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDiscountController_DisableDiscount_MissingID(t *testing.T) {
	router, _, _, _ := setupDiscountControllerTest(t)

	w := postJSON(router, "/discounts/disable", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Discount ID is required")
}

func TestDiscountController_DisableDiscount_NotFound(t *testing.T) {
	router, _, _, _ := setupDiscountControllerTest(t)

	w := postJSON(router, "/discounts/disable", gin.H{"discountId": 9999})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Discount not found")
}

func TestDiscountController_UpdateDiscount(t *testing.T) {
	router, store, product, testDB := setupDiscountControllerTest(t)

	discount := seedDiscount(t, testDB, store.ID, product.ID, 20, true)

	w := putJSON(router, fmt.Sprintf("/discounts/%d", discount.ID), gin.H{"percentage": 35})

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.Discount
	require.NoError(t, testDB.First(&updated, discount.ID).Error)
	assert.Equal(t, 35.0, updated.Percentage)
}

func TestDiscountController_DeleteDiscount(t *testing.T) {
	router, store, product, testDB := setupDiscountControllerTest(t)

	discount := seedDiscount(t, testDB, store.ID, product.ID, 20, true)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/discounts/%d", discount.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	testDB.Model(&model.Discount{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDiscountController_DeleteDiscount_NotFound(t *testing.T) {
	router, _, _, _ := setupDiscountControllerTest(t)

	req := httptest.NewRequest("DELETE", "/discounts/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Discount not found")
}
