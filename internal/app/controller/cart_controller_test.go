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

func setupCartControllerTest(t *testing.T) (*gin.Engine, service.CartService, *model.User, *model.Store, *model.Product, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	orderItemRepo := repository.NewOrderItemRepository(testDB)
	cartService := service.NewCartService(orderRepo, orderItemRepo, testDB)

	ctrl := NewCartController(cartService)

	router := gin.New()
	router.GET("/order-items/cart", ctrl.GetCart)
	router.GET("/order-items", ctrl.GetAllOrderItems)
	router.GET("/order-items/:id", ctrl.GetOrderItemByID)
	router.POST("/order-items", ctrl.CreateOrderItem)
	router.PUT("/order-items/:id", ctrl.UpdateOrderItem)
	router.DELETE("/order-items/product/:productId", ctrl.DeleteOrderItemsByProduct)
	router.DELETE("/order-items/:id", ctrl.DeleteOrderItem)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Test Shopper",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	store := &model.Store{OwnerID: user.ID, Name: "Test Store"}
	testDB.Create(store)

	product := &model.Product{
		StoreID:  store.ID,
		Name:     "Denim Jacket",
		Price:    10,
		Category: "jackets",
	}
	testDB.Create(product)

	return router, cartService, user, store, product, testDB
}

func TestCartController_GetCart(t *testing.T) {
	router, cartService, user, store, product, _ := setupCartControllerTest(t)

	_, err := cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  2,
		Sizes:     model.StringArray{"M"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", fmt.Sprintf("/order-items/cart?userId=%d", user.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		CartItems []struct {
			ProductID uint     `json:"productId"`
			Name      string   `json:"name"`
			Price     float64  `json:"price"`
			Quantity  int      `json:"quantity"`
			Sizes     []string `json:"sizes"`
			StoreID   uint     `json:"storeId"`
		} `json:"cartItems"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.CartItems, 1)
	assert.Equal(t, product.ID, response.CartItems[0].ProductID)
	assert.Equal(t, "Denim Jacket", response.CartItems[0].Name)
	assert.Equal(t, 10.0, response.CartItems[0].Price)
	assert.Equal(t, 2, response.CartItems[0].Quantity)
	assert.Equal(t, store.ID, response.CartItems[0].StoreID)
	assert.Equal(t, 20.0, response.TotalAmount)
}

func TestCartController_GetCart_NoPendingOrder(t *testing.T) {
	router, _, user, _, _, _ := setupCartControllerTest(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/order-items/cart?userId=%d", user.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No pending order found")
}

func TestCartController_GetCart_InvalidUserID(t *testing.T) {
	router, _, _, _, _, _ := setupCartControllerTest(t)

	req := httptest.NewRequest("GET", "/order-items/cart?userId=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_DeleteOrderItemsByProduct(t *testing.T) {
	router, cartService, user, store, product, testDB := setupCartControllerTest(t)

	_, err := cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/order-items/product/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order item(s) deleted successfully")

	var count int64
	testDB.Model(&model.OrderItem{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartController_DeleteOrderItemsByProduct_NotFound(t *testing.T) {
	router, _, _, _, _, _ := setupCartControllerTest(t)

	req := httptest.NewRequest("DELETE", "/order-items/product/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order item not found")
}

func TestCartController_UpdateOrderItem(t *testing.T) {
	router, cartService, user, store, product, _ := setupCartControllerTest(t)

	item, err := cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	w := putJSON(router, fmt.Sprintf("/order-items/%d", item.ID), gin.H{
		"quantity": 4,
		"sizes":    []string{"XL"},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.OrderItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, model.StringArray{"XL"}, updated.Sizes)
}

func TestCartController_CreateOrderItem(t *testing.T) {
	router, _, user, store, product, testDB := setupCartControllerTest(t)

	order := &model.Order{UserID: user.ID, StoreID: store.ID, Status: model.OrderStatusPending}
	testDB.Create(order)

	w := postJSON(router, "/order-items", gin.H{
		"orderId":         order.ID,
		"productId":       product.ID,
		"quantity":        2,
		"priceAtPurchase": 10,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	// Order total follows the raw line write
	var stored model.Order
	require.NoError(t, testDB.First(&stored, order.ID).Error)
	assert.Equal(t, 20.0, stored.TotalAmount)
}

func TestCartController_DeleteOrderItem_RecalculatesTotal(t *testing.T) {
	router, cartService, user, store, product, testDB := setupCartControllerTest(t)

	first, err := cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/order-items/%d", first.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var order model.Order
	require.NoError(t, testDB.First(&order, first.OrderID).Error)
	assert.Equal(t, 10.0, order.TotalAmount)
}

func TestCartController_GetOrderItemByID_NotFound(t *testing.T) {
	router, _, _, _, _, _ := setupCartControllerTest(t)

	req := httptest.NewRequest("GET", "/order-items/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order item not found")
}

func TestCartController_GetAllOrderItems(t *testing.T) {
	router, cartService, user, store, product, _ := setupCartControllerTest(t)

	_, err := cartService.AddToCart(user.ID, store.ID, service.CartItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/order-items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var items []model.OrderItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}
