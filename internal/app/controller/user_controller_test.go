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

func setupUserControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	userService := service.NewUserService(userRepo)

	ctrl := NewUserController(userService)

	router := gin.New()
	router.POST("/users", ctrl.CreateUser)
	router.GET("/users", ctrl.GetAllUsers)
	router.GET("/users/admin/allusers", ctrl.GetAllCustomers)
	router.GET("/users/:id", ctrl.GetUserByID)
	router.PUT("/users/:id", ctrl.UpdateUser)
	router.DELETE("/users/:id", ctrl.DeleteUser)

	return router, testDB
}

func TestUserController_CreateUser(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(router, "/users", gin.H{
		"name":     "Test User",
		"email":    "new@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "new@example.com", user.Email)
	// The hash never appears in the response body
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "password123")
}

func TestUserController_CreateUser_MissingPassword(t *testing.T) {
	router, testDB := setupUserControllerTest(t)

	w := postJSON(router, "/users", gin.H{
		"name":  "Test User",
		"email": "new@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email and password are required")

	// Nothing was written
	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUserController_CreateUser_DuplicateEmail(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(router, "/users", gin.H{
		"email":    "dup@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/users", gin.H{
		"email":    "dup@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestUserController_GetUserByID_NotFound(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest("GET", "/users/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestUserController_GetUserByID_InvalidID(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest("GET", "/users/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserController_GetAllCustomers(t *testing.T) {
	router, testDB := setupUserControllerTest(t)

	testDB.Create(&model.User{
		Name: "Customer", Email: "c@example.com", PasswordHash: "secret-hash", Role: model.RoleUser,
	})
	testDB.Create(&model.User{
		Name: "Admin", Email: "a@example.com", PasswordHash: "secret-hash", Role: model.RoleAdmin,
	})

	req := httptest.NewRequest("GET", "/users/admin/allusers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "c@example.com", users[0]["email"])
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestUserController_UpdateUser(t *testing.T) {
	router, testDB := setupUserControllerTest(t)

	user := &model.User{
		Name: "Original", Email: "u@example.com", PasswordHash: "hash", Role: model.RoleUser,
	}
	testDB.Create(user)

	w := putJSON(router, fmt.Sprintf("/users/%d", user.ID), gin.H{
		"name": "Renamed",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "u@example.com", updated.Email)
}

func TestUserController_DeleteUser(t *testing.T) {
	router, testDB := setupUserControllerTest(t)

	user := &model.User{
		Name: "Doomed", Email: "d@example.com", PasswordHash: "hash", Role: model.RoleUser,
	}
	testDB.Create(user)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/users/%d", user.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
