package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type StoreCategoryController struct {
	categoryService service.StoreCategoryService
}

func NewStoreCategoryController(categoryService service.StoreCategoryService) *StoreCategoryController {
	return &StoreCategoryController{
		categoryService: categoryService,
	}
}

type CreateStoreCategoryRequest struct {
	StoreID  uint   `json:"storeId" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type UpdateStoreCategoryRequest struct {
	Category string `json:"category"`
}

// CreateStoreCategory tags a store with a category
// POST /store-categories
func (ctrl *StoreCategoryController) CreateStoreCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateStoreCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category := &model.StoreCategory{
		StoreID:  req.StoreID,
		Category: req.Category,
	}

	if err := ctrl.categoryService.CreateStoreCategory(category); err != nil {
		log.Error("Failed to create store category", err, map[string]interface{}{
			"store_id": req.StoreID,
		})
		apierrors.InternalError(c, "Error creating store category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetAllStoreCategories lists every store-category tag
// GET /store-categories
func (ctrl *StoreCategoryController) GetAllStoreCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListStoreCategories()
	if err != nil {
		log.Error("Failed to fetch store categories", err, nil)
		apierrors.InternalError(c, "Error fetching store categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetStoreCategoryByID returns one tag
// GET /store-categories/:id
func (ctrl *StoreCategoryController) GetStoreCategoryByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetStoreCategoryByID(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreCategoryNotFound) {
			apierrors.NotFound(c, apierrors.StoreCategoryNotFound, "Store category not found")
			return
		}
		log.Error("Failed to fetch store category", err, map[string]interface{}{
			"category_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateStoreCategory renames a tag
// PUT /store-categories/:id
func (ctrl *StoreCategoryController) UpdateStoreCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category, err := ctrl.categoryService.UpdateStoreCategory(id, req.Category)
	if err != nil {
		if errors.Is(err, service.ErrStoreCategoryNotFound) {
			apierrors.NotFound(c, apierrors.StoreCategoryNotFound, "Store category not found")
			return
		}
		log.Error("Failed to update store category", err, map[string]interface{}{
			"category_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteStoreCategory removes a tag
// DELETE /store-categories/:id
func (ctrl *StoreCategoryController) DeleteStoreCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteStoreCategory(id); err != nil {
		if errors.Is(err, service.ErrStoreCategoryNotFound) {
			apierrors.NotFound(c, apierrors.StoreCategoryNotFound, "Store category not found")
			return
		}
		log.Error("Failed to delete store category", err, map[string]interface{}{
			"category_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
