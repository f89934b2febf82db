package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type DiscountController struct {
	discountService service.DiscountService
}

func NewDiscountController(discountService service.DiscountService) *DiscountController {
	return &DiscountController{
		discountService: discountService,
	}
}

type CreateDiscountRequest struct {
	StoreID    uint       `json:"storeId" binding:"required"`
	ProductID  uint       `json:"productId" binding:"required"`
	Percentage float64    `json:"percentage" binding:"required,gt=0,lte=100"`
	Active     *bool      `json:"active"`
	StartDate  *time.Time `json:"startDate"`
}

type UpdateDiscountRequest struct {
	Percentage *float64   `json:"percentage"`
	Active     *bool      `json:"active"`
	StartDate  *time.Time `json:"startDate"`
}

type DisableDiscountRequest struct {
	DiscountID uint `json:"discountId"`
}

// CreateDiscount writes a raw discount row
// POST /discounts
func (ctrl *DiscountController) CreateDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	discount := &model.Discount{
		StoreID:    req.StoreID,
		ProductID:  req.ProductID,
		Percentage: req.Percentage,
		Active:     true,
	}
	if req.Active != nil {
		discount.Active = *req.Active
	}
	if req.StartDate != nil {
		discount.StartDate = *req.StartDate
	}

	if err := ctrl.discountService.CreateDiscount(discount); err != nil {
		log.Error("Failed to create discount", err, map[string]interface{}{
			"store_id": req.StoreID,
		})
		apierrors.InternalError(c, "Error creating discount")
		return
	}

	c.JSON(http.StatusCreated, discount)
}

// GetAllDiscounts lists every discount row
// GET /discounts
func (ctrl *DiscountController) GetAllDiscounts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	discounts, err := ctrl.discountService.ListDiscounts()
	if err != nil {
		log.Error("Failed to fetch discounts", err, nil)
		apierrors.InternalError(c, "Error fetching discounts")
		return
	}

	c.JSON(http.StatusOK, discounts)
}

// GetActiveDiscounts lists a store's running discounts
// GET /discounts/active?storeId=
func (ctrl *DiscountController) GetActiveDiscounts(c *gin.Context) {
	ctrl.listByStore(c, true, "No active discounts found")
}

// GetDiscountHistory lists a store's ended discounts
// GET /discounts/history?storeId=
func (ctrl *DiscountController) GetDiscountHistory(c *gin.Context) {
	ctrl.listByStore(c, false, "No past discounts found")
}

func (ctrl *DiscountController) listByStore(c *gin.Context, active bool, emptyMessage string) {
	log := middleware.GetLoggerFromContext(c)

	storeIDStr := c.Query("storeId")
	if storeIDStr == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "storeId is required")
		return
	}
	storeID, err := strconv.ParseUint(storeIDStr, 10, 32)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid storeId")
		return
	}

	var discounts []model.Discount
	if active {
		discounts, err = ctrl.discountService.ActiveDiscounts(uint(storeID))
	} else {
		discounts, err = ctrl.discountService.DiscountHistory(uint(storeID))
	}
	if err != nil {
		log.Error("Failed to fetch discounts for store", err, map[string]interface{}{
			"store_id": storeID,
			"active":   active,
		})
		apierrors.InternalError(c, "Server error")
		return
	}

	if len(discounts) == 0 {
		apierrors.NotFound(c, apierrors.DiscountNotFound, emptyMessage)
		return
	}

	c.JSON(http.StatusOK, discounts)
}

// UpdateDiscount merges the provided fields into a discount row
// PUT /discounts/:id
func (ctrl *DiscountController) UpdateDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	discount, err := ctrl.discountService.UpdateDiscount(id, service.UpdateDiscountInput{
		Percentage: req.Percentage,
		Active:     req.Active,
		StartDate:  req.StartDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			apierrors.NotFound(c, apierrors.DiscountNotFound, "Discount not found")
			return
		}
		log.Error("Failed to update discount", err, map[string]interface{}{
			"discount_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, discount)
}

// DeleteDiscount removes a discount row
// DELETE /discounts/:id
func (ctrl *DiscountController) DeleteDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.discountService.DeleteDiscount(id); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			apierrors.NotFound(c, apierrors.DiscountNotFound, "Discount not found")
			return
		}
		log.Error("Failed to delete discount", err, map[string]interface{}{
			"discount_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// DisableDiscount ends a discount and clears its notifications
// POST /discounts/disable
func (ctrl *DiscountController) DisableDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DisableDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DiscountID == 0 {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Discount ID is required")
		return
	}

	if err := ctrl.discountService.DisableDiscount(req.DiscountID); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			apierrors.NotFound(c, apierrors.DiscountNotFound, "Discount not found")
			return
		}
		log.Error("Failed to disable discount", err, map[string]interface{}{
			"discount_id": req.DiscountID,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount disabled and notifications removed successfully",
	})
}
