package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

type CreateStoreRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	OwnerID     uint     `json:"ownerId"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	PictureURL  string   `json:"pictureUrl"`
}

type UpdateStoreRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	PictureURL  *string  `json:"pictureUrl"`
}

// CreateStore registers a store and broadcasts it to websocket listeners
// POST /stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	ownerID := req.OwnerID
	if userID, ok := middleware.GetUserID(c); ok && ownerID == 0 {
		ownerID = userID
	}

	store := &model.Store{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PictureURL:  req.PictureURL,
	}

	if err := ctrl.storeService.CreateStore(store); err != nil {
		log.Error("Failed to create store", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apierrors.InternalError(c, "Error creating store")
		return
	}

	c.JSON(http.StatusCreated, store)
}

// GetAllStores lists stores, optionally limited
// GET /stores?limit=
func (ctrl *StoreController) GetAllStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Limit must be a number")
			return
		}
		limit = parsed
	}

	stores, err := ctrl.storeService.ListStores(limit)
	if err != nil {
		log.Error("Failed to fetch stores", err, nil)
		apierrors.InternalError(c, "Error fetching stores")
		return
	}

	c.JSON(http.StatusOK, stores)
}

// GetNearbyStores returns stores within a radius of a point, nearest first
// GET /stores/nearby?lat=&lon=&radius=&limit=
func (ctrl *StoreController) GetNearbyStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Latitude and longitude are required")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Invalid latitude or longitude")
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Invalid latitude or longitude")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Limit must be a number")
			return
		}
	}

	radius := 0.0
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Radius must be a number")
			return
		}
	}

	stores, err := ctrl.storeService.Nearby(lat, lon, radius, limit)
	if err != nil {
		log.Error("Failed to search nearby stores", err, map[string]interface{}{
			"lat": lat,
			"lon": lon,
		})
		apierrors.InternalError(c, "Error searching stores")
		return
	}

	c.JSON(http.StatusOK, stores)
}

// GetStoreByID returns one store
// GET /stores/:id
func (ctrl *StoreController) GetStoreByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStoreByID(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apierrors.NotFound(c, apierrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, store)
}

// UpdateStore merges the provided fields into the store
// PUT /stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	store, err := ctrl.storeService.UpdateStore(id, service.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PictureURL:  req.PictureURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apierrors.NotFound(c, apierrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to update store", err, map[string]interface{}{
			"store_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, store)
}

// DeleteStore removes a store
// DELETE /stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.storeService.DeleteStore(id); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apierrors.NotFound(c, apierrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
