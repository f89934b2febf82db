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

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

type CreateNotificationRequest struct {
	UserID     uint   `json:"userId" binding:"required"`
	StoreID    uint   `json:"storeId" binding:"required"`
	DiscountID *uint  `json:"discountId"`
	Message    string `json:"message" binding:"required"`
}

type UpdateNotificationRequest struct {
	Message *string `json:"message"`
	Read    *bool   `json:"read"`
}

type SendPushRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// CreateNotification writes an in-app notification
// POST /notifications
func (ctrl *NotificationController) CreateNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	notification := &model.Notification{
		UserID:     req.UserID,
		StoreID:    req.StoreID,
		DiscountID: req.DiscountID,
		Message:    req.Message,
	}

	if err := ctrl.notificationService.CreateNotification(notification); err != nil {
		log.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		apierrors.InternalError(c, "Error creating notification")
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// GetAllNotifications lists every notification
// GET /notifications
func (ctrl *NotificationController) GetAllNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	notifications, err := ctrl.notificationService.ListNotifications()
	if err != nil {
		log.Error("Failed to fetch notifications", err, nil)
		apierrors.InternalError(c, "Error fetching notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetNotificationByID returns one notification
// GET /notifications/:id
func (ctrl *NotificationController) GetNotificationByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := ctrl.notificationService.GetNotificationByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apierrors.NotFound(c, apierrors.NotificationNotFound, "Notification not found")
			return
		}
		log.Error("Failed to fetch notification", err, map[string]interface{}{
			"notification_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, notification)
}

// UpdateNotification merges the provided fields, typically marking it read
// PUT /notifications/:id
func (ctrl *NotificationController) UpdateNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	notification, err := ctrl.notificationService.UpdateNotification(id, service.UpdateNotificationInput{
		Message: req.Message,
		Read:    req.Read,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apierrors.NotFound(c, apierrors.NotificationNotFound, "Notification not found")
			return
		}
		log.Error("Failed to update notification", err, map[string]interface{}{
			"notification_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, notification)
}

// DeleteNotification removes a notification
// DELETE /notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.DeleteNotification(id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apierrors.NotFound(c, apierrors.NotificationNotFound, "Notification not found")
			return
		}
		log.Error("Failed to delete notification", err, map[string]interface{}{
			"notification_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// SendPush broadcasts to every device subscribed to the nearby-stores topic
// POST /notifications/send-notification
func (ctrl *NotificationController) SendPush(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Title and body are required")
		return
	}

	if err := ctrl.notificationService.SendPush(c.Request.Context(), req.Title, req.Body); err != nil {
		log.Error("Failed to send push notification", err, map[string]interface{}{
			"title": req.Title,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to send notification",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification sent successfully",
	})
}
