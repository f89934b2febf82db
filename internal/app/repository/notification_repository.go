package repository

import (
	"time"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	CreateBatch(notifications []model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	FindAll() ([]model.Notification, error)
	FindByUserID(userID uint) ([]model.Notification, error)
	Update(notification *model.Notification) error
	Delete(id uint) error
	DeleteByDiscountID(discountID uint) (int64, error)
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification in database", err, map[string]interface{}{
			"user_id": notification.UserID,
		})
		return err
	}
	return nil
}

// CreateBatch inserts notifications in one statement. Used by the discount
// fan-out, which notifies every user.
func (r *notificationRepository) CreateBatch(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.Create(&notifications).Error; err != nil {
		logger.Error("Failed to batch-create notifications in database", err, map[string]interface{}{
			"count": len(notifications),
		})
		return err
	}

	logger.Debug("Notifications batch-created in database", map[string]interface{}{
		"count": len(notifications),
	})
	return nil
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindAll() ([]model.Notification, error) {
	var notifications []model.Notification
	if err := r.db.Find(&notifications).Error; err != nil {
		logger.Error("Failed to list notifications", err)
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) FindByUserID(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		logger.Error("Failed to list notifications by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) Update(notification *model.Notification) error {
	if err := r.db.Save(notification).Error; err != nil {
		logger.Error("Failed to update notification in database", err, map[string]interface{}{
			"notification_id": notification.ID,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Notification{}, id).Error; err != nil {
		logger.Error("Failed to delete notification from database", err, map[string]interface{}{
			"notification_id": id,
		})
		return err
	}
	return nil
}

// DeleteByDiscountID removes every notification referencing a discount.
// Called by the disable-discount operation.
func (r *notificationRepository) DeleteByDiscountID(discountID uint) (int64, error) {
	result := r.db.Where("discount_id = ?", discountID).Delete(&model.Notification{})
	if result.Error != nil {
		logger.Error("Failed to delete notifications by discount", result.Error, map[string]interface{}{
			"discount_id": discountID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteReadOlderThan purges read notifications created before cutoff.
func (r *notificationRepository) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		logger.Error("Failed to purge read notifications", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
