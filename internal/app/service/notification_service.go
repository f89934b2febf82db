package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// UpdateNotificationInput lists the mutable notification fields. Nil fields
// are left untouched.
type UpdateNotificationInput struct {
	Message *string
	Read    *bool
}

type NotificationService interface {
	CreateNotification(notification *model.Notification) error
	GetNotificationByID(id uint) (*model.Notification, error)
	ListNotifications() ([]model.Notification, error)
	ListNotificationsByUser(userID uint) ([]model.Notification, error)
	UpdateNotification(id uint, input UpdateNotificationInput) (*model.Notification, error)
	DeleteNotification(id uint) error
	SendPush(ctx context.Context, title, body string) error
	PurgeRead(olderThan time.Duration) (int64, error)
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	push      PushSender
	pushTopic string
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	push PushSender,
	pushTopic string,
) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		push:      push,
		pushTopic: pushTopic,
	}
}

func (s *notificationService) CreateNotification(notification *model.Notification) error {
	if err := s.notifRepo.Create(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": notification.UserID,
		})
		return err
	}
	return nil
}

func (s *notificationService) GetNotificationByID(id uint) (*model.Notification, error) {
	notification, err := s.notifRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		logger.Error("Failed to fetch notification", err, map[string]interface{}{
			"notification_id": id,
		})
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) ListNotifications() ([]model.Notification, error) {
	notifications, err := s.notifRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list notifications", err, nil)
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) ListNotificationsByUser(userID uint) ([]model.Notification, error) {
	notifications, err := s.notifRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list user notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) UpdateNotification(id uint, input UpdateNotificationInput) (*model.Notification, error) {
	notification, err := s.notifRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		logger.Error("Failed to fetch notification for update", err, map[string]interface{}{
			"notification_id": id,
		})
		return nil, err
	}

	if input.Message != nil {
		notification.Message = *input.Message
	}
	if input.Read != nil {
		notification.Read = *input.Read
	}

	if err := s.notifRepo.Update(notification); err != nil {
		logger.Error("Failed to update notification", err, map[string]interface{}{
			"notification_id": id,
		})
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) DeleteNotification(id uint) error {
	if _, err := s.notifRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if err := s.notifRepo.Delete(id); err != nil {
		logger.Error("Failed to delete notification", err, map[string]interface{}{
			"notification_id": id,
		})
		return err
	}
	return nil
}

// SendPush broadcasts a notification to every device subscribed to the
// configured topic.
func (s *notificationService) SendPush(ctx context.Context, title, body string) error {
	if s.push == nil {
		logger.Warn("Push requested without a configured sender", nil)
		return ErrPushFailed
	}

	logger.Info("Sending push notification", map[string]interface{}{
		"title": title,
		"topic": s.pushTopic,
	})

	if err := s.push.SendToTopic(ctx, s.pushTopic, title, body); err != nil {
		logger.Error("Failed to send push notification", err, map[string]interface{}{
			"topic": s.pushTopic,
		})
		return ErrPushFailed
	}
	return nil
}

// PurgeRead deletes read notifications older than the given age and reports
// how many were removed.
func (s *notificationService) PurgeRead(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	removed, err := s.notifRepo.DeleteReadOlderThan(cutoff)
	if err != nil {
		logger.Error("Failed to purge read notifications", err, nil)
		return 0, err
	}

	logger.Info("Read notifications purged", map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return removed, nil
}
