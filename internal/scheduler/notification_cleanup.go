package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vestiapp/vesti-backend/internal/app/service"
	"github.com/vestiapp/vesti-backend/pkg/logger"
)

// Read notifications older than this are eligible for cleanup.
const notificationRetention = 30 * 24 * time.Hour

// NotificationCleanupScheduler purges stale read notifications on a
// daily schedule.
type NotificationCleanupScheduler struct {
	cron                *cron.Cron
	notificationService service.NotificationService
}

func NewNotificationCleanupScheduler(notificationService service.NotificationService) *NotificationCleanupScheduler {
	return &NotificationCleanupScheduler{
		cron:                cron.New(),
		notificationService: notificationService,
	}
}

// Start registers the cleanup job and starts the cron loop.
func (s *NotificationCleanupScheduler) Start() error {
	// Daily at 4:00 AM, when traffic is lowest
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled notification cleanup", nil)

		deleted, err := s.notificationService.PurgeRead(notificationRetention)
		if err != nil {
			logger.Error("Failed to purge read notifications", err)
			return
		}

		logger.Info("Notification cleanup completed", map[string]interface{}{
			"deleted": deleted,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for notification cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Notification cleanup scheduler started (daily at 4:00 AM)", nil)

	return nil
}

// Stop halts the cron loop.
func (s *NotificationCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Notification cleanup scheduler stopped", nil)
}
