package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/db"
)

func setupNotificationServiceTest(t *testing.T) (NotificationService, *fakePushSender, *model.User, *model.Store, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "reader@example.com",
		PasswordHash: "hash",
		Name:         "Reader",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	store := &model.Store{OwnerID: user.ID, Name: "Notify Store"}
	require.NoError(t, testDB.Create(store).Error)

	push := &fakePushSender{}
	notifRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notifRepo, push, "nearby_stores")

	return notificationService, push, user, store, testDB
}

func seedNotification(t *testing.T, testDB *gorm.DB, userID, storeID uint, read bool, age time.Duration) *model.Notification {
	notification := &model.Notification{
		UserID:  userID,
		StoreID: storeID,
		Message: "New arrivals in store",
		Read:    read,
	}
	require.NoError(t, testDB.Create(notification).Error)
	if age > 0 {
		createdAt := time.Now().Add(-age)
		require.NoError(t, testDB.Model(notification).Update("created_at", createdAt).Error)
	}
	return notification
}

func TestNotificationService_ListNotificationsByUser(t *testing.T) {
	notificationService, _, user, store, testDB := setupNotificationServiceTest(t)

	seedNotification(t, testDB, user.ID, store.ID, false, 0)
	seedNotification(t, testDB, user.ID, store.ID, true, 0)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)
	seedNotification(t, testDB, other.ID, store.ID, false, 0)

	notifications, err := notificationService.ListNotificationsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestNotificationService_UpdateNotification_MarksRead(t *testing.T) {
	notificationService, _, user, store, testDB := setupNotificationServiceTest(t)

	notification := seedNotification(t, testDB, user.ID, store.ID, false, 0)

	read := true
	updated, err := notificationService.UpdateNotification(notification.ID, UpdateNotificationInput{Read: &read})
	require.NoError(t, err)
	assert.True(t, updated.Read)
}

func TestNotificationService_UpdateNotification_NotFound(t *testing.T) {
	notificationService, _, _, _, _ := setupNotificationServiceTest(t)

	read := true
	_, err := notificationService.UpdateNotification(9999, UpdateNotificationInput{Read: &read})
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_SendPush(t *testing.T) {
	notificationService, push, _, _, _ := setupNotificationServiceTest(t)

	err := notificationService.SendPush(context.Background(), "Flash Sale", "Everything must go")
	require.NoError(t, err)

	assert.Equal(t, 1, push.calls)
	assert.Equal(t, "nearby_stores", push.topic)
	assert.Equal(t, "Flash Sale", push.title)
}

func TestNotificationService_SendPush_Failure(t *testing.T) {
	notificationService, push, _, _, _ := setupNotificationServiceTest(t)
	push.sendErr = errors.New("fcm unreachable")

	err := notificationService.SendPush(context.Background(), "Flash Sale", "Everything must go")
	assert.ErrorIs(t, err, ErrPushFailed)
}

func TestNotificationService_SendPush_NoSender(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationService := NewNotificationService(repository.NewNotificationRepository(testDB), nil, "nearby_stores")

	err = notificationService.SendPush(context.Background(), "Flash Sale", "Everything must go")
	assert.ErrorIs(t, err, ErrPushFailed)
}

func TestNotificationService_PurgeRead(t *testing.T) {
	notificationService, _, user, store, testDB := setupNotificationServiceTest(t)

	// Old and read: purged.
	seedNotification(t, testDB, user.ID, store.ID, true, 45*24*time.Hour)
	// Old but unread: kept.
	seedNotification(t, testDB, user.ID, store.ID, false, 45*24*time.Hour)
	// Read but recent: kept.
	seedNotification(t, testDB, user.ID, store.ID, true, 0)

	removed, err := notificationService.PurgeRead(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	testDB.Model(&model.Notification{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestNotificationService_DeleteNotification_NotFound(t *testing.T) {
	notificationService, _, _, _, _ := setupNotificationServiceTest(t)

	err := notificationService.DeleteNotification(9999)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
