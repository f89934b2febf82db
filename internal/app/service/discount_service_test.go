package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/db"
)

type fakePushSender struct {
	calls   int
	topic   string
	title   string
	body    string
	sendErr error
}

func (f *fakePushSender) SendToTopic(ctx context.Context, topic, title, body string) error {
	f.calls++
	f.topic = topic
	f.title = title
	f.body = body
	return f.sendErr
}

func setupDiscountServiceTest(t *testing.T) (DiscountService, *fakePushSender, *model.Store, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	push := &fakePushSender{}
	discountRepo := repository.NewDiscountRepository(testDB)
	discountService := NewDiscountService(discountRepo, push, "nearby_stores", testDB)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Store Owner",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	store := &model.Store{
		OwnerID: owner.ID,
		Name:    "Test Store",
	}
	testDB.Create(store)

	product := &model.Product{
		StoreID:  store.ID,
		Name:     "Denim Jacket",
		Price:    100,
		Category: "jackets",
	}
	testDB.Create(product)

	return discountService, push, store, product, testDB
}

func TestDiscountService_PublishDiscount_FansOutToAllUsers(t *testing.T) {
	discountService, push, store, product, testDB := setupDiscountServiceTest(t)

	// Two shoppers plus the owner: three users total
	for _, email := range []string{"a@example.com", "b@example.com"} {
		testDB.Create(&model.User{
			Email:        email,
			PasswordHash: "hash",
			Name:         "Shopper",
			Role:         model.RoleUser,
		})
	}

	discount, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 20)
	require.NoError(t, err)
	assert.True(t, discount.Active)
	assert.Equal(t, 20.0, discount.Percentage)

	var notifications []model.Notification
	testDB.Where("discount_id = ?", discount.ID).Find(&notifications)
	assert.Len(t, notifications, 3)
	for _, n := range notifications {
		assert.Equal(t, store.ID, n.StoreID)
		assert.Contains(t, n.Message, "20% off")
		assert.Contains(t, n.Message, product.Name)
	}

	// Denormalized percentage lands on the product
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 20.0, updated.Discount)

	assert.Equal(t, 1, push.calls)
	assert.Equal(t, "nearby_stores", push.topic)
	assert.Equal(t, store.Name, push.title)
}

func TestDiscountService_PublishDiscount_ProductNotInStore(t *testing.T) {
	discountService, push, store, _, testDB := setupDiscountServiceTest(t)

	otherStore := &model.Store{OwnerID: 1, Name: "Other Store"}
	testDB.Create(otherStore)
	foreign := &model.Product{StoreID: otherStore.ID, Name: "Foreign", Price: 10}
	testDB.Create(foreign)

	// The product exists but belongs to a different store
	_, err := discountService.PublishDiscount(context.Background(), store.ID, foreign.ID, 15)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 0, push.calls)
}

func TestDiscountService_PublishDiscount_PushFailureKeepsDiscount(t *testing.T) {
	discountService, push, store, product, testDB := setupDiscountServiceTest(t)
	push.sendErr = errors.New("fcm unreachable")

	discount, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 30)
	assert.ErrorIs(t, err, ErrPushFailed)
	require.NotNil(t, discount)

	// The committed discount and its notifications survive the failed push
	var stored model.Discount
	require.NoError(t, testDB.First(&stored, discount.ID).Error)
	assert.True(t, stored.Active)

	var count int64
	testDB.Model(&model.Notification{}).Where("discount_id = ?", discount.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDiscountService_DisableDiscount(t *testing.T) {
	discountService, _, store, product, testDB := setupDiscountServiceTest(t)

	discount, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 25)
	require.NoError(t, err)

	require.NoError(t, discountService.DisableDiscount(discount.ID))

	var stored model.Discount
	require.NoError(t, testDB.First(&stored, discount.ID).Error)
	assert.False(t, stored.Active)

	// Fanned-out notifications are removed with the discount
	var count int64
	testDB.Model(&model.Notification{}).Where("discount_id = ?", discount.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// No remaining active discount, so the product resets to zero
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 0.0, updated.Discount)
}

func TestDiscountService_DisableDiscount_KeepsNewerActiveDiscount(t *testing.T) {
	discountService, _, store, product, testDB := setupDiscountServiceTest(t)

	first, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 10)
	require.NoError(t, err)
	second, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 40)
	require.NoError(t, err)

	require.NoError(t, discountService.DisableDiscount(first.ID))

	// The newer discount still covers the product
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 40.0, updated.Discount)

	var stored model.Discount
	require.NoError(t, testDB.First(&stored, second.ID).Error)
	assert.True(t, stored.Active)
}

func TestDiscountService_DisableDiscount_NotFound(t *testing.T) {
	discountService, _, _, _, _ := setupDiscountServiceTest(t)

	err := discountService.DisableDiscount(9999)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestDiscountService_ActiveAndHistory(t *testing.T) {
	discountService, _, store, product, _ := setupDiscountServiceTest(t)

	first, err := discountService.PublishDiscount(context.Background(), store.ID, product.ID, 10)
	require.NoError(t, err)
	_, err = discountService.PublishDiscount(context.Background(), store.ID, product.ID, 20)
	require.NoError(t, err)

	require.NoError(t, discountService.DisableDiscount(first.ID))

	active, err := discountService.ActiveDiscounts(store.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 20.0, active[0].Percentage)

	history, err := discountService.DiscountHistory(store.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 10.0, history[0].Percentage)
}
