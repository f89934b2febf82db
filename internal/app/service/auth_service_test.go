package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/db"
	"github.com/vestiapp/vesti-backend/pkg/util"
)

type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = expiry
	return nil
}

func (f *fakeBlacklist) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok, nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *fakeBlacklist, *recordingEventSink, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	blacklist := newFakeBlacklist()
	sink := &recordingEventSink{}
	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	authService := NewAuthService(userRepo, storeRepo, sink, blacklist, "test-secret", time.Hour)

	return authService, blacklist, sink, testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email, password string) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)
	created := createTestUser(t, testDB, "login@example.com", "password123")

	user, token, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	authService, _, _, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("missing@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)
	createTestUser(t, testDB, "login@example.com", "password123")

	_, _, err := authService.Login("login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_StoreLogin(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)
	owner := createTestUser(t, testDB, "owner@example.com", "password123")

	store := &model.Store{OwnerID: owner.ID, Name: "Owner Store"}
	require.NoError(t, testDB.Create(store).Error)

	user, gotStore, token, err := authService.StoreLogin("owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.Equal(t, store.ID, gotStore.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_StoreLogin_NotStoreOwner(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)
	createTestUser(t, testDB, "plain@example.com", "password123")

	_, _, _, err := authService.StoreLogin("plain@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotStoreOwner)
}

func TestAuthService_Signup_CreatesStoreForUsers(t *testing.T) {
	authService, _, sink, testDB := setupAuthServiceTest(t)

	user, store, token, err := authService.Signup(SignupInput{
		Name:     "New Seller",
		Email:    "seller@example.com",
		Password: "password123",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)

	// The store is created alongside the account, named after the user
	require.NotNil(t, store)
	assert.Equal(t, user.ID, store.OwnerID)
	assert.Equal(t, "New Seller", store.Name)
	assert.Equal(t, 1, sink.count())

	// Password is stored hashed
	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))
}

func TestAuthService_Signup_NoStoreForAdmins(t *testing.T) {
	authService, _, sink, testDB := setupAuthServiceTest(t)

	user, store, _, err := authService.Signup(SignupInput{
		Name:     "Site Admin",
		Email:    "admin@example.com",
		Password: "password123",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Equal(t, 0, sink.count())

	var count int64
	testDB.Model(&model.Store{}).Where("owner_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)
	createTestUser(t, testDB, "taken@example.com", "password123")

	_, _, _, err := authService.Signup(SignupInput{
		Name:     "Another",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	authService, blacklist, _, testDB := setupAuthServiceTest(t)
	createTestUser(t, testDB, "login@example.com", "password123")

	_, token, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), token))

	revoked, err := blacklist.IsTokenBlacklisted(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Logout_InvalidTokenIsNoop(t *testing.T) {
	authService, blacklist, _, _ := setupAuthServiceTest(t)

	require.NoError(t, authService.Logout(context.Background(), "garbage-token"))

	blacklist.mu.Lock()
	defer blacklist.mu.Unlock()
	assert.Len(t, blacklist.tokens, 0)
}
