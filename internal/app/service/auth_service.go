package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"github.com/vestiapp/vesti-backend/pkg/util"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotStoreOwner      = errors.New("user does not own a store")
)

// TokenBlacklist revokes JWTs until their natural expiry.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// SignupInput carries everything needed to register a user together with
// their store in one step.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        model.UserRole
}

type AuthService interface {
	Login(email, password string) (*model.User, string, error)
	StoreLogin(email, password string) (*model.User, *model.Store, string, error)
	Signup(input SignupInput) (*model.User, *model.Store, string, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	storeEvents StoreEventSink
	blacklist   TokenBlacklist
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	storeEvents StoreEventSink,
	blacklist TokenBlacklist,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		storeEvents: storeEvents,
		blacklist:   blacklist,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrUserNotFound
		}
		logger.Error("Failed to fetch user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: password mismatch", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, token, nil
}

// StoreLogin authenticates a user and additionally resolves the store they
// own. Users without a store are rejected even with valid credentials.
func (s *authService) StoreLogin(email, password string) (*model.User, *model.Store, string, error) {
	user, token, err := s.Login(email, password)
	if err != nil {
		return nil, nil, "", err
	}

	store, err := s.storeRepo.FindByOwnerID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Store login failed: no store for user", map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, nil, "", ErrNotStoreOwner
		}
		logger.Error("Failed to fetch store for login", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, "", err
	}

	return user, store, token, nil
}

func (s *authService) Signup(input SignupInput) (*model.User, *model.Store, string, error) {
	logger.Info("Attempting signup", map[string]interface{}{
		"email": input.Email,
		"role":  input.Role,
	})

	existing, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, "", err
	}
	if existing != nil {
		logger.Warn("Signup failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, "", ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, nil, "", err
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		PhoneNumber:  input.PhoneNumber,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, "", err
	}

	// Every non-admin signup gets an empty store, named after the user,
	// to be fleshed out later.
	var store *model.Store
	if role != model.RoleAdmin {
		store = &model.Store{
			OwnerID: user.ID,
			Name:    input.Name,
		}
		if err := s.storeRepo.Create(store); err != nil {
			logger.Error("Failed to create store during signup", err, map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, nil, "", err
		}

		if s.storeEvents != nil {
			s.storeEvents.StoreCreated(store)
		}
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, "", err
	}

	fields := map[string]interface{}{"user_id": user.ID}
	if store != nil {
		fields["store_id"] = store.ID
	}
	logger.Info("Signup successful", fields)
	return user, store, token, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
// Without a blacklist backend logout succeeds but is purely client-side.
func (s *authService) Logout(ctx context.Context, token string) error {
	if s.blacklist == nil {
		logger.Debug("Logout without token blacklist backend", nil)
		return nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// An invalid or expired token needs no revocation.
		logger.Debug("Logout with invalid token", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil
	}

	remaining := util.TokenRemainingLifetime(claims)
	if remaining <= 0 {
		return nil
	}

	if err := s.blacklist.BlacklistToken(ctx, token, remaining); err != nil {
		logger.Error("Failed to blacklist token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
