package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"github.com/vestiapp/vesti-backend/pkg/util"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPasswordMissing = errors.New("password is required")
)

// CreateUserInput carries the fields accepted when registering a user.
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        model.UserRole
	Latitude    *float64
	Longitude   *float64
}

// UpdateUserInput lists the mutable user fields. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Password    *string
	PhoneNumber *string
	Latitude    *float64
	Longitude   *float64
}

type UserService interface {
	CreateUser(input CreateUserInput) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	ListUsers() ([]model.User, error)
	ListCustomers() ([]model.User, error)
	UpdateUser(id uint, input UpdateUserInput) (*model.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(input CreateUserInput) (*model.User, error) {
	logger.Info("Creating user", map[string]interface{}{
		"email": input.Email,
	})

	if input.Password == "" {
		return nil, ErrPasswordMissing
	}

	existing, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
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
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	logger.Info("User created successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list users", err, nil)
		return nil, err
	}
	return users, nil
}

// ListCustomers returns every account with the plain user role, for the
// admin dashboard.
func (s *userService) ListCustomers() ([]model.User, error) {
	users, err := s.userRepo.FindByRole(model.RoleUser)
	if err != nil {
		logger.Error("Failed to list customer accounts", err, nil)
		return nil, err
	}
	return users, nil
}

func (s *userService) UpdateUser(id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for update", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := util.HashPassword(*input.Password)
		if err != nil {
			logger.Error("Failed to hash password", err, nil)
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Latitude != nil {
		user.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		user.Longitude = input.Longitude
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User updated", map[string]interface{}{
		"user_id": id,
	})
	return user, nil
}

func (s *userService) DeleteUser(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
