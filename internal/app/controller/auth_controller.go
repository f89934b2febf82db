package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Login authenticates with email and password
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.Email == "" || req.Password == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Email and password are required")
		return
	}

	_, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apierrors.BadRequest(c, apierrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			apierrors.BadRequest(c, apierrors.AuthInvalidCredentials, "Incorrect password")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apierrors.InternalError(c, "Error during login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// StoreLogin authenticates a store owner and returns their store
// POST /login/store
func (ctrl *AuthController) StoreLogin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.Email == "" || req.Password == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Email and password are required")
		return
	}

	_, store, token, err := ctrl.authService.StoreLogin(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apierrors.BadRequest(c, apierrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			apierrors.BadRequest(c, apierrors.AuthInvalidCredentials, "Incorrect password")
		case errors.Is(err, service.ErrNotStoreOwner):
			apierrors.BadRequest(c, apierrors.AuthNotStoreOwner, "User is not a store owner")
		default:
			log.Error("Store login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apierrors.InternalError(c, "Error during login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"store":   store,
	})
}

// Signup registers a user together with their store
// POST /signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, store, token, err := ctrl.authService.Signup(service.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Role:        model.UserRole(req.Role),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apierrors.BadRequest(c, apierrors.AuthEmailAlreadyExists, "Email already exists")
			return
		}
		log.Error("Signup failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.InternalError(c, "Error during signup")
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"role":        user.Role,
		},
		"token": token,
	}
	if store != nil {
		resp["store"] = gin.H{
			"id":      store.ID,
			"name":    store.Name,
			"ownerId": store.OwnerID,
		}
	} else {
		resp["store"] = nil
	}

	c.JSON(http.StatusCreated, resp)
}

// Logout revokes the presented token
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		apierrors.BadRequest(c, apierrors.AuthTokenInvalid, "Missing bearer token")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		log.Error("Logout failed", err, nil)
		apierrors.InternalError(c, "Error during logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
