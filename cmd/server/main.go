package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vestiapp/vesti-backend/config"
	"github.com/vestiapp/vesti-backend/internal/app/controller"
	"github.com/vestiapp/vesti-backend/internal/app/repository"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	"github.com/vestiapp/vesti-backend/internal/db"
	"github.com/vestiapp/vesti-backend/internal/middleware"
	"github.com/vestiapp/vesti-backend/internal/router"
	"github.com/vestiapp/vesti-backend/internal/scheduler"
	"github.com/vestiapp/vesti-backend/internal/storage"
	"github.com/vestiapp/vesti-backend/internal/websocket"
	"github.com/vestiapp/vesti-backend/pkg/logger"
	"github.com/vestiapp/vesti-backend/pkg/push/fcm"
	"github.com/vestiapp/vesti-backend/pkg/redisstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting VESTI Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blacklist is optional; logout degrades to a no-op without Redis
	var blacklist service.TokenBlacklist
	if cfg.Redis.Host != "" {
		store, err := redisstore.New(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		blacklist = store
	} else {
		logger.Warn("REDIS_HOST not set, token revocation disabled", nil)
	}

	// Push sender is optional; discount and notification pushes fail fast
	// without FCM credentials
	var push service.PushSender
	if cfg.Push.ProjectID != "" && cfg.Push.AccessToken != "" {
		client, err := fcm.NewClient(fcm.Config{
			ProjectID:   cfg.Push.ProjectID,
			AccessToken: cfg.Push.AccessToken,
			BaseURL:     cfg.Push.BaseURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize FCM client", err)
		}
		push = client
	} else {
		logger.Warn("FCM credentials not set, push notifications disabled", nil)
	}

	// Store event hub for websocket listeners
	hub := websocket.NewHub()
	go hub.Run()

	s3Storage := storage.NewS3Storage(&cfg.S3)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	orderItemRepo := repository.NewOrderItemRepository(database)
	discountRepo := repository.NewDiscountRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	storeCategoryRepo := repository.NewStoreCategoryRepository(database)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		storeRepo,
		hub,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.TokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	storeService := service.NewStoreService(storeRepo, hub)
	productService := service.NewProductService(productRepo, database)
	orderService := service.NewOrderService(orderRepo)
	cartService := service.NewCartService(orderRepo, orderItemRepo, database)
	discountService := service.NewDiscountService(
		discountRepo,
		push,
		cfg.Push.Topic,
		database,
	)
	notificationService := service.NewNotificationService(
		notificationRepo,
		push,
		cfg.Push.Topic,
	)
	storeCategoryService := service.NewStoreCategoryService(storeCategoryRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	storeController := controller.NewStoreController(storeService)
	productController := controller.NewProductController(productService, discountService)
	orderController := controller.NewOrderController(orderService, cartService)
	cartController := controller.NewCartController(cartService)
	discountController := controller.NewDiscountController(discountService)
	notificationController := controller.NewNotificationController(notificationService)
	storeCategoryController := controller.NewStoreCategoryController(storeCategoryService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWebSocketController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)

	// Start background cleanup of read notifications
	cleanupScheduler := scheduler.NewNotificationCleanupScheduler(notificationService)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start notification cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		storeController,
		productController,
		orderController,
		cartController,
		discountController,
		notificationController,
		storeCategoryController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
