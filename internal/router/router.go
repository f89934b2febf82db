package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/config"
	"github.com/vestiapp/vesti-backend/internal/app/controller"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type Router struct {
	authController          *controller.AuthController
	userController          *controller.UserController
	storeController         *controller.StoreController
	productController       *controller.ProductController
	orderController         *controller.OrderController
	cartController          *controller.CartController
	discountController      *controller.DiscountController
	notificationController  *controller.NotificationController
	storeCategoryController *controller.StoreCategoryController
	uploadController        *controller.UploadController
	wsController            *controller.WebSocketController
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	storeController *controller.StoreController,
	productController *controller.ProductController,
	orderController *controller.OrderController,
	cartController *controller.CartController,
	discountController *controller.DiscountController,
	notificationController *controller.NotificationController,
	storeCategoryController *controller.StoreCategoryController,
	uploadController *controller.UploadController,
	wsController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:          authController,
		userController:          userController,
		storeController:         storeController,
		productController:       productController,
		orderController:         orderController,
		cartController:          cartController,
		discountController:      discountController,
		notificationController:  notificationController,
		storeCategoryController: storeCategoryController,
		uploadController:        uploadController,
		wsController:            wsController,
		authMiddleware:          authMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "VESTI API is running",
		})
	})

	router.POST("/login", r.authController.Login)
	router.POST("/login/store", r.authController.StoreLogin)
	router.POST("/signup", r.authController.Signup)
	router.POST("/logout", r.authController.Logout)

	users := router.Group("/users")
	{
		users.POST("", r.userController.CreateUser)
		users.GET("", r.userController.GetAllUsers)
		users.GET("/admin/allusers", r.userController.GetAllCustomers)
		users.GET("/:id", r.userController.GetUserByID)
		users.PUT("/:id", r.userController.UpdateUser)
		users.DELETE("/:id", r.userController.DeleteUser)
	}

	stores := router.Group("/stores")
	{
		stores.GET("", r.storeController.GetAllStores)
		stores.GET("/nearby", r.storeController.GetNearbyStores)
		stores.GET("/:id", r.storeController.GetStoreByID)
		stores.POST("", r.authMiddleware.Authenticate(), r.storeController.CreateStore)
		stores.PUT("/:id", r.storeController.UpdateStore)
		stores.DELETE("/:id", r.storeController.DeleteStore)
	}

	products := router.Group("/products")
	{
		products.POST("/create", r.productController.CreateProduct)
		products.GET("", r.productController.GetAllProducts)
		products.GET("/category/:categoryName", r.productController.GetProductsByCategory)
		products.GET("/store/:storeId", r.productController.GetProductsByStore)
		products.GET("/:id", r.productController.GetProductByID)
		products.PUT("/:id", r.productController.UpdateProduct)
		products.DELETE("/:id", r.productController.DeleteProduct)
		products.POST("/discounts/update", r.productController.PublishDiscount)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", r.orderController.CreateOrder)
		orders.GET("", r.orderController.GetAllOrders)
		orders.GET("/history/:userId", r.orderController.GetOrderHistory)
		orders.GET("/:id", r.orderController.GetOrderByID)
		orders.PUT("/update/:orderId", r.orderController.MarkOrderPaid)
		orders.DELETE("/:id", r.orderController.DeleteOrder)
		orders.POST("/add-to-cart", r.orderController.AddToCart)
		orders.POST("/update-cart", r.orderController.UpdateCart)
	}

	orderItems := router.Group("/order-items")
	{
		orderItems.POST("", r.cartController.CreateOrderItem)
		orderItems.GET("", r.cartController.GetAllOrderItems)
		orderItems.GET("/cart", r.cartController.GetCart)
		orderItems.GET("/:id", r.cartController.GetOrderItemByID)
		orderItems.PUT("/:id", r.cartController.UpdateOrderItem)
		orderItems.DELETE("/product/:productId", r.cartController.DeleteOrderItemsByProduct)
		orderItems.DELETE("/:id", r.cartController.DeleteOrderItem)
	}

	notifications := router.Group("/notifications")
	{
		notifications.POST("", r.notificationController.CreateNotification)
		notifications.GET("", r.notificationController.GetAllNotifications)
		notifications.GET("/:id", r.notificationController.GetNotificationByID)
		notifications.PUT("/:id", r.notificationController.UpdateNotification)
		notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		notifications.POST("/send-notification", r.notificationController.SendPush)
	}

	discounts := router.Group("/discounts")
	{
		discounts.POST("", r.discountController.CreateDiscount)
		discounts.GET("", r.discountController.GetAllDiscounts)
		discounts.GET("/active", r.discountController.GetActiveDiscounts)
		discounts.GET("/history", r.discountController.GetDiscountHistory)
		discounts.POST("/disable", r.discountController.DisableDiscount)
		discounts.PUT("/:id", r.discountController.UpdateDiscount)
		discounts.DELETE("/:id", r.discountController.DeleteDiscount)
	}

	storeCategories := router.Group("/store-categories")
	{
		storeCategories.POST("", r.storeCategoryController.CreateStoreCategory)
		storeCategories.GET("", r.storeCategoryController.GetAllStoreCategories)
		storeCategories.GET("/:id", r.storeCategoryController.GetStoreCategoryByID)
		storeCategories.PUT("/:id", r.storeCategoryController.UpdateStoreCategory)
		storeCategories.DELETE("/:id", r.storeCategoryController.DeleteStoreCategory)
	}

	uploads := router.Group("/uploads")
	uploads.Use(r.authMiddleware.Authenticate())
	{
		uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
	}

	router.GET("/ws/stores", r.wsController.StoreEvents)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
