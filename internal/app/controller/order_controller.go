package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
	cartService  service.CartService
}

func NewOrderController(
	orderService service.OrderService,
	cartService service.CartService,
) *OrderController {
	return &OrderController{
		orderService: orderService,
		cartService:  cartService,
	}
}

type CreateOrderRequest struct {
	UserID      uint    `json:"userId" binding:"required"`
	StoreID     uint    `json:"storeId" binding:"required"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
}

type AddToCartRequest struct {
	UserID    uint            `json:"userId"`
	StoreID   uint            `json:"storeId"`
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Sizes     json.RawMessage `json:"sizes"`
	Colors    json.RawMessage `json:"colors"`
}

type UpdateCartItem struct {
	ProductID uint              `json:"productId"`
	Quantity  int               `json:"quantity"`
	Sizes     model.StringArray `json:"sizes"`
	Colors    model.StringArray `json:"colors"`
}

type UpdateCartRequest struct {
	UserID  uint            `json:"userId"`
	StoreID uint            `json:"storeId"`
	Items   json.RawMessage `json:"items"`
}

// CreateOrder writes a raw order row
// POST /orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order := &model.Order{
		UserID:      req.UserID,
		StoreID:     req.StoreID,
		TotalAmount: req.TotalAmount,
		Status:      model.OrderStatus(req.Status),
	}

	if err := ctrl.orderService.CreateOrder(order); err != nil {
		log.Error("Failed to create order", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		apierrors.InternalError(c, "Error creating order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetAllOrders lists every order
// GET /orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.ListOrders()
	if err != nil {
		log.Error("Failed to fetch orders", err, nil)
		apierrors.InternalError(c, "Error fetching orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderByID returns one order with its lines
// GET /orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, order)
}

// MarkOrderPaid finalizes a pending order
// PUT /orders/update/:orderId
func (ctrl *OrderController) MarkOrderPaid(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	if err := ctrl.orderService.MarkPaid(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to mark order paid", err, map[string]interface{}{
			"order_id": id,
		})
		apierrors.InternalError(c, "Error updating order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated to paid",
	})
}

// DeleteOrder removes an order
// DELETE /orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetOrderHistory lists a user's paid orders
// GET /orders/history/:userId
func (ctrl *OrderController) GetOrderHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	orders, err := ctrl.orderService.OrderHistory(userID)
	if err != nil {
		log.Error("Failed to fetch order history", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// AddToCart places a product line in the caller's pending order
// POST /orders/add-to-cart
func (ctrl *OrderController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	sizes, ok := decodeStringArray(req.Sizes)
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Sizes and colors must be arrays.")
		return
	}
	colors, ok := decodeStringArray(req.Colors)
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Sizes and colors must be arrays.")
		return
	}

	item, err := ctrl.cartService.AddToCart(req.UserID, req.StoreID, service.CartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Sizes:     sizes,
		Colors:    colors,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Quantity must be positive")
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"user_id":    req.UserID,
				"product_id": req.ProductID,
			})
			apierrors.InternalError(c, "An error occurred")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateCart replaces the whole line set of the caller's pending order
// POST /orders/update-cart
func (ctrl *OrderController) UpdateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	var items []UpdateCartItem
	if req.Items == nil || string(req.Items) == "null" || json.Unmarshal(req.Items, &items) != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidFormat, "Items must be an array.")
		return
	}

	inputs := make([]service.CartItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Sizes:     item.Sizes,
			Colors:    item.Colors,
		})
	}

	order, err := ctrl.cartService.UpdateCart(req.UserID, req.StoreID, inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingOrder):
			apierrors.NotFound(c, apierrors.CartNoPendingOrder, "Order not found.")
		case errors.Is(err, service.ErrInvalidQuantity):
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Quantity must be positive")
		default:
			log.Error("Failed to update cart", err, map[string]interface{}{
				"user_id": req.UserID,
			})
			apierrors.InternalError(c, "An error occurred")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Cart updated successfully",
		"totalAmount": order.TotalAmount,
	})
}

// decodeStringArray accepts only a JSON array of strings. Absent fields and
// JSON null are rejected.
func decodeStringArray(raw json.RawMessage) (model.StringArray, bool) {
	if raw == nil || string(raw) == "null" {
		return nil, false
	}
	var out model.StringArray
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = model.StringArray{}
	}
	return out, true
}
