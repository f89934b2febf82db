package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

// CartController exposes the order-item surface: the cart view plus raw
// line manipulation.
type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type CreateOrderItemRequest struct {
	OrderID         uint              `json:"orderId" binding:"required"`
	ProductID       uint              `json:"productId" binding:"required"`
	Quantity        int               `json:"quantity" binding:"required,gt=0"`
	PriceAtPurchase float64           `json:"priceAtPurchase"`
	Sizes           model.StringArray `json:"sizes"`
	Colors          model.StringArray `json:"colors"`
}

type UpdateOrderItemRequest struct {
	Quantity *int               `json:"quantity"`
	Sizes    *model.StringArray `json:"sizes"`
	Colors   *model.StringArray `json:"colors"`
}

// cartLine is the cart view projection of one order item.
type cartLine struct {
	OrderID   uint              `json:"orderId"`
	ProductID uint              `json:"productId"`
	Name      string            `json:"name"`
	Price     float64           `json:"price"`
	Quantity  int               `json:"quantity"`
	Sizes     model.StringArray `json:"sizes"`
	Colors    model.StringArray `json:"colors"`
	StoreID   uint              `json:"storeId"`
}

// GetCart returns the caller's pending order as cart lines plus the total
// GET /order-items/cart?userId=
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userIDStr := c.Query("userId")
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid userId")
		return
	}

	order, err := ctrl.cartService.GetCart(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrNoPendingOrder) {
			apierrors.NotFound(c, apierrors.CartNoPendingOrder, "No pending order found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "An error occurred")
		return
	}

	lines := make([]cartLine, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		line := cartLine{
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Price:     item.PriceAtPurchase,
			Quantity:  item.Quantity,
			Sizes:     item.Sizes,
			Colors:    item.Colors,
			StoreID:   order.StoreID,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
		}
		lines = append(lines, line)
	}

	c.JSON(http.StatusOK, gin.H{
		"cartItems":   lines,
		"totalAmount": order.TotalAmount,
	})
}

// CreateOrderItem writes a raw cart line
// POST /order-items
func (ctrl *CartController) CreateOrderItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item := &model.OrderItem{
		OrderID:         req.OrderID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PriceAtPurchase: req.PriceAtPurchase,
		Sizes:           req.Sizes,
		Colors:          req.Colors,
	}

	if err := ctrl.cartService.CreateItem(item); err != nil {
		log.Error("Failed to create order item", err, map[string]interface{}{
			"order_id": req.OrderID,
		})
		apierrors.InternalError(c, "Error creating order item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetAllOrderItems lists every cart line
// GET /order-items
func (ctrl *CartController) GetAllOrderItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.cartService.ListItems()
	if err != nil {
		log.Error("Failed to list order items", err, nil)
		apierrors.InternalError(c, "Error fetching order items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetOrderItemByID returns a single cart line
// GET /order-items/:id
func (ctrl *CartController) GetOrderItemByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.cartService.GetItemByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apierrors.NotFound(c, apierrors.OrderItemNotFound, "Order item not found")
			return
		}
		log.Error("Failed to fetch order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateOrderItem merges the provided fields into a cart line
// PUT /order-items/:id
func (ctrl *CartController) UpdateOrderItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.cartService.UpdateItem(id, service.UpdateOrderItemInput{
		Quantity: req.Quantity,
		Sizes:    req.Sizes,
		Colors:   req.Colors,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apierrors.NotFound(c, apierrors.OrderItemNotFound, "Order item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Quantity must be positive")
		default:
			log.Error("Failed to update order item", err, map[string]interface{}{
				"order_item_id": id,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteOrderItem removes a single cart line
// DELETE /order-items/:id
func (ctrl *CartController) DeleteOrderItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(id); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apierrors.NotFound(c, apierrors.OrderItemNotFound, "Order item not found")
			return
		}
		log.Error("Failed to delete order item", err, map[string]interface{}{
			"order_item_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteOrderItemsByProduct drops every cart line for a product
// DELETE /order-items/product/:productId
func (ctrl *CartController) DeleteOrderItemsByProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if _, err := ctrl.cartService.RemoveItemsByProduct(productID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apierrors.NotFound(c, apierrors.OrderItemNotFound, "Order item not found")
			return
		}
		log.Error("Failed to delete order items", err, map[string]interface{}{
			"product_id": productID,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order item(s) deleted successfully",
	})
}
