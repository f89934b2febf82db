package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vestiapp/vesti-backend/internal/app/model"
	"github.com/vestiapp/vesti-backend/internal/app/service"
	apierrors "github.com/vestiapp/vesti-backend/internal/errors"
	"github.com/vestiapp/vesti-backend/internal/middleware"
)

type ProductController struct {
	productService  service.ProductService
	discountService service.DiscountService
}

func NewProductController(
	productService service.ProductService,
	discountService service.DiscountService,
) *ProductController {
	return &ProductController{
		productService:  productService,
		discountService: discountService,
	}
}

type CreateProductRequest struct {
	StoreID         uint              `json:"storeId"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Price           float64           `json:"price"`
	Category        string            `json:"category"`
	ImageURL        string            `json:"imageUrl"`
	AvailableColors model.StringArray `json:"availableColors"`
	AvailableSizes  model.StringArray `json:"availableSizes"`
}

type UpdateProductRequest struct {
	Name            *string            `json:"name"`
	Description     *string            `json:"description"`
	Price           *float64           `json:"price"`
	Category        *string            `json:"category"`
	ImageURL        *string            `json:"imageUrl"`
	AvailableColors *model.StringArray `json:"availableColors"`
	AvailableSizes  *model.StringArray `json:"availableSizes"`
}

type PublishDiscountRequest struct {
	StoreID    uint    `json:"storeId"`
	ProductID  uint    `json:"productId"`
	Percentage float64 `json:"percentage"`
}

// CreateProduct adds a product to a store's catalog
// POST /products/create
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.Name == "" || req.Description == "" || req.Price == 0 || req.Category == "" || req.StoreID == 0 {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "All fields are required.")
		return
	}

	product := &model.Product{
		StoreID:         req.StoreID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		AvailableColors: req.AvailableColors,
		AvailableSizes:  req.AvailableSizes,
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"store_id": req.StoreID,
		})
		apierrors.InternalError(c, "Error creating product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetAllProducts lists the whole catalog
// GET /products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListProducts()
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apierrors.InternalError(c, "Error fetching products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductsByCategory lists products in one category
// GET /products/category/:categoryName
func (ctrl *ProductController) GetProductsByCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := c.Param("categoryName")
	products, err := ctrl.productService.ListProductsByCategory(category)
	if err != nil {
		log.Error("Failed to fetch products by category", err, map[string]interface{}{
			"category": category,
		})
		apierrors.InternalError(c, "Error fetching products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductsByStore lists a store's catalog
// GET /products/store/:storeId
func (ctrl *ProductController) GetProductsByStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}

	products, err := ctrl.productService.ListProductsByStore(storeID)
	if err != nil {
		log.Error("Failed to fetch products by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		apierrors.InternalError(c, "Error fetching products")
		return
	}

	if len(products) == 0 {
		apierrors.NotFound(c, apierrors.ProductNotFound, "No products found for this store")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductByID returns one product
// GET /products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct merges the provided fields into the product
// PUT /products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, service.UpdateProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		AvailableColors: req.AvailableColors,
		AvailableSizes:  req.AvailableSizes,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and any cart lines referencing it
// DELETE /products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishDiscount starts a discount on a store's product and fans
// notifications out to users and subscribed devices
// POST /products/discounts/update
func (ctrl *ProductController) PublishDiscount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PublishDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.StoreID == 0 || req.ProductID == 0 || req.Percentage == 0 {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "storeId, productId and percentage are required")
		return
	}

	discount, err := ctrl.discountService.PublishDiscount(c.Request.Context(), req.StoreID, req.ProductID, req.Percentage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrStoreNotFound):
			apierrors.NotFound(c, apierrors.StoreNotFound, "Store not found")
		case errors.Is(err, service.ErrPushFailed):
			// The discount is committed; only the device push failed.
			log.Error("Discount push failed", err, map[string]interface{}{
				"store_id": req.StoreID,
			})
			apierrors.RespondWithError(c, http.StatusInternalServerError, apierrors.InternalExternalAPI, "Failed to send notification")
		default:
			log.Error("Failed to publish discount", err, map[string]interface{}{
				"store_id": req.StoreID,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, discount)
}
