package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetProducts returns all mirrored products
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetProducts()
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with its attribute links
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// SyncProducts pulls the store catalog from Shopify
// POST /api/v1/products/sync
func (ctrl *ProductController) SyncProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	synced, err := ctrl.productService.SyncFromShopify(c.Request.Context())
	if err != nil {
		log.Error("Product sync failed", err, nil)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ShopifyAPIError, "Failed to sync products from Shopify")
		return
	}

	log.Info("Products synced", map[string]interface{}{
		"synced": synced,
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"synced":  synced,
	})
}

// UpdateProduct updates title, image or ring configuration
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

type setAttributeLinksRequest struct {
	AttributeIDs []uint `json:"attribute_ids"`
}

// SetAttributeLinks replaces the attributes assigned to a product
// PUT /api/v1/products/:id/attributes
func (ctrl *ProductController) SetAttributeLinks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setAttributeLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.productService.SetAttributeLinks(id, req.AttributeIDs); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to set product attributes", err, map[string]interface{}{
			"product_id": id,
		})
		info := apperrors.ParseError(err, "product")
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAttributeLinks lists the attributes assigned to a product
// GET /api/v1/products/:id/attributes
func (ctrl *ProductController) GetAttributeLinks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	links, err := ctrl.productService.GetAttributeLinks(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product attributes", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product attributes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attributes": links})
}

type setDefaultValueRequest struct {
	AttributeID uint  `json:"attribute_id" binding:"required"`
	ValueID     *uint `json:"value_id"`
}

// SetDefaultValue sets or clears a per-product default value selection
// PUT /api/v1/products/:id/attributes/default
func (ctrl *ProductController) SetDefaultValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setDefaultValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.productService.SetDefaultValue(id, req.AttributeID, req.ValueID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product attribute link not found")
			return
		}
		log.Error("Failed to set default value", err, map[string]interface{}{
			"product_id":   id,
			"attribute_id": req.AttributeID,
		})
		apperrors.InternalError(c, "Failed to set default value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
