package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

// StorefrontController serves the public widget endpoints. These are keyed
// by the numeric Shopify product id the theme knows, not internal ids.
type StorefrontController struct {
	storefrontService service.StorefrontService
}

func NewStorefrontController(storefrontService service.StorefrontService) *StorefrontController {
	return &StorefrontController{
		storefrontService: storefrontService,
	}
}

// GetProductInfo returns the cached public product payload
// GET /api/v1/storefront/products/:platformId
func (ctrl *StorefrontController) GetProductInfo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID := c.Param("platformId")
	if platformID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Missing product id")
		return
	}

	info, err := ctrl.storefrontService.GetProductInfo(c.Request.Context(), platformID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch storefront product info", err, map[string]interface{}{
			"platform_product_id": platformID,
		})
		apperrors.InternalError(c, "Failed to fetch product info")
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetProductOptions returns the option axes present in a product's variants
// GET /api/v1/storefront/products/:platformId/options
func (ctrl *StorefrontController) GetProductOptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID := c.Param("platformId")
	if platformID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Missing product id")
		return
	}

	attributes, err := ctrl.storefrontService.GetProductOptions(platformID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch storefront options", err, map[string]interface{}{
			"platform_product_id": platformID,
		})
		apperrors.InternalError(c, "Failed to fetch product options")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attributes": attributes})
}

type resolveSelectionRequest struct {
	Selection map[uint]uint `json:"selection" binding:"required"`
}

// ResolveSelection matches a full selection to a variant, returning its
// price and stock. A partial selection resolves to no variant.
// POST /api/v1/storefront/products/:platformId/resolve
func (ctrl *StorefrontController) ResolveSelection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID := c.Param("platformId")
	var req resolveSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variant, err := ctrl.storefrontService.ResolveSelection(platformID, req.Selection)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to resolve selection", err, map[string]interface{}{
			"platform_product_id": platformID,
		})
		apperrors.InternalError(c, "Failed to resolve selection")
		return
	}

	if variant == nil {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matched": true,
		"variant": variant,
	})
}
