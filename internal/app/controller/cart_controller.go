package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type addVariantRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddVariant resolves an internal variant into a platform cart line,
// materializing it on Shopify when needed
// POST /api/v1/cart/add-variant
func (ctrl *CartController) AddVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req addVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	resolution, err := ctrl.cartService.ResolveForCart(c.Request.Context(), req.VariantID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "Variant not found")
		case errors.Is(err, service.ErrOutOfStock):
			apperrors.Conflict(c, apperrors.VariantOutOfStock, "Requested quantity exceeds available stock")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity must be positive")
		case errors.Is(err, service.ErrProductNoPlatformID):
			apperrors.BadRequest(c, apperrors.ProductNoPlatform, "Product is not linked to a Shopify product")
		default:
			log.Error("Cart resolution failed", err, map[string]interface{}{
				"variant_id": req.VariantID,
			})
			apperrors.InternalError(c, "Failed to resolve variant for cart")
		}
		return
	}

	c.JSON(http.StatusOK, resolution)
}

type checkoutRequest struct {
	Items []service.CheckoutItem `json:"items" binding:"required"`
}

// CreateCheckout creates a Shopify draft order and returns the invoice URL
// POST /api/v1/cart/checkout
func (ctrl *CartController) CreateCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.cartService.CreateCheckout(c.Request.Context(), req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCheckout), errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "A cart line references an unknown variant")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"item_count": len(req.Items),
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ShopifyAPIError, "Failed to create checkout")
		}
		return
	}

	log.Info("Checkout created", map[string]interface{}{
		"draft_order": result.Name,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"checkout": result,
	})
}
