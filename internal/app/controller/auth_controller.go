package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Install redirects the merchant to the Shopify authorize page
// GET /api/v1/auth/install?shop=example.myshopify.com
func (ctrl *AuthController) Install(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shop := c.Query("shop")
	installURL, err := ctrl.authService.BuildInstallURL(c.Request.Context(), shop)
	if err != nil {
		if errors.Is(err, service.ErrShopRequired) {
			apperrors.BadRequest(c, apperrors.AuthShopRequired, "shop query parameter is required")
			return
		}
		log.Error("Failed to build install URL", err, map[string]interface{}{
			"shop": shop,
		})
		apperrors.InternalError(c, "Failed to start installation")
		return
	}

	c.Redirect(http.StatusFound, installURL)
}

// Callback completes the OAuth flow and issues a session token
// GET /api/v1/auth/callback?shop=&code=&state=
func (ctrl *AuthController) Callback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shop := c.Query("shop")
	code := c.Query("code")
	state := c.Query("state")

	session, err := ctrl.authService.HandleCallback(c.Request.Context(), shop, code, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShopRequired):
			apperrors.BadRequest(c, apperrors.AuthShopRequired, "shop query parameter is required")
		case errors.Is(err, service.ErrInvalidState):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthStateMismatch, "OAuth state did not match")
		default:
			log.Error("OAuth callback failed", err, map[string]interface{}{
				"shop": shop,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ShopifyAPIError, "Token exchange failed")
		}
		return
	}

	log.Info("Installation completed", map[string]interface{}{
		"shop": session.ShopDomain,
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}
