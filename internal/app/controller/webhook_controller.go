package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

// WebhookController handles Shopify webhook deliveries. Signature
// verification happens in middleware before these run; handlers always
// acknowledge with 200 once the payload parses, since Shopify retries
// non-2xx responses.
type WebhookController struct {
	webhookService service.WebhookService
}

func NewWebhookController(webhookService service.WebhookService) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
	}
}

// OrdersCreate decrements stock for purchased variants
// POST /webhooks/orders/create
func (ctrl *WebhookController) OrdersCreate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var payload service.OrderCreatedPayload
	if err := json.Unmarshal(middleware.GetWebhookBody(c), &payload); err != nil {
		log.Warn("Unparseable order webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unparseable payload")
		return
	}

	webhookID := c.GetString(middleware.WebhookIDKey)
	if err := ctrl.webhookService.HandleOrderCreated(c.Request.Context(), webhookID, payload); err != nil {
		log.Error("Order webhook processing failed", err, map[string]interface{}{
			"webhook_id": webhookID,
			"order_id":   payload.ID,
		})
		apperrors.InternalError(c, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AppUninstalled marks the shop uninstalled and clears its token
// POST /webhooks/app/uninstalled
func (ctrl *WebhookController) AppUninstalled(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shop := c.GetString(middleware.WebhookShopKey)
	if err := ctrl.webhookService.HandleAppUninstalled(c.Request.Context(), shop); err != nil {
		log.Error("Uninstall webhook failed", err, map[string]interface{}{
			"shop": shop,
		})
		apperrors.InternalError(c, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CustomersDataRequest acknowledges a GDPR data request
// POST /webhooks/gdpr/customers-data-request
func (ctrl *WebhookController) CustomersDataRequest(c *gin.Context) {
	shop := c.GetString(middleware.WebhookShopKey)
	if err := ctrl.webhookService.HandleCustomersDataRequest(c.Request.Context(), shop); err != nil {
		apperrors.InternalError(c, "Webhook processing failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CustomersRedact acknowledges a GDPR customer redact
// POST /webhooks/gdpr/customers-redact
func (ctrl *WebhookController) CustomersRedact(c *gin.Context) {
	shop := c.GetString(middleware.WebhookShopKey)
	if err := ctrl.webhookService.HandleCustomersRedact(c.Request.Context(), shop); err != nil {
		apperrors.InternalError(c, "Webhook processing failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ShopRedact purges all data stored for the shop
// POST /webhooks/gdpr/shop-redact
func (ctrl *WebhookController) ShopRedact(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shop := c.GetString(middleware.WebhookShopKey)
	if err := ctrl.webhookService.HandleShopRedact(c.Request.Context(), shop); err != nil {
		log.Error("Shop redact failed", err, map[string]interface{}{
			"shop": shop,
		})
		apperrors.InternalError(c, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
