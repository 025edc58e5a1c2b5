package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/errors"
)

// Context keys for verified webhook metadata.
const (
	WebhookIDKey     = "webhook_id"
	WebhookShopKey   = "webhook_shop"
	WebhookTopicKey  = "webhook_topic"
	WebhookBodyKey   = "webhook_body"
)

type WebhookMiddleware struct {
	secret string
}

func NewWebhookMiddleware(secret string) *WebhookMiddleware {
	return &WebhookMiddleware{secret: secret}
}

// Verify checks the X-Shopify-Hmac-Sha256 signature against the raw request
// body and rejects deliveries that do not authenticate. The raw body is
// stored on the context because signature verification consumes it.
func (m *WebhookMiddleware) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Warn("Failed to read webhook body", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.BadRequest(c, errors.WebhookInvalidSignature, "Unreadable webhook body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader("X-Shopify-Hmac-Sha256")
		if signature == "" || !validSignature(body, signature, m.secret) {
			log.Warn("Webhook signature verification failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"topic": c.GetHeader("X-Shopify-Topic"),
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.WebhookInvalidSignature, "Invalid webhook signature")
			c.Abort()
			return
		}

		c.Set(WebhookIDKey, c.GetHeader("X-Shopify-Webhook-Id"))
		c.Set(WebhookShopKey, c.GetHeader("X-Shopify-Shop-Domain"))
		c.Set(WebhookTopicKey, c.GetHeader("X-Shopify-Topic"))
		c.Set(WebhookBodyKey, body)
		c.Next()
	}
}

func validSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GetWebhookBody returns the raw body captured during verification.
func GetWebhookBody(c *gin.Context) []byte {
	if body, exists := c.Get(WebhookBodyKey); exists {
		if b, ok := body.([]byte); ok {
			return b
		}
	}
	return nil
}
