package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/pkg/util"
)

// ShopDomainKey is the gin context key the authenticated shop is stored
// under.
const ShopDomainKey = "shop_domain"

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the embedded-app session token issued at OAuth
// callback time and stores the shop domain on the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Session token required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		shopDomain, err := util.ValidateSessionToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Session token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			errors.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ShopDomainKey, shopDomain)
		c.Next()
	}
}

// GetShopDomain returns the authenticated shop domain from the context.
func GetShopDomain(c *gin.Context) string {
	return c.GetString(ShopDomainKey)
}
