package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/config"
	"github.com/jasher/unlimited-options-backend/internal/app/controller"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type Router struct {
	authController           *controller.AuthController
	attributeController      *controller.AttributeController
	productController        *controller.ProductController
	variantController        *controller.VariantController
	cartController           *controller.CartController
	storefrontController     *controller.StorefrontController
	recommendationController *controller.RecommendationController
	uploadController         *controller.UploadController
	orderController          *controller.OrderController
	webhookController        *controller.WebhookController
	authMiddleware           *middleware.AuthMiddleware
	webhookMiddleware        *middleware.WebhookMiddleware
	config                   *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	attributeController *controller.AttributeController,
	productController *controller.ProductController,
	variantController *controller.VariantController,
	cartController *controller.CartController,
	storefrontController *controller.StorefrontController,
	recommendationController *controller.RecommendationController,
	uploadController *controller.UploadController,
	orderController *controller.OrderController,
	webhookController *controller.WebhookController,
	authMiddleware *middleware.AuthMiddleware,
	webhookMiddleware *middleware.WebhookMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:           authController,
		attributeController:      attributeController,
		productController:        productController,
		variantController:        variantController,
		cartController:           cartController,
		storefrontController:     storefrontController,
		recommendationController: recommendationController,
		uploadController:         uploadController,
		orderController:          orderController,
		webhookController:        webhookController,
		authMiddleware:           authMiddleware,
		webhookMiddleware:        webhookMiddleware,
		config:                   cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Unlimited Options API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/install", r.authController.Install)
			auth.GET("/callback", r.authController.Callback)
		}

		// Admin surface: requires the session token issued at install time.
		admin := v1.Group("")
		admin.Use(r.authMiddleware.Authenticate())
		{
			attributes := admin.Group("/attributes")
			{
				attributes.GET("", r.attributeController.GetAttributes)
				attributes.POST("", r.attributeController.CreateAttribute)
				attributes.PUT("/:id", r.attributeController.UpdateAttribute)
				attributes.DELETE("/:id", r.attributeController.DeleteAttribute)
				attributes.PUT("/:id/primary", r.attributeController.SetPrimary)
				attributes.POST("/:id/values", r.attributeController.AddValue)
				attributes.PUT("/values/:id", r.attributeController.UpdateValue)
				attributes.DELETE("/values/:id", r.attributeController.DeleteValue)
			}

			products := admin.Group("/products")
			{
				products.GET("", r.productController.GetProducts)
				products.POST("/sync", r.productController.SyncProducts)
				products.GET("/:id", r.productController.GetProduct)
				products.PUT("/:id", r.productController.UpdateProduct)
				products.GET("/:id/attributes", r.productController.GetAttributeLinks)
				products.PUT("/:id/attributes", r.productController.SetAttributeLinks)
				products.PUT("/:id/attributes/default", r.productController.SetDefaultValue)

				products.GET("/:id/variants", r.variantController.GetVariants)
				products.POST("/:id/variants", r.variantController.CreateVariant)
				products.PUT("/:id/variants", r.variantController.BulkUpdate)
				products.DELETE("/:id/variants", r.variantController.BulkDelete)
				products.POST("/:id/variants/generate", r.variantController.GenerateVariants)
				products.POST("/:id/variants/sync", r.variantController.SyncVariants)
				products.POST("/:id/variants/force-resync", r.variantController.ForceResync)
				products.GET("/:id/variants/export", r.variantController.ExportVariants)

				products.GET("/:id/recommendations", r.recommendationController.GetRecommendations)
				products.POST("/:id/recommendations", r.recommendationController.AddRecommendation)
				products.DELETE("/:id/recommendations/:recommendedId", r.recommendationController.RemoveRecommendation)
			}

			upload := admin.Group("/upload")
			{
				upload.POST("/image", r.uploadController.UploadImage)
				upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
			}

			orders := admin.Group("/orders")
			{
				orders.GET("/count", r.orderController.GetOrderCount)
				orders.GET("/recent", r.orderController.GetRecentOrders)
			}
		}

		// Storefront surface: public, consumed by the theme widget.
		cart := v1.Group("/cart")
		{
			cart.POST("/add-variant", r.cartController.AddVariant)
			cart.POST("/checkout", r.cartController.CreateCheckout)
		}

		storefront := v1.Group("/storefront")
		{
			storefront.GET("/products/:platformId", r.storefrontController.GetProductInfo)
			storefront.GET("/products/:platformId/options", r.storefrontController.GetProductOptions)
			storefront.POST("/products/:platformId/resolve", r.storefrontController.ResolveSelection)
		}
	}

	webhooks := router.Group("/webhooks")
	webhooks.Use(r.webhookMiddleware.Verify())
	{
		webhooks.POST("/orders/create", r.webhookController.OrdersCreate)
		webhooks.POST("/app/uninstalled", r.webhookController.AppUninstalled)
		webhooks.POST("/gdpr/customers-data-request", r.webhookController.CustomersDataRequest)
		webhooks.POST("/gdpr/customers-redact", r.webhookController.CustomersRedact)
		webhooks.POST("/gdpr/shop-redact", r.webhookController.ShopRedact)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
