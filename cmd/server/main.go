package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jasher/unlimited-options-backend/config"
	"github.com/jasher/unlimited-options-backend/internal/app/controller"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
	"github.com/jasher/unlimited-options-backend/internal/router"
	"github.com/jasher/unlimited-options-backend/internal/scheduler"
	"github.com/jasher/unlimited-options-backend/internal/storage"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/redis"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Unlimited Options Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs webhook dedup, oauth state and the storefront cache; the
	// services degrade to DB-only behavior when it is unavailable.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Shopify Admin API client
	shopifyClient, err := shopify.NewClient(shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		LocationID:  cfg.Shopify.LocationID,
	})
	if err != nil {
		logger.Fatal("Failed to initialize Shopify client", err)
	}

	// Initialize repositories
	attributeRepo := repository.NewAttributeRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	recommendationRepo := repository.NewRecommendationRepository(db.GetDB())
	shopRepo := repository.NewShopRepository(db.GetDB())
	webhookEventRepo := repository.NewWebhookEventRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(shopRepo, &cfg.Shopify)
	attributeService := service.NewAttributeService(attributeRepo)
	productService := service.NewProductService(productRepo, shopifyClient)
	variantService := service.NewVariantService(variantRepo, productRepo, attributeRepo, cfg.App.BulkBatchSize)
	syncService := service.NewSyncService(variantRepo, productRepo, shopifyClient, cfg.App.VariantSyncCap)
	cartService := service.NewCartService(variantRepo, syncService, shopifyClient)
	storefrontService := service.NewStorefrontService(productRepo, variantRepo)
	recommendationService := service.NewRecommendationService(recommendationRepo, productRepo, cfg.App.RecommendationLimit)
	webhookService := service.NewWebhookService(variantRepo, productRepo, shopRepo, webhookEventRepo)
	orderService := service.NewOrderService(shopifyClient)
	exportService := service.NewExportService(variantRepo, productRepo)

	// S3 storage for attribute and variant images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	attributeController := controller.NewAttributeController(attributeService)
	productController := controller.NewProductController(productService)
	variantController := controller.NewVariantController(variantService, syncService, exportService)
	cartController := controller.NewCartController(cartService)
	storefrontController := controller.NewStorefrontController(storefrontService)
	recommendationController := controller.NewRecommendationController(recommendationService)
	uploadController := controller.NewUploadController(s3Storage)
	orderController := controller.NewOrderController(orderService)
	webhookController := controller.NewWebhookController(webhookService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Shopify.JWTSecret)
	webhookMiddleware := middleware.NewWebhookMiddleware(cfg.Shopify.WebhookSecret)

	// Nightly absolute stock reconciliation
	stockScheduler := scheduler.NewStockScheduler(syncService, cfg.App.StockSyncSchedule)
	if err := stockScheduler.Start(); err != nil {
		logger.Error("Failed to start stock scheduler", err)
	}
	defer stockScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		attributeController,
		productController,
		variantController,
		cartController,
		storefrontController,
		recommendationController,
		uploadController,
		orderController,
		webhookController,
		authMiddleware,
		webhookMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
