package db

import (
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Attribute{},
		&model.AttributeValue{},
		&model.Product{},
		&model.ProductAttribute{},
		&model.Variant{},
		&model.VariantOption{},
		&model.Recommendation{},
		&model.Shop{},
		&model.OAuthState{},
		&model.WebhookEvent{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
