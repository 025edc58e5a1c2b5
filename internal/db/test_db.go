package db

import (
	"fmt"
	"log"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// An in-memory sqlite database exists per connection; a second pooled
	// connection would see empty tables.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access test database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"variant_options", "variants", "recommendations", "product_attributes",
		"products", "attribute_values", "attributes", "shops", "oauth_states",
		"webhook_events",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
