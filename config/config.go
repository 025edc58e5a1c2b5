package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Shopify  ShopifyConfig
	S3       S3Config
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ShopifyConfig carries the per-app API credentials plus the single-shop
// fallbacks used before a shop completes OAuth.
type ShopifyConfig struct {
	APIKey        string
	APISecret     string
	Scopes        string
	AppURL        string
	APIVersion    string
	ShopDomain    string
	AccessToken   string
	WebhookSecret string
	LocationID    string
	JWTSecret     string
	SessionExpiry time.Duration
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type AppConfig struct {
	RecommendationLimit int
	VariantSyncCap      int
	BulkBatchSize       int
	StockSyncSchedule   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "unlimited_options"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Shopify: ShopifyConfig{
			APIKey:        getEnv("SHOPIFY_API_KEY", ""),
			APISecret:     getEnv("SHOPIFY_API_SECRET", ""),
			Scopes:        getEnv("SHOPIFY_SCOPES", "read_products,write_products,write_draft_orders"),
			AppURL:        getEnv("SHOPIFY_APP_URL", "http://localhost:8080"),
			APIVersion:    getEnv("SHOPIFY_API_VERSION", "2024-01"),
			ShopDomain:    getEnv("SHOPIFY_SHOP_DOMAIN", ""),
			AccessToken:   getEnv("SHOPIFY_ACCESS_TOKEN", ""),
			WebhookSecret: getEnv("SHOPIFY_WEBHOOK_SECRET", ""),
			LocationID:    getEnv("SHOPIFY_LOCATION_ID", ""),
			JWTSecret:     getEnv("SESSION_JWT_SECRET", "your-secret-key"),
			SessionExpiry: parseDuration(getEnv("SESSION_EXPIRY", "24h")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "unlimited-options-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		App: AppConfig{
			RecommendationLimit: getEnvInt("RECOMMENDATION_LIMIT", 2),
			VariantSyncCap:      getEnvInt("VARIANT_SYNC_CAP", 100),
			BulkBatchSize:       getEnvInt("BULK_BATCH_SIZE", 50),
			StockSyncSchedule:   getEnv("STOCK_SYNC_SCHEDULE", "0 4 * * *"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 24h", s)
		return 24 * time.Hour
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
