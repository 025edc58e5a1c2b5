package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jasher/unlimited-options-backend/config"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// IsWebhookProcessed reports whether a delivery id was already recorded.
// Read-only: the id is only recorded once its processing completed.
func IsWebhookProcessed(ctx context.Context, eventID string) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	key := fmt.Sprintf("webhook:%s", eventID)
	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkWebhookProcessed records a webhook delivery id and reports whether this
// is the first time it was seen. Shopify delivers webhooks at least once, so
// a false return means the delivery is a duplicate and must be skipped.
func MarkWebhookProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	key := fmt.Sprintf("webhook:%s", eventID)
	first, err := client.SetNX(ctx, key, "processed", ttl).Result()
	if err != nil {
		logger.Error("Failed to record webhook id", err, map[string]interface{}{
			"event_id": eventID,
		})
		return false, err
	}
	return first, nil
}

// StoreOAuthState saves the one-time state value for an install flow.
func StoreOAuthState(ctx context.Context, shopDomain, state string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	key := fmt.Sprintf("oauth:state:%s", shopDomain)
	return client.Set(ctx, key, state, ttl).Err()
}

// TakeOAuthState reads and deletes the stored state for a shop, returning ""
// when none exists. Single use: a replayed callback finds nothing.
func TakeOAuthState(ctx context.Context, shopDomain string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}
	key := fmt.Sprintf("oauth:state:%s", shopDomain)
	val, err := client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// CacheProductInfo stores the public storefront product-info payload.
func CacheProductInfo(ctx context.Context, platformProductID string, payload string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	key := fmt.Sprintf("storefront:product:%s", platformProductID)
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache product info", err, map[string]interface{}{
			"platform_product_id": platformProductID,
		})
		return err
	}
	return nil
}

// GetCachedProductInfo returns a cached storefront payload, or "" on miss.
func GetCachedProductInfo(ctx context.Context, platformProductID string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}

	key := fmt.Sprintf("storefront:product:%s", platformProductID)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error("Failed to read cached product info", err, map[string]interface{}{
			"platform_product_id": platformProductID,
		})
		return "", err
	}
	return val, nil
}

// InvalidateProductInfo drops the cached storefront payload for a product.
func InvalidateProductInfo(ctx context.Context, platformProductID string) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	key := fmt.Sprintf("storefront:product:%s", platformProductID)
	return client.Del(ctx, key).Err()
}
