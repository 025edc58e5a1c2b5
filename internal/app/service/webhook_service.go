package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/redis"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"gorm.io/gorm"
)

const webhookIDCacheTTL = 48 * time.Hour

// OrderLineItem is one purchased line from an orders/create payload.
type OrderLineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// OrderCreatedPayload is the subset of the orders/create webhook the stock
// decrement path consumes.
type OrderCreatedPayload struct {
	ID        int64           `json:"id"`
	LineItems []OrderLineItem `json:"line_items"`
}

type WebhookService interface {
	// HandleOrderCreated decrements stock for each purchased variant,
	// clamped at zero. Shopify delivers at least once: duplicate webhook
	// ids are recorded and skipped.
	HandleOrderCreated(ctx context.Context, webhookID string, payload OrderCreatedPayload) error
	HandleAppUninstalled(ctx context.Context, shopDomain string) error
	HandleCustomersDataRequest(ctx context.Context, shopDomain string) error
	HandleCustomersRedact(ctx context.Context, shopDomain string) error
	// HandleShopRedact purges everything stored for the shop.
	HandleShopRedact(ctx context.Context, shopDomain string) error
}

type webhookService struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	eventRepo   repository.WebhookEventRepository
}

func NewWebhookService(
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	eventRepo repository.WebhookEventRepository,
) WebhookService {
	return &webhookService{
		variantRepo: variantRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
		eventRepo:   eventRepo,
	}
}

// alreadyProcessed checks the redis fast path first, then the durable
// webhook_events row. Read-only: the id is recorded by markProcessed once
// the delivery's work completed, so a crash mid-delivery leaves the id
// unrecorded and Shopify's retry redoes the work.
func (s *webhookService) alreadyProcessed(ctx context.Context, webhookID string) (bool, error) {
	if webhookID == "" {
		return false, nil
	}

	if dup, err := redis.IsWebhookProcessed(ctx, webhookID); err == nil && dup {
		return true, nil
	}
	return s.eventRepo.Seen(webhookID)
}

// markProcessed records a finished delivery in redis and the DB. Failures
// are logged, not returned: a missed record only risks a redundant
// redelivery, which the nightly stock reconcile absorbs.
func (s *webhookService) markProcessed(ctx context.Context, webhookID, topic string) {
	if webhookID == "" {
		return
	}

	if _, err := redis.MarkWebhookProcessed(ctx, webhookID, webhookIDCacheTTL); err != nil {
		logger.Debug("Webhook id not cached", map[string]interface{}{
			"webhook_id": webhookID,
		})
	}
	if _, err := s.eventRepo.Record(webhookID, topic); err != nil {
		logger.Error("Failed to record processed webhook", err, map[string]interface{}{
			"webhook_id": webhookID,
			"topic":      topic,
		})
	}
}

func (s *webhookService) HandleOrderCreated(ctx context.Context, webhookID string, payload OrderCreatedPayload) error {
	duplicate, err := s.alreadyProcessed(ctx, webhookID)
	if err != nil {
		return err
	}
	if duplicate {
		logger.Info("Skipping duplicate order webhook", map[string]interface{}{
			"webhook_id": webhookID,
			"order_id":   payload.ID,
		})
		return nil
	}

	logger.Info("Processing order webhook", map[string]interface{}{
		"order_id":   payload.ID,
		"line_count": len(payload.LineItems),
	})

	for _, line := range payload.LineItems {
		if line.VariantID == 0 || line.Quantity <= 0 {
			continue
		}

		gid := shopify.VariantGID(strconv.FormatInt(line.VariantID, 10))
		variant, err := s.variantRepo.FindByShopifyVariantID(gid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Native Shopify variant not managed here.
				continue
			}
			logger.Error("Stock decrement lookup failed", err, map[string]interface{}{
				"shopify_variant_id": gid,
			})
			continue
		}

		newStock := variant.StockQuantity - line.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := s.variantRepo.SetStock(variant.ID, newStock); err != nil {
			logger.Error("Failed to decrement stock", err, map[string]interface{}{
				"variant_id": variant.ID,
			})
			continue
		}
		logger.Info("Stock decremented", map[string]interface{}{
			"variant_id": variant.ID,
			"old_stock":  variant.StockQuantity,
			"new_stock":  newStock,
			"quantity":   line.Quantity,
		})
	}

	s.markProcessed(ctx, webhookID, "orders/create")
	return nil
}

func (s *webhookService) HandleAppUninstalled(ctx context.Context, shopDomain string) error {
	logger.Warn("App uninstalled", map[string]interface{}{
		"shop": shopDomain,
	})
	return s.shopRepo.MarkUninstalled(shopDomain)
}

func (s *webhookService) HandleCustomersDataRequest(ctx context.Context, shopDomain string) error {
	// No customer data is stored: attributes, variants and recommendations
	// are all merchant catalog data.
	logger.Info("Customer data request received, nothing stored", map[string]interface{}{
		"shop": shopDomain,
	})
	return nil
}

func (s *webhookService) HandleCustomersRedact(ctx context.Context, shopDomain string) error {
	logger.Info("Customer redact received, nothing stored", map[string]interface{}{
		"shop": shopDomain,
	})
	return nil
}

func (s *webhookService) HandleShopRedact(ctx context.Context, shopDomain string) error {
	logger.Warn("Shop redact: purging store data", map[string]interface{}{
		"shop": shopDomain,
	})

	if err := s.productRepo.DeleteAll(); err != nil {
		return err
	}
	err := s.shopRepo.DeleteByDomain(shopDomain)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
