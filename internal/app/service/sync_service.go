package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"gorm.io/gorm"
)

// ErrMaterializationFailed wraps a Shopify-side rejection of a variant
// create. Callers branch on it without interpreting the platform error
// shape; transport failures surface as shopify.ErrNetwork instead.
var ErrMaterializationFailed = errors.New("variant materialization failed")

// materializeBatchSize bounds how many variant creates run against Shopify
// at once during a bulk sync.
const materializeBatchSize = 50

type SyncService interface {
	// Materialize ensures the variant exists on Shopify and returns its
	// platform GID. Idempotent: an already-materialized variant returns its
	// stored id without a platform call.
	Materialize(ctx context.Context, variantID uint) (string, error)
	// SyncProduct materializes every active, unmaterialized variant of the
	// product, up to the per-call cap. One variant's failure never aborts
	// the batch.
	SyncProduct(ctx context.Context, productID uint) (*BatchResult, error)
	// ForceResync clears all stored platform ids for the product and
	// materializes from scratch. Recovers from drift where Shopify lost or
	// changed variant ids.
	ForceResync(ctx context.Context, productID uint) (*BatchResult, error)
	// ReconcileStock overwrites local stock with Shopify's inventory counts
	// for every materialized variant. Run on a schedule as the absolute
	// counterweight to webhook-relative decrements.
	ReconcileStock(ctx context.Context) error
}

type syncService struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	gateway     ShopifyGateway
	syncCap     int
}

func NewSyncService(
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	gateway ShopifyGateway,
	syncCap int,
) SyncService {
	if syncCap <= 0 {
		syncCap = 100
	}
	return &syncService{
		variantRepo: variantRepo,
		productRepo: productRepo,
		gateway:     gateway,
		syncCap:     syncCap,
	}
}

func (s *syncService) Materialize(ctx context.Context, variantID uint) (string, error) {
	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVariantNotFound
		}
		return "", err
	}
	return s.materialize(ctx, variant)
}

func (s *syncService) materialize(ctx context.Context, variant *model.Variant) (string, error) {
	if variant.ShopifyVariantID != nil && *variant.ShopifyVariantID != "" {
		return *variant.ShopifyVariantID, nil
	}
	if variant.Product.ShopifyProductID == "" {
		return "", ErrProductNoPlatformID
	}

	logger.Info("Materializing variant", map[string]interface{}{
		"variant_id":      variant.ID,
		"product_id":      variant.ProductID,
		"combination_key": variant.CombinationKey,
	})

	options := make([]shopify.OptionValue, len(variant.Options))
	for i, option := range variant.Options {
		options[i] = shopify.OptionValue{
			Name:  option.Attribute.Name,
			Value: option.AttributeValue.Value,
		}
	}

	gid, err := s.gateway.CreateVariant(ctx, shopify.VariantCreateInput{
		ProductGID:    variant.Product.ShopifyProductID,
		Price:         variant.Price,
		SKU:           variant.SKU,
		StockQuantity: variant.StockQuantity,
		Options:       options,
	})
	if err != nil {
		logger.Error("Shopify rejected variant create", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		if errors.Is(err, shopify.ErrVariantRejected) {
			return "", errors.Join(ErrMaterializationFailed, err)
		}
		return "", err
	}

	if err := s.variantRepo.SetShopifyVariantID(variant.ID, gid); err != nil {
		return "", err
	}
	return gid, nil
}

func (s *syncService) SyncProduct(ctx context.Context, productID uint) (*BatchResult, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.ShopifyProductID == "" {
		return nil, ErrProductNoPlatformID
	}

	variants, err := s.variantRepo.FindUnsynced(productID, s.syncCap)
	if err != nil {
		return nil, err
	}

	logger.Info("Bulk materializing variants", map[string]interface{}{
		"product_id": productID,
		"eligible":   len(variants),
		"cap":        s.syncCap,
	})

	result := &BatchResult{}
	var mu sync.Mutex
	for start := 0; start < len(variants); start += materializeBatchSize {
		end := start + materializeBatchSize
		if end > len(variants) {
			end = len(variants)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			variants[i].Product = *product
			wg.Add(1)
			go func(variant *model.Variant) {
				defer wg.Done()
				_, err := s.materialize(ctx, variant)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					if len(result.Errors) < maxReportedErrors {
						result.Errors = append(result.Errors, BatchError{
							VariantID:      variant.ID,
							CombinationKey: variant.CombinationKey,
							Message:        err.Error(),
						})
					}
					return
				}
				result.Succeeded++
			}(&variants[i])
		}
		wg.Wait()
	}

	logger.Info("Bulk materialization complete", map[string]interface{}{
		"product_id": productID,
		"succeeded":  result.Succeeded,
		"failed":     result.Failed,
	})

	if result.Failed > 0 && result.Succeeded == 0 {
		return result, ErrBatchAllFailed
	}
	return result, nil
}

func (s *syncService) ForceResync(ctx context.Context, productID uint) (*BatchResult, error) {
	logger.Warn("Force resync requested", map[string]interface{}{
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.variantRepo.ClearShopifyVariantIDs(productID); err != nil {
		return nil, err
	}
	return s.SyncProduct(ctx, productID)
}

func (s *syncService) ReconcileStock(ctx context.Context) error {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return err
	}

	for _, product := range products {
		if product.ShopifyProductID == "" {
			continue
		}

		remote, err := s.gateway.GetProductVariants(ctx, product.ShopifyProductID)
		if err != nil {
			logger.Error("Failed to fetch Shopify variants for stock sync", err, map[string]interface{}{
				"product_id": product.ID,
			})
			continue
		}

		for _, platformVariant := range remote {
			local, err := s.variantRepo.FindByShopifyVariantID(platformVariant.ID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Error("Stock sync lookup failed", err, map[string]interface{}{
						"shopify_variant_id": platformVariant.ID,
					})
				}
				continue
			}
			if local.StockQuantity == platformVariant.InventoryQuantity {
				continue
			}
			if err := s.variantRepo.SetStock(local.ID, platformVariant.InventoryQuantity); err != nil {
				logger.Error("Failed to overwrite stock", err, map[string]interface{}{
					"variant_id": local.ID,
				})
				continue
			}
			logger.Info("Stock reconciled from Shopify", map[string]interface{}{
				"variant_id": local.ID,
				"old_stock":  local.StockQuantity,
				"new_stock":  platformVariant.InventoryQuantity,
			})
		}
	}
	return nil
}
