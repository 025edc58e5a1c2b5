package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/redis"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"gorm.io/gorm"
)

const productInfoCacheTTL = 5 * time.Minute

// StorefrontValue is one selectable value shown in the widget.
type StorefrontValue struct {
	ValueID  uint   `json:"value_id"`
	Value    string `json:"value"`
	ImageURL string `json:"image_url,omitempty"`
}

// StorefrontAttribute is one option axis present in a product's variant set,
// with its values deduplicated across variants in first-seen order.
type StorefrontAttribute struct {
	AttributeID uint              `json:"attribute_id"`
	Name        string            `json:"name"`
	IsPrimary   bool              `json:"is_primary"`
	Values      []StorefrontValue `json:"values"`
}

// ProductInfo is the public storefront payload for one product.
type ProductInfo struct {
	ProductID        uint                  `json:"product_id"`
	ShopifyProductID string                `json:"shopify_product_id"`
	Title            string                `json:"title"`
	ImageURL         string                `json:"image_url,omitempty"`
	IsRing           bool                  `json:"is_ring"`
	RingSizes        []string              `json:"ring_sizes,omitempty"`
	Attributes       []StorefrontAttribute `json:"attributes"`
	VariantCount     int                   `json:"variant_count"`
}

type StorefrontService interface {
	// GetProductOptions returns the option axes present in the product's
	// active variant set, keyed by the numeric Shopify product id.
	GetProductOptions(platformProductID string) ([]StorefrontAttribute, error)
	// GetProductInfo returns the public product payload, served from the
	// redis cache when warm.
	GetProductInfo(ctx context.Context, platformProductID string) (*ProductInfo, error)
	// ResolveSelection finds the single variant whose full option set
	// exactly matches the selection (attribute id -> value id), or nil when
	// no variant matches.
	ResolveSelection(platformProductID string, selection map[uint]uint) (*model.Variant, error)
	// InvalidateProductInfo drops the cached payload after an admin edit.
	InvalidateProductInfo(ctx context.Context, platformProductID string)
}

type storefrontService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewStorefrontService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) StorefrontService {
	return &storefrontService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// ExtractAttributes deduplicates the attribute/value pairs present across a
// variant set, preserving first-seen order for both attributes and values.
func ExtractAttributes(variants []model.Variant) []StorefrontAttribute {
	attributes := []StorefrontAttribute{}
	attributeIndex := map[uint]int{}
	seenValues := map[uint]map[uint]bool{}

	for _, variant := range variants {
		for _, option := range variant.Options {
			idx, ok := attributeIndex[option.AttributeID]
			if !ok {
				attributes = append(attributes, StorefrontAttribute{
					AttributeID: option.AttributeID,
					Name:        option.Attribute.Name,
					IsPrimary:   option.Attribute.IsPrimary,
				})
				idx = len(attributes) - 1
				attributeIndex[option.AttributeID] = idx
				seenValues[option.AttributeID] = map[uint]bool{}
			}
			if seenValues[option.AttributeID][option.AttributeValueID] {
				continue
			}
			seenValues[option.AttributeID][option.AttributeValueID] = true
			attributes[idx].Values = append(attributes[idx].Values, StorefrontValue{
				ValueID:  option.AttributeValueID,
				Value:    option.AttributeValue.Value,
				ImageURL: option.AttributeValue.ImageURL,
			})
		}
	}
	return attributes
}

// MatchVariant finds the variant whose option set fully agrees with the
// selection. A variant matches only when every one of its options is
// selected and it carries an option for every selected attribute; a partial
// selection never matches.
func MatchVariant(variants []model.Variant, selection map[uint]uint) *model.Variant {
	for i := range variants {
		variant := &variants[i]
		if len(variant.Options) == 0 || len(variant.Options) != len(selection) {
			continue
		}

		matched := true
		for _, option := range variant.Options {
			if selection[option.AttributeID] != option.AttributeValueID {
				matched = false
				break
			}
		}
		if matched {
			return variant
		}
	}
	return nil
}

func (s *storefrontService) findProduct(platformProductID string) (*model.Product, error) {
	product, err := s.productRepo.FindByShopifyProductID(shopify.ProductGID(platformProductID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *storefrontService) GetProductOptions(platformProductID string) ([]StorefrontAttribute, error) {
	product, err := s.findProduct(platformProductID)
	if err != nil {
		return nil, err
	}

	variants, err := s.variantRepo.FindActive(product.ID, 0)
	if err != nil {
		return nil, err
	}
	return ExtractAttributes(variants), nil
}

func (s *storefrontService) GetProductInfo(ctx context.Context, platformProductID string) (*ProductInfo, error) {
	if cached, err := redis.GetCachedProductInfo(ctx, platformProductID); err == nil && cached != "" {
		var info ProductInfo
		if err := json.Unmarshal([]byte(cached), &info); err == nil {
			return &info, nil
		}
		logger.Warn("Dropping unreadable cached product info", map[string]interface{}{
			"platform_product_id": platformProductID,
		})
	}

	product, err := s.findProduct(platformProductID)
	if err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.FindActive(product.ID, 0)
	if err != nil {
		return nil, err
	}

	info := &ProductInfo{
		ProductID:        product.ID,
		ShopifyProductID: product.ShopifyProductID,
		Title:            product.Title,
		ImageURL:         product.ImageURL,
		IsRing:           product.IsRing,
		RingSizes:        product.RingSizes,
		Attributes:       ExtractAttributes(variants),
		VariantCount:     len(variants),
	}

	if payload, err := json.Marshal(info); err == nil {
		// Cache failures only cost the next request a DB round trip.
		_ = redis.CacheProductInfo(ctx, platformProductID, string(payload), productInfoCacheTTL)
	}
	return info, nil
}

func (s *storefrontService) ResolveSelection(platformProductID string, selection map[uint]uint) (*model.Variant, error) {
	if len(selection) == 0 {
		return nil, nil
	}

	product, err := s.findProduct(platformProductID)
	if err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.FindActive(product.ID, 0)
	if err != nil {
		return nil, err
	}
	return MatchVariant(variants, selection), nil
}

func (s *storefrontService) InvalidateProductInfo(ctx context.Context, platformProductID string) {
	if err := redis.InvalidateProductInfo(ctx, platformProductID); err != nil {
		logger.Debug("Product info cache invalidation skipped", map[string]interface{}{
			"platform_product_id": platformProductID,
			"error":               err.Error(),
		})
	}
}
