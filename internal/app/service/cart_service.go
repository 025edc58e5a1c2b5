package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"gorm.io/gorm"
)

var (
	ErrOutOfStock      = errors.New("requested quantity exceeds stock")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyCheckout   = errors.New("checkout requires at least one item")
)

// customVariantIDKey tags a draft-order line with the internal variant that
// priced it. The storefront widget sets the same key as a line-item property
// so the order webhook can tie the sale back to a variant.
const customVariantIDKey = "_custom_variant_id"

// CartLine is a ready-to-submit platform cart line: the numeric Shopify
// variant id plus descriptive properties for the cart UI.
type CartLine struct {
	PlatformVariantID string            `json:"id"`
	Quantity          int               `json:"quantity"`
	Properties        map[string]string `json:"properties"`
}

// FallbackVariant is the variant snapshot carried by a fallback resolution.
type FallbackVariant struct {
	ID      uint                  `json:"id"`
	SKU     string                `json:"sku"`
	Price   float64               `json:"price"`
	Title   string                `json:"title"`
	Options []shopify.OptionValue `json:"options"`
}

// CartResolution is the outcome of ResolveForCart. Exactly one of Line or
// Variant is set: Line on the happy path, Variant when materialization
// failed and the caller must fall back to line-item properties against the
// base product.
type CartResolution struct {
	Success  bool             `json:"success"`
	Fallback bool             `json:"fallback"`
	Line     *CartLine        `json:"cart_data,omitempty"`
	Variant  *FallbackVariant `json:"variant,omitempty"`
}

// CheckoutItem is one storefront cart line submitted to checkout. Lines
// tagged with an internal variant id are re-priced from this system's data;
// untagged lines pass through with the client-supplied price.
type CheckoutItem struct {
	CustomVariantID uint              `json:"custom_variant_id"`
	Title           string            `json:"title"`
	Price           float64           `json:"price"`
	Quantity        int               `json:"quantity" binding:"required"`
	Properties      map[string]string `json:"properties"`
}

// CheckoutResult carries the created draft order's hosted invoice URL.
type CheckoutResult struct {
	DraftOrderID string `json:"draft_order_id"`
	Name         string `json:"name"`
	InvoiceURL   string `json:"invoice_url"`
	TotalPrice   string `json:"total_price"`
}

type CartService interface {
	// ResolveForCart ensures the variant is materialized and returns a cart
	// line, or a fallback payload when Shopify rejects the materialization.
	// Stock is checked before any platform call.
	ResolveForCart(ctx context.Context, variantID uint, quantity int) (*CartResolution, error)
	// CreateCheckout builds a draft order from the cart lines and returns
	// its invoice URL.
	CreateCheckout(ctx context.Context, items []CheckoutItem) (*CheckoutResult, error)
}

type cartService struct {
	variantRepo repository.VariantRepository
	syncService SyncService
	gateway     ShopifyGateway
}

func NewCartService(
	variantRepo repository.VariantRepository,
	syncService SyncService,
	gateway ShopifyGateway,
) CartService {
	return &cartService{
		variantRepo: variantRepo,
		syncService: syncService,
		gateway:     gateway,
	}
}

func (s *cartService) ResolveForCart(ctx context.Context, variantID uint, quantity int) (*CartResolution, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	if quantity > variant.StockQuantity {
		logger.Warn("Cart request exceeds stock", map[string]interface{}{
			"variant_id": variantID,
			"requested":  quantity,
			"stock":      variant.StockQuantity,
		})
		return nil, ErrOutOfStock
	}
	if variant.Product.ShopifyProductID == "" {
		return nil, ErrProductNoPlatformID
	}

	gid, err := s.syncService.Materialize(ctx, variantID)
	if err != nil {
		// Checkout must not be blocked by a failed platform create: downgrade
		// to a line-item-properties fallback instead of propagating.
		logger.Warn("Materialization failed, falling back to line-item properties", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		return &CartResolution{
			Fallback: true,
			Variant:  fallbackVariant(variant),
		}, nil
	}

	properties := make(map[string]string, len(variant.Options)+1)
	for _, option := range variant.Options {
		properties[option.Attribute.Name] = option.AttributeValue.Value
	}
	if variant.SKU != "" {
		properties["_SKU"] = variant.SKU
	}

	return &CartResolution{
		Success: true,
		Line: &CartLine{
			PlatformVariantID: shopify.ExtractNumericID(gid),
			Quantity:          quantity,
			Properties:        properties,
		},
	}, nil
}

func fallbackVariant(variant *model.Variant) *FallbackVariant {
	options := make([]shopify.OptionValue, len(variant.Options))
	for i, option := range variant.Options {
		options[i] = shopify.OptionValue{
			Name:  option.Attribute.Name,
			Value: option.AttributeValue.Value,
		}
	}
	return &FallbackVariant{
		ID:      variant.ID,
		SKU:     variant.SKU,
		Price:   variant.Price,
		Title:   variant.Product.Title,
		Options: options,
	}
}

func (s *cartService) CreateCheckout(ctx context.Context, items []CheckoutItem) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCheckout
	}

	lineItems := make([]shopify.DraftOrderLineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		line := shopify.DraftOrderLineItem{
			Title:             item.Title,
			OriginalUnitPrice: fmt.Sprintf("%.2f", item.Price),
			Quantity:          item.Quantity,
			Taxable:           true,
		}

		if item.CustomVariantID != 0 {
			// The true price of a custom variant lives only in this store
			// until materialized; never trust the client-side cart for it.
			variant, err := s.variantRepo.FindByID(item.CustomVariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: checkout variant %d", ErrVariantNotFound, item.CustomVariantID)
				}
				return nil, err
			}

			title := variant.Product.Title
			if variant.CombinationKey != "" {
				title = fmt.Sprintf("%s (%s)", title, variant.CombinationKey)
			}
			line.Title = title
			line.OriginalUnitPrice = fmt.Sprintf("%.2f", variant.Price)
			line.CustomAttributes = append(line.CustomAttributes, shopify.DraftOrderAttribute{
				Key:   customVariantIDKey,
				Value: strconv.FormatUint(uint64(variant.ID), 10),
			})
			for _, option := range variant.Options {
				line.CustomAttributes = append(line.CustomAttributes, shopify.DraftOrderAttribute{
					Key:   option.Attribute.Name,
					Value: option.AttributeValue.Value,
				})
			}
		}
		lineItems = append(lineItems, line)
	}

	logger.Info("Creating draft order", map[string]interface{}{
		"line_count": len(lineItems),
	})

	draftOrder, err := s.gateway.CreateDraftOrder(ctx, shopify.DraftOrderInput{
		LineItems:                 lineItems,
		UseCustomerDefaultAddress: true,
	})
	if err != nil {
		logger.Error("Draft order creation failed", err, nil)
		return nil, err
	}

	return &CheckoutResult{
		DraftOrderID: draftOrder.ID,
		Name:         draftOrder.Name,
		InvoiceURL:   draftOrder.InvoiceURL,
		TotalPrice:   draftOrder.TotalPrice,
	}, nil
}
