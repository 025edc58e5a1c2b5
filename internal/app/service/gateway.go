package service

import (
	"context"

	"github.com/jasher/unlimited-options-backend/pkg/shopify"
)

// ShopifyGateway is the slice of the Shopify Admin API the services depend
// on. *shopify.Client satisfies it; tests substitute fakes.
type ShopifyGateway interface {
	CreateVariant(ctx context.Context, input shopify.VariantCreateInput) (string, error)
	CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error)
	GetProducts(ctx context.Context, first int) ([]shopify.Product, error)
	GetProductVariants(ctx context.Context, productGID string) ([]shopify.Variant, error)
	GetRecentOrders(ctx context.Context, first int) ([]shopify.Order, error)
	GetOrderCount(ctx context.Context) (int, error)
}
