package service

import (
	"context"
	"testing"

	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartServiceTest(t *testing.T) (*testRepos, *fakeGateway, CartService) {
	repos := setupRepos(t)
	gateway := newFakeGateway()
	syncService := NewSyncService(repos.variant, repos.product, gateway, 0)
	return repos, gateway, NewCartService(repos.variant, syncService, gateway)
}

func TestResolveForCart(t *testing.T) {
	repos, gateway, svc := setupCartServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.NoError(t, repos.variant.UpdateFields(variants[0].ID, map[string]interface{}{
		"stock_quantity": 5,
		"sku":            "RING-RED",
	}))

	resolution, err := svc.ResolveForCart(context.Background(), variants[0].ID, 2)
	require.NoError(t, err)
	assert.True(t, resolution.Success)
	assert.False(t, resolution.Fallback)
	require.NotNil(t, resolution.Line)
	assert.Nil(t, resolution.Variant)

	// The cart line carries the bare numeric id, not the GID.
	assert.NotContains(t, resolution.Line.PlatformVariantID, "gid://")
	assert.Equal(t, 2, resolution.Line.Quantity)
	assert.Equal(t, "Red", resolution.Line.Properties["Color"])
	assert.Equal(t, "RING-RED", resolution.Line.Properties["_SKU"])
	assert.Equal(t, 1, gateway.createVariantCalls)
}

func TestResolveForCart_OutOfStock(t *testing.T) {
	repos, gateway, svc := setupCartServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.NoError(t, repos.variant.UpdateFields(variants[0].ID, map[string]interface{}{
		"stock_quantity": 1,
	}))

	_, err := svc.ResolveForCart(context.Background(), variants[0].ID, 2)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// The stock check happens before any platform call.
	assert.Equal(t, 0, gateway.createVariantCalls)
}

func TestResolveForCart_InvalidInput(t *testing.T) {
	repos, _, svc := setupCartServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)

	_, err := svc.ResolveForCart(context.Background(), variants[0].ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.ResolveForCart(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestResolveForCart_FallbackOnRejection(t *testing.T) {
	repos, gateway, svc := setupCartServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.NoError(t, repos.variant.UpdateFields(variants[0].ID, map[string]interface{}{
		"stock_quantity": 5,
		"price":          59.99,
	}))

	gateway.createVariantErr = shopify.ErrVariantRejected

	// A platform rejection downgrades to the fallback payload, it never
	// surfaces as an error to the shopper.
	resolution, err := svc.ResolveForCart(context.Background(), variants[0].ID, 1)
	require.NoError(t, err)
	assert.False(t, resolution.Success)
	assert.True(t, resolution.Fallback)
	assert.Nil(t, resolution.Line)
	require.NotNil(t, resolution.Variant)
	assert.Equal(t, variants[0].ID, resolution.Variant.ID)
	assert.Equal(t, 59.99, resolution.Variant.Price)
	assert.Equal(t, "Test Ring", resolution.Variant.Title)
	require.Len(t, resolution.Variant.Options, 1)
	assert.Equal(t, "Color", resolution.Variant.Options[0].Name)
	assert.Equal(t, "Red", resolution.Variant.Options[0].Value)
}

func TestCreateCheckout_ServerAuthoritativePricing(t *testing.T) {
	repos, gateway, svc := setupCartServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.NoError(t, repos.variant.UpdateFields(variants[0].ID, map[string]interface{}{
		"price": 149.50,
	}))

	result, err := svc.CreateCheckout(context.Background(), []CheckoutItem{
		{
			CustomVariantID: variants[0].ID,
			Title:           "Tampered Title",
			Price:           0.01,
			Quantity:        2,
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.InvoiceURL)

	require.Len(t, gateway.draftOrders, 1)
	require.Len(t, gateway.draftOrders[0].LineItems, 1)
	line := gateway.draftOrders[0].LineItems[0]

	// The client-sent price and title are discarded for tagged lines.
	assert.Equal(t, "149.50", line.OriginalUnitPrice)
	assert.Equal(t, "Test Ring (Color:Red)", line.Title)
	assert.Equal(t, 2, line.Quantity)

	attrs := map[string]string{}
	for _, attr := range line.CustomAttributes {
		attrs[attr.Key] = attr.Value
	}
	assert.Contains(t, attrs, "_custom_variant_id")
	assert.Equal(t, "Red", attrs["Color"])
	assert.True(t, gateway.draftOrders[0].UseCustomerDefaultAddress)
}

func TestCreateCheckout_PassThroughLine(t *testing.T) {
	_, gateway, svc := setupCartServiceTest(t)

	_, err := svc.CreateCheckout(context.Background(), []CheckoutItem{
		{
			Title:    "Native Product",
			Price:    25.00,
			Quantity: 1,
		},
	})
	require.NoError(t, err)

	require.Len(t, gateway.draftOrders, 1)
	line := gateway.draftOrders[0].LineItems[0]
	assert.Equal(t, "Native Product", line.Title)
	assert.Equal(t, "25.00", line.OriginalUnitPrice)
	assert.Empty(t, line.CustomAttributes)
}

func TestCreateCheckout_Errors(t *testing.T) {
	_, _, svc := setupCartServiceTest(t)

	_, err := svc.CreateCheckout(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCheckout)

	_, err = svc.CreateCheckout(context.Background(), []CheckoutItem{
		{Title: "Zero", Price: 1, Quantity: 0},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateCheckout(context.Background(), []CheckoutItem{
		{CustomVariantID: 9999, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}
