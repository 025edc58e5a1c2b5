package service

import (
	"context"
	"testing"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSyncServiceTest(t *testing.T) (*testRepos, *fakeGateway, SyncService) {
	repos := setupRepos(t)
	gateway := newFakeGateway()
	return repos, gateway, NewSyncService(repos.variant, repos.product, gateway, 10)
}

func seedVariants(t *testing.T, repos *testRepos, productID uint, attribute *model.Attribute) []model.Variant {
	t.Helper()

	svc := NewVariantService(repos.variant, repos.product, repos.attribute, 0)
	_, err := svc.GenerateVariants(productID, ModeReplace, selectAll(attribute))
	require.NoError(t, err)

	variants, err := repos.variant.FindByProductID(productID)
	require.NoError(t, err)
	return variants
}

func TestMaterialize_Idempotent(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.Len(t, variants, 1)

	gid, err := svc.Materialize(context.Background(), variants[0].ID)
	require.NoError(t, err)
	assert.Contains(t, gid, "gid://shopify/ProductVariant/")
	assert.Equal(t, 1, gateway.createVariantCalls)

	// The second call serves the stored id without a platform round trip.
	again, err := svc.Materialize(context.Background(), variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, gid, again)
	assert.Equal(t, 1, gateway.createVariantCalls)

	stored, err := repos.variant.FindByID(variants[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ShopifyVariantID)
	assert.Equal(t, gid, *stored.ShopifyVariantID)
}

func TestMaterialize_VariantNotFound(t *testing.T) {
	_, _, svc := setupSyncServiceTest(t)

	_, err := svc.Materialize(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestMaterialize_ProductNotOnPlatform(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := &model.Product{Title: "Draft Ring", Handle: "draft-ring"}
	require.NoError(t, repos.product.Create(product))
	require.NoError(t, repos.product.ReplaceAttributeLinks(product.ID, []uint{color.ID}))
	variants := seedVariants(t, repos, product.ID, color)

	_, err := svc.Materialize(context.Background(), variants[0].ID)
	assert.ErrorIs(t, err, ErrProductNoPlatformID)
	assert.Equal(t, 0, gateway.createVariantCalls)
}

func TestMaterialize_PlatformRejection(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)

	gateway.createVariantErr = shopify.ErrVariantRejected

	_, err := svc.Materialize(context.Background(), variants[0].ID)
	assert.ErrorIs(t, err, ErrMaterializationFailed)
	assert.ErrorIs(t, err, shopify.ErrVariantRejected)

	// The variant stays unmaterialized and eligible for retry.
	stored, err := repos.variant.FindByID(variants[0].ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ShopifyVariantID)
}

func TestSyncProduct(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red", "Blue", "Green")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	seedVariants(t, repos, product.ID, color)

	result, err := svc.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, gateway.createVariantCalls)

	// Every variant got a distinct platform id.
	variants, err := repos.variant.FindByProductID(product.ID)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, variant := range variants {
		require.NotNil(t, variant.ShopifyVariantID)
		assert.False(t, seen[*variant.ShopifyVariantID])
		seen[*variant.ShopifyVariantID] = true
	}

	// A rerun finds nothing unsynced.
	result, err = svc.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 3, gateway.createVariantCalls)
}

func TestSyncProduct_PartialFailure(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red", "Blue", "Green")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	seedVariants(t, repos, product.ID, color)

	gateway.failFirstCreates = 1

	result, err := svc.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
}

func TestSyncProduct_AllFailed(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red", "Blue")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	seedVariants(t, repos, product.ID, color)

	gateway.createVariantErr = shopify.ErrVariantRejected

	result, err := svc.SyncProduct(context.Background(), product.ID)
	assert.ErrorIs(t, err, ErrBatchAllFailed)
	assert.Equal(t, 2, result.Failed)
}

func TestSyncProduct_ProductErrors(t *testing.T) {
	repos, _, svc := setupSyncServiceTest(t)

	_, err := svc.SyncProduct(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)

	product := &model.Product{Title: "Draft Ring", Handle: "draft-ring"}
	require.NoError(t, repos.product.Create(product))

	_, err = svc.SyncProduct(context.Background(), product.ID)
	assert.ErrorIs(t, err, ErrProductNoPlatformID)
}

func TestForceResync(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red", "Blue")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	seedVariants(t, repos, product.ID, color)

	_, err := svc.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, gateway.createVariantCalls)

	variants, err := repos.variant.FindByProductID(product.ID)
	require.NoError(t, err)
	oldIDs := map[string]bool{}
	for _, variant := range variants {
		oldIDs[*variant.ShopifyVariantID] = true
	}

	result, err := svc.ForceResync(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 4, gateway.createVariantCalls)

	variants, err = repos.variant.FindByProductID(product.ID)
	require.NoError(t, err)
	for _, variant := range variants {
		require.NotNil(t, variant.ShopifyVariantID)
		assert.False(t, oldIDs[*variant.ShopifyVariantID])
	}
}

func TestReconcileStock(t *testing.T) {
	repos, gateway, svc := setupSyncServiceTest(t)

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Test Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)

	gid, err := svc.Materialize(context.Background(), variants[0].ID)
	require.NoError(t, err)

	gateway.remoteVariants[product.ShopifyProductID] = []shopify.Variant{
		{ID: gid, InventoryQuantity: 7},
		{ID: shopify.VariantGID("424242"), InventoryQuantity: 3},
	}

	require.NoError(t, svc.ReconcileStock(context.Background()))

	stored, err := repos.variant.FindByID(variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.StockQuantity)
}
