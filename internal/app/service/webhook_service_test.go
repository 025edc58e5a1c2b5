package service

import (
	"context"
	"testing"
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWebhookServiceTest(t *testing.T) (*testRepos, WebhookService) {
	repos := setupRepos(t)
	return repos, NewWebhookService(repos.variant, repos.product, repos.shop, repos.webhookEvent)
}

// seedSyncedVariant creates a variant that already carries a platform id and
// the given stock level. Returns the variant and its numeric platform id.
func seedSyncedVariant(t *testing.T, repos *testRepos, stock int) (*model.Variant, int64) {
	t.Helper()

	color := seedAttribute(t, repos, "Color", "Red")
	product := seedProduct(t, repos, "Webhook Ring", color.ID)
	variants := seedVariants(t, repos, product.ID, color)
	require.Len(t, variants, 1)

	const numericID int64 = 5550001
	require.NoError(t, repos.variant.SetShopifyVariantID(variants[0].ID, shopify.VariantGID("5550001")))
	require.NoError(t, repos.variant.SetStock(variants[0].ID, stock))

	variant, err := repos.variant.FindByID(variants[0].ID)
	require.NoError(t, err)
	return variant, numericID
}

func TestHandleOrderCreated_DecrementsStock(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)
	variant, numericID := seedSyncedVariant(t, repos, 5)

	err := svc.HandleOrderCreated(context.Background(), "wh-1", OrderCreatedPayload{
		ID: 9001,
		LineItems: []OrderLineItem{
			{VariantID: numericID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	stored, err := repos.variant.FindByID(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StockQuantity)
}

func TestHandleOrderCreated_ClampsAtZero(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)
	variant, numericID := seedSyncedVariant(t, repos, 3)

	err := svc.HandleOrderCreated(context.Background(), "wh-1", OrderCreatedPayload{
		ID: 9001,
		LineItems: []OrderLineItem{
			{VariantID: numericID, Quantity: 10},
		},
	})
	require.NoError(t, err)

	stored, err := repos.variant.FindByID(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockQuantity)
}

func TestHandleOrderCreated_DuplicateDelivery(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)
	variant, numericID := seedSyncedVariant(t, repos, 5)

	payload := OrderCreatedPayload{
		ID: 9001,
		LineItems: []OrderLineItem{
			{VariantID: numericID, Quantity: 2},
		},
	}

	require.NoError(t, svc.HandleOrderCreated(context.Background(), "wh-1", payload))
	// Shopify redelivers with the same webhook id; the second pass must not
	// decrement again.
	require.NoError(t, svc.HandleOrderCreated(context.Background(), "wh-1", payload))

	stored, err := repos.variant.FindByID(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StockQuantity)

	// A different delivery id processes normally.
	require.NoError(t, svc.HandleOrderCreated(context.Background(), "wh-2", payload))
	stored, err = repos.variant.FindByID(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StockQuantity)
}

func TestHandleOrderCreated_IgnoresUnknownVariants(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)
	variant, _ := seedSyncedVariant(t, repos, 5)

	// Native Shopify variants not managed here are skipped without error.
	err := svc.HandleOrderCreated(context.Background(), "wh-1", OrderCreatedPayload{
		ID: 9001,
		LineItems: []OrderLineItem{
			{VariantID: 123456789, Quantity: 2},
			{VariantID: 0, Quantity: 1},
			{VariantID: 5550001, Quantity: 0},
		},
	})
	require.NoError(t, err)

	stored, err := repos.variant.FindByID(variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity)
}

func TestHandleAppUninstalled(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)

	require.NoError(t, repos.shop.Upsert(&model.Shop{
		Domain:      "example.myshopify.com",
		AccessToken: "token",
		InstalledAt: time.Now(),
	}))

	require.NoError(t, svc.HandleAppUninstalled(context.Background(), "example.myshopify.com"))

	shop, err := repos.shop.FindByDomain("example.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, shop.AccessToken)
	assert.NotNil(t, shop.UninstalledAt)
}

func TestHandleShopRedact(t *testing.T) {
	repos, svc := setupWebhookServiceTest(t)

	require.NoError(t, repos.shop.Upsert(&model.Shop{
		Domain:      "example.myshopify.com",
		AccessToken: "token",
		InstalledAt: time.Now(),
	}))
	seedProduct(t, repos, "Doomed Ring")

	require.NoError(t, svc.HandleShopRedact(context.Background(), "example.myshopify.com"))

	products, err := repos.product.FindAll()
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = repos.shop.FindByDomain("example.myshopify.com")
	assert.Error(t, err)

	// Redacting an unknown shop is not an error.
	assert.NoError(t, svc.HandleShopRedact(context.Background(), "gone.myshopify.com"))
}

func TestGDPRHandlersStoreNothing(t *testing.T) {
	_, svc := setupWebhookServiceTest(t)

	assert.NoError(t, svc.HandleCustomersDataRequest(context.Background(), "example.myshopify.com"))
	assert.NoError(t, svc.HandleCustomersRedact(context.Background(), "example.myshopify.com"))
}

// recordObservingEventRepo captures a snapshot at Record time so tests can
// assert what had already happened when the delivery id was persisted.
type recordObservingEventRepo struct {
	inner    repository.WebhookEventRepository
	onRecord func()
}

func (r *recordObservingEventRepo) Seen(eventID string) (bool, error) {
	return r.inner.Seen(eventID)
}

func (r *recordObservingEventRepo) Record(eventID, topic string) (bool, error) {
	r.onRecord()
	return r.inner.Record(eventID, topic)
}

func TestHandleOrderCreated_RecordsAfterDecrement(t *testing.T) {
	repos := setupRepos(t)
	variant, numericID := seedSyncedVariant(t, repos, 5)

	// If the delivery id were persisted before the decrements, a crash
	// mid-delivery would skip the redelivery and lose stock updates. The
	// recorded snapshot proves the decrement already happened.
	stockAtRecord := -1
	eventRepo := &recordObservingEventRepo{
		inner: repos.webhookEvent,
		onRecord: func() {
			stored, err := repos.variant.FindByID(variant.ID)
			require.NoError(t, err)
			stockAtRecord = stored.StockQuantity
		},
	}
	svc := NewWebhookService(repos.variant, repos.product, repos.shop, eventRepo)

	err := svc.HandleOrderCreated(context.Background(), "wh-1", OrderCreatedPayload{
		ID: 9001,
		LineItems: []OrderLineItem{
			{VariantID: numericID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stockAtRecord)

	seen, err := repos.webhookEvent.Seen("wh-1")
	require.NoError(t, err)
	assert.True(t, seen)
}
