package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testRepos struct {
	db             *gorm.DB
	attribute      repository.AttributeRepository
	product        repository.ProductRepository
	variant        repository.VariantRepository
	recommendation repository.RecommendationRepository
	shop           repository.ShopRepository
	webhookEvent   repository.WebhookEventRepository
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &testRepos{
		db:             testDB,
		attribute:      repository.NewAttributeRepository(testDB),
		product:        repository.NewProductRepository(testDB),
		variant:        repository.NewVariantRepository(testDB),
		recommendation: repository.NewRecommendationRepository(testDB),
		shop:           repository.NewShopRepository(testDB),
		webhookEvent:   repository.NewWebhookEventRepository(testDB),
	}
}

// seedAttribute creates an attribute with the given values.
func seedAttribute(t *testing.T, repos *testRepos, name string, values ...string) *model.Attribute {
	t.Helper()

	attribute := &model.Attribute{
		Name: name,
		Slug: model.Slugify(name),
	}
	require.NoError(t, repos.attribute.Create(attribute))

	for i, value := range values {
		v := &model.AttributeValue{
			AttributeID:  attribute.ID,
			Value:        value,
			Slug:         model.Slugify(value),
			DisplayOrder: i,
		}
		require.NoError(t, repos.attribute.CreateValue(v))
	}

	loaded, err := repos.attribute.FindByID(attribute.ID)
	require.NoError(t, err)
	return loaded
}

func seedProduct(t *testing.T, repos *testRepos, title string, attributeIDs ...uint) *model.Product {
	t.Helper()

	product := &model.Product{
		ShopifyProductID: fmt.Sprintf("gid://shopify/Product/%s", model.Slugify(title)),
		Title:            title,
		Handle:           model.Slugify(title),
	}
	require.NoError(t, repos.product.Create(product))
	if len(attributeIDs) > 0 {
		require.NoError(t, repos.product.ReplaceAttributeLinks(product.ID, attributeIDs))
	}
	return product
}

// selectAll builds the selected-values map covering every value of the given
// attributes.
func selectAll(attributes ...*model.Attribute) map[uint][]uint {
	selected := make(map[uint][]uint, len(attributes))
	for _, attribute := range attributes {
		ids := make([]uint, len(attribute.Values))
		for i, value := range attribute.Values {
			ids[i] = value.ID
		}
		selected[attribute.ID] = ids
	}
	return selected
}

// fakeGateway is a controllable ShopifyGateway stand-in. Bulk sync calls
// CreateVariant from concurrent goroutines, so mutable state is behind a
// mutex.
type fakeGateway struct {
	mu sync.Mutex

	createVariantCalls int
	createVariantErr   error
	failFirstCreates   int
	nextVariantID      int

	draftOrders    []shopify.DraftOrderInput
	draftOrderErr  error
	productList    []shopify.Product
	remoteVariants map[string][]shopify.Variant
	orderCount     int
	recentOrders   []shopify.Order
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextVariantID:  1000,
		remoteVariants: map[string][]shopify.Variant{},
	}
}

func (f *fakeGateway) CreateVariant(ctx context.Context, input shopify.VariantCreateInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createVariantCalls++
	if f.createVariantErr != nil {
		return "", f.createVariantErr
	}
	if f.createVariantCalls <= f.failFirstCreates {
		return "", shopify.ErrVariantRejected
	}
	f.nextVariantID++
	return shopify.VariantGID(fmt.Sprintf("%d", f.nextVariantID)), nil
}

func (f *fakeGateway) CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draftOrderErr != nil {
		return nil, f.draftOrderErr
	}
	f.draftOrders = append(f.draftOrders, input)
	return &shopify.DraftOrder{
		ID:         "gid://shopify/DraftOrder/1",
		Name:       "#D1",
		InvoiceURL: "https://example.myshopify.com/invoices/1",
		TotalPrice: "0.00",
	}, nil
}

func (f *fakeGateway) GetProducts(ctx context.Context, first int) ([]shopify.Product, error) {
	return f.productList, nil
}

func (f *fakeGateway) GetProductVariants(ctx context.Context, productGID string) ([]shopify.Variant, error) {
	return f.remoteVariants[productGID], nil
}

func (f *fakeGateway) GetRecentOrders(ctx context.Context, first int) ([]shopify.Order, error) {
	return f.recentOrders, nil
}

func (f *fakeGateway) GetOrderCount(ctx context.Context) (int, error) {
	return f.orderCount, nil
}
