package controller

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type controllerTestEnv struct {
	db            *gorm.DB
	attributeRepo repository.AttributeRepository
	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	gateway       *stubGateway
}

func setupControllerTest(t *testing.T) *controllerTestEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	gin.SetMode(gin.TestMode)

	return &controllerTestEnv{
		db:            testDB,
		attributeRepo: repository.NewAttributeRepository(testDB),
		productRepo:   repository.NewProductRepository(testDB),
		variantRepo:   repository.NewVariantRepository(testDB),
		gateway:       &stubGateway{nextVariantID: 2000},
	}
}

func (env *controllerTestEnv) seedAttribute(t *testing.T, name string, values ...string) *model.Attribute {
	t.Helper()

	attribute := &model.Attribute{Name: name, Slug: model.Slugify(name)}
	require.NoError(t, env.attributeRepo.Create(attribute))
	for i, value := range values {
		require.NoError(t, env.attributeRepo.CreateValue(&model.AttributeValue{
			AttributeID:  attribute.ID,
			Value:        value,
			Slug:         model.Slugify(value),
			DisplayOrder: i,
		}))
	}

	loaded, err := env.attributeRepo.FindByID(attribute.ID)
	require.NoError(t, err)
	return loaded
}

func (env *controllerTestEnv) seedProduct(t *testing.T, title string, attributeIDs ...uint) *model.Product {
	t.Helper()

	product := &model.Product{
		ShopifyProductID: fmt.Sprintf("gid://shopify/Product/%s", model.Slugify(title)),
		Title:            title,
		Handle:           model.Slugify(title),
	}
	require.NoError(t, env.productRepo.Create(product))
	if len(attributeIDs) > 0 {
		require.NoError(t, env.productRepo.ReplaceAttributeLinks(product.ID, attributeIDs))
	}
	return product
}

// stubGateway is the platform stand-in for controller tests. Sync routes
// call CreateVariant from concurrent goroutines.
type stubGateway struct {
	mu               sync.Mutex
	createVariantErr error
	nextVariantID    int
	draftOrders      []shopify.DraftOrderInput
}

func (s *stubGateway) CreateVariant(ctx context.Context, input shopify.VariantCreateInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createVariantErr != nil {
		return "", s.createVariantErr
	}
	s.nextVariantID++
	return shopify.VariantGID(fmt.Sprintf("%d", s.nextVariantID)), nil
}

func (s *stubGateway) CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draftOrders = append(s.draftOrders, input)
	return &shopify.DraftOrder{
		ID:         "gid://shopify/DraftOrder/1",
		Name:       "#D1",
		InvoiceURL: "https://example.myshopify.com/invoices/1",
		TotalPrice: "0.00",
	}, nil
}

func (s *stubGateway) GetProducts(ctx context.Context, first int) ([]shopify.Product, error) {
	return nil, nil
}

func (s *stubGateway) GetProductVariants(ctx context.Context, productGID string) ([]shopify.Variant, error) {
	return nil, nil
}

func (s *stubGateway) GetRecentOrders(ctx context.Context, first int) ([]shopify.Order, error) {
	return nil, nil
}

func (s *stubGateway) GetOrderCount(ctx context.Context) (int, error) {
	return 0, nil
}
