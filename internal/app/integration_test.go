package app

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/controller"
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	"github.com/jasher/unlimited-options-backend/internal/db"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "integration-webhook-secret"

type testGateway struct {
	mu            sync.Mutex
	nextVariantID int
	draftOrders   []shopify.DraftOrderInput
}

func (g *testGateway) CreateVariant(ctx context.Context, input shopify.VariantCreateInput) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextVariantID++
	return shopify.VariantGID(fmt.Sprintf("%d", g.nextVariantID)), nil
}

func (g *testGateway) CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.draftOrders = append(g.draftOrders, input)
	return &shopify.DraftOrder{
		ID:         "gid://shopify/DraftOrder/1",
		Name:       "#D1",
		InvoiceURL: "https://example.myshopify.com/invoices/1",
		TotalPrice: "0.00",
	}, nil
}

func (g *testGateway) GetProducts(ctx context.Context, first int) ([]shopify.Product, error) {
	return nil, nil
}

func (g *testGateway) GetProductVariants(ctx context.Context, productGID string) ([]shopify.Variant, error) {
	return nil, nil
}

func (g *testGateway) GetRecentOrders(ctx context.Context, first int) ([]shopify.Order, error) {
	return nil, nil
}

func (g *testGateway) GetOrderCount(ctx context.Context) (int, error) {
	return 0, nil
}

type testServer struct {
	router      *gin.Engine
	db          *gorm.DB
	gateway     *testGateway
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
}

func setupIntegrationTest(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	attributeRepo := repository.NewAttributeRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	shopRepo := repository.NewShopRepository(testDB)
	webhookEventRepo := repository.NewWebhookEventRepository(testDB)

	gateway := &testGateway{nextVariantID: 7000}

	variantService := service.NewVariantService(variantRepo, productRepo, attributeRepo, 0)
	syncService := service.NewSyncService(variantRepo, productRepo, gateway, 0)
	cartService := service.NewCartService(variantRepo, syncService, gateway)
	storefrontService := service.NewStorefrontService(productRepo, variantRepo)
	webhookService := service.NewWebhookService(variantRepo, productRepo, shopRepo, webhookEventRepo)
	exportService := service.NewExportService(variantRepo, productRepo)

	variantController := controller.NewVariantController(variantService, syncService, exportService)
	cartController := controller.NewCartController(cartService)
	storefrontController := controller.NewStorefrontController(storefrontService)
	webhookController := controller.NewWebhookController(webhookService)

	webhookMiddleware := middleware.NewWebhookMiddleware(testWebhookSecret)

	router := gin.New()

	products := router.Group("/api/v1/products")
	{
		products.POST("/:id/variants/generate", variantController.GenerateVariants)
		products.PUT("/:id/variants", variantController.BulkUpdate)
	}

	cart := router.Group("/api/v1/cart")
	{
		cart.POST("/add-variant", cartController.AddVariant)
		cart.POST("/checkout", cartController.CreateCheckout)
	}

	storefront := router.Group("/api/v1/storefront")
	{
		storefront.GET("/products/:platformId/options", storefrontController.GetProductOptions)
		storefront.POST("/products/:platformId/resolve", storefrontController.ResolveSelection)
	}

	webhooks := router.Group("/webhooks")
	webhooks.Use(webhookMiddleware.Verify())
	{
		webhooks.POST("/orders/create", webhookController.OrdersCreate)
	}

	return &testServer{
		router:      router,
		db:          testDB,
		gateway:     gateway,
		variantRepo: variantRepo,
		productRepo: productRepo,
	}
}

func (s *testServer) request(t *testing.T, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// TestVariantLifecycle walks the full merchant-to-shopper flow: generate the
// combination matrix, price it, surface it on the storefront, resolve a cart
// line (materializing on demand) and decrement stock from the order webhook.
func TestVariantLifecycle(t *testing.T) {
	s := setupIntegrationTest(t)

	// Merchant setup: attributes, product, links.
	attributeRepo := repository.NewAttributeRepository(s.db)
	color := &model.Attribute{Name: "Color", Slug: "color"}
	require.NoError(t, attributeRepo.Create(color))
	require.NoError(t, attributeRepo.CreateValue(&model.AttributeValue{AttributeID: color.ID, Value: "Red", Slug: "red"}))
	require.NoError(t, attributeRepo.CreateValue(&model.AttributeValue{AttributeID: color.ID, Value: "Blue", Slug: "blue", DisplayOrder: 1}))
	colorValues, err := attributeRepo.FindValuesByAttributeID(color.ID)
	require.NoError(t, err)

	product := &model.Product{
		ShopifyProductID: shopify.ProductGID("31337"),
		Title:            "Signet Ring",
		Handle:           "signet-ring",
	}
	require.NoError(t, s.productRepo.Create(product))
	require.NoError(t, s.productRepo.ReplaceAttributeLinks(product.ID, []uint{color.ID}))

	// Generate the matrix.
	w := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/variants/generate", product.ID), gin.H{
		"mode": "replace",
		"selected_values": map[string][]uint{
			fmt.Sprint(color.ID): {colorValues[0].ID, colorValues[1].ID},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	variants, err := s.variantRepo.FindByProductID(product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	// Price and stock the Red variant.
	w = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d/variants", product.ID), gin.H{
		"variants": []gin.H{
			{"id": variants[0].ID, "price": 99.00, "stock_quantity": 4},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The storefront widget sees one option axis with two values.
	w = s.request(t, http.MethodGet, "/api/v1/storefront/products/31337/options", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Red")
	assert.Contains(t, w.Body.String(), "Blue")

	// Resolving the full selection finds the variant.
	w = s.request(t, http.MethodPost, "/api/v1/storefront/products/31337/resolve", gin.H{
		"selection": map[string]uint{fmt.Sprint(color.ID): colorValues[0].ID},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"matched":true`)

	// Add to cart: materializes on Shopify and returns a platform line.
	w = s.request(t, http.MethodPost, "/api/v1/cart/add-variant", gin.H{
		"variant_id": variants[0].ID,
		"quantity":   1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resolution service.CartResolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resolution))
	require.True(t, resolution.Success)
	require.NotNil(t, resolution.Line)

	materialized, err := s.variantRepo.FindByID(variants[0].ID)
	require.NoError(t, err)
	require.NotNil(t, materialized.ShopifyVariantID)
	numericID := shopify.ExtractNumericID(*materialized.ShopifyVariantID)
	assert.Equal(t, numericID, resolution.Line.PlatformVariantID)

	// Checkout builds a draft order priced from stored data.
	w = s.request(t, http.MethodPost, "/api/v1/cart/checkout", gin.H{
		"items": []gin.H{
			{"custom_variant_id": variants[0].ID, "quantity": 1, "price": 0.01},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.gateway.draftOrders, 1)
	assert.Equal(t, "99.00", s.gateway.draftOrders[0].LineItems[0].OriginalUnitPrice)

	// The paid order's webhook decrements stock.
	payload := []byte(fmt.Sprintf(`{"id":9001,"line_items":[{"variant_id":%s,"quantity":3}]}`, numericID))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", bytes.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-Sha256", signWebhook(payload))
	req.Header.Set("X-Shopify-Webhook-Id", "wh-lifecycle-1")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	final, err := s.variantRepo.FindByID(variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.StockQuantity)

	// Redelivery of the same webhook id changes nothing.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", bytes.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-Sha256", signWebhook(payload))
	req.Header.Set("X-Shopify-Webhook-Id", "wh-lifecycle-1")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	final, err = s.variantRepo.FindByID(variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, final.StockQuantity)
}
