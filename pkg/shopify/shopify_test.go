package shopify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumericID(t *testing.T) {
	assert.Equal(t, "123", ExtractNumericID("gid://shopify/ProductVariant/123"))
	assert.Equal(t, "456", ExtractNumericID("gid://shopify/Product/456"))
	assert.Equal(t, "789", ExtractNumericID("789"))
}

func TestGIDBuilders(t *testing.T) {
	assert.Equal(t, "gid://shopify/ProductVariant/123", VariantGID("123"))
	assert.Equal(t, "gid://shopify/Product/456", ProductGID("456"))

	// Round trip
	assert.Equal(t, "123", ExtractNumericID(VariantGID("123")))
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.myshopify.com", "example.myshopify.com"},
		{"https://example.myshopify.com", "example.myshopify.com"},
		{"http://example.myshopify.com/", "example.myshopify.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDomain(tt.input))
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{ShopDomain: "example.myshopify.com", AccessToken: "token", APIVersion: "2024-01"}
	assert.NoError(t, cfg.Validate())

	assert.ErrorIs(t, (&Config{}).Validate(), ErrNotConfigured)
	assert.ErrorIs(t, (&Config{ShopDomain: "x"}).Validate(), ErrNotConfigured)
	assert.ErrorIs(t, (&Config{ShopDomain: "x", AccessToken: "y"}).Validate(), ErrNotConfigured)
}

func TestAuthorizeURL(t *testing.T) {
	authURL := AuthorizeURL("https://example.myshopify.com/", "key", "read_products,write_products", "https://app.example.com/api/v1/auth/callback", "state-token")

	assert.True(t, strings.HasPrefix(authURL, "https://example.myshopify.com/admin/oauth/authorize?"))
	assert.Contains(t, authURL, "client_id=key")
	assert.Contains(t, authURL, "state=state-token")
	assert.Contains(t, authURL, "scope=read_products%2Cwrite_products")
}
