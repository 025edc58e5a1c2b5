package shopify

import "strings"

// OptionValue is one named option assignment on a variant,
// e.g. {Name: "Color", Value: "Blue"}.
type OptionValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariantCreateInput is the input for creating a platform variant.
type VariantCreateInput struct {
	ProductGID    string
	Price         float64
	SKU           string
	StockQuantity int
	Options       []OptionValue
}

// Variant is a platform-side variant as returned by queries.
type Variant struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	InventoryQuantity int     `json:"inventoryQuantity"`
	SelectedOptions   []OptionValue `json:"selectedOptions"`
}

// Product is a platform-side product summary.
type Product struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	ImageURL string `json:"imageUrl"`
}

// DraftOrderAttribute is a custom key/value attribute on a draft order line.
type DraftOrderAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DraftOrderLineItem is one priced line of a draft order.
type DraftOrderLineItem struct {
	Title            string                `json:"title"`
	OriginalUnitPrice string               `json:"originalUnitPrice"`
	Quantity         int                   `json:"quantity"`
	Taxable          bool                  `json:"taxable"`
	CustomAttributes []DraftOrderAttribute `json:"customAttributes,omitempty"`
}

// DraftOrderInput is the input for creating a draft order.
type DraftOrderInput struct {
	LineItems                 []DraftOrderLineItem `json:"lineItems"`
	Note                      string               `json:"note,omitempty"`
	UseCustomerDefaultAddress bool                 `json:"useCustomerDefaultAddress"`
}

// DraftOrder is the created draft order, including the hosted invoice URL
// shoppers are redirected to for payment.
type DraftOrder struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InvoiceURL    string `json:"invoiceUrl"`
	TotalPrice    string `json:"totalPrice"`
	SubtotalPrice string `json:"subtotalPrice"`
	TotalTax      string `json:"totalTax"`
}

// Order is a platform order summary used by the dashboard.
type Order struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"createdAt"`
	TotalPrice string `json:"totalPrice"`
}

// AccessTokenResponse is the payload returned by the OAuth token exchange.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExtractNumericID returns the trailing numeric part of a GID like
// "gid://shopify/ProductVariant/123".
func ExtractNumericID(gid string) string {
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}

// VariantGID builds a ProductVariant GID from a numeric id.
func VariantGID(numericID string) string {
	return "gid://shopify/ProductVariant/" + numericID
}

// ProductGID builds a Product GID from a numeric id.
func ProductGID(numericID string) string {
	return "gid://shopify/Product/" + numericID
}
