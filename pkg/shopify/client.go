package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a Shopify Admin GraphQL API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Shopify Admin API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.ShopDomain = NormalizeDomain(config.ShopDomain)

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// GraphQLRequest is the request envelope for the Admin GraphQL endpoint
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse is the response envelope for the Admin GraphQL endpoint
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is a top-level GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// UserError is a mutation-level validation error
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func joinUserErrors(errs []UserError) string {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return strings.Join(messages, ", ")
}

// Execute runs a GraphQL query or mutation against the Admin API
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.config.ShopDomain, c.config.APIVersion)

	body, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrNetwork, resp.StatusCode, string(respBody))
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(respBody, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, gqlErr := range graphQLResp.Errors {
			messages[i] = gqlErr.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrNetwork, strings.Join(messages, "; "))
	}

	return &graphQLResp, nil
}

const variantCreateMutation = `
mutation productVariantCreate($input: ProductVariantInput!) {
  productVariantCreate(input: $input) {
    productVariant {
      id
      title
      sku
      price
      inventoryQuantity
    }
    userErrors {
      field
      message
    }
  }
}
`

type variantCreatePayload struct {
	ProductVariantCreate struct {
		ProductVariant *Variant    `json:"productVariant"`
		UserErrors     []UserError `json:"userErrors"`
	} `json:"productVariantCreate"`
}

// CreateVariant creates a platform variant and returns its GID. Validation
// failures surface as ErrVariantRejected; transport failures as ErrNetwork.
func (c *Client) CreateVariant(ctx context.Context, input VariantCreateInput) (string, error) {
	optionNames := make([]string, len(input.Options))
	for i, opt := range input.Options {
		optionNames[i] = opt.Value
	}

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"productId": input.ProductGID,
			"price":     fmt.Sprintf("%.2f", input.Price),
			"sku":       input.SKU,
			"options":   optionNames,
			"inventoryQuantities": []map[string]interface{}{
				{
					"availableQuantity": input.StockQuantity,
					"locationId":        c.config.LocationID,
				},
			},
		},
	}

	resp, err := c.Execute(ctx, variantCreateMutation, variables)
	if err != nil {
		return "", err
	}

	var payload variantCreatePayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal variant response: %w", err)
	}

	if len(payload.ProductVariantCreate.UserErrors) > 0 {
		return "", fmt.Errorf("%w: %s", ErrVariantRejected, joinUserErrors(payload.ProductVariantCreate.UserErrors))
	}
	if payload.ProductVariantCreate.ProductVariant == nil {
		return "", fmt.Errorf("%w: no variant returned", ErrVariantRejected)
	}

	return payload.ProductVariantCreate.ProductVariant.ID, nil
}

const draftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
      invoiceUrl
      totalPrice
      subtotalPrice
      totalTax
    }
    userErrors {
      field
      message
    }
  }
}
`

type draftOrderCreatePayload struct {
	DraftOrderCreate struct {
		DraftOrder *DraftOrder `json:"draftOrder"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"draftOrderCreate"`
}

// CreateDraftOrder creates a draft order and returns it, including the
// hosted invoice URL.
func (c *Client) CreateDraftOrder(ctx context.Context, input DraftOrderInput) (*DraftOrder, error) {
	resp, err := c.Execute(ctx, draftOrderCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return nil, err
	}

	var payload draftOrderCreatePayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft order response: %w", err)
	}

	if len(payload.DraftOrderCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDraftOrderRejected, joinUserErrors(payload.DraftOrderCreate.UserErrors))
	}
	if payload.DraftOrderCreate.DraftOrder == nil || payload.DraftOrderCreate.DraftOrder.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: no invoice URL returned", ErrDraftOrderRejected)
	}

	return payload.DraftOrderCreate.DraftOrder, nil
}

const productsQuery = `
query products($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        featuredImage {
          url
        }
      }
    }
  }
}
`

type productsPayload struct {
	Products struct {
		Edges []struct {
			Node struct {
				ID            string `json:"id"`
				Title         string `json:"title"`
				Handle        string `json:"handle"`
				FeaturedImage *struct {
					URL string `json:"url"`
				} `json:"featuredImage"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// GetProducts fetches up to first products from the store catalog.
func (c *Client) GetProducts(ctx context.Context, first int) ([]Product, error) {
	resp, err := c.Execute(ctx, productsQuery, map[string]interface{}{"first": first})
	if err != nil {
		return nil, err
	}

	var payload productsPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products response: %w", err)
	}

	products := make([]Product, 0, len(payload.Products.Edges))
	for _, edge := range payload.Products.Edges {
		product := Product{
			ID:     edge.Node.ID,
			Title:  edge.Node.Title,
			Handle: edge.Node.Handle,
		}
		if edge.Node.FeaturedImage != nil {
			product.ImageURL = edge.Node.FeaturedImage.URL
		}
		products = append(products, product)
	}
	return products, nil
}

const productVariantsQuery = `
query productVariants($id: ID!) {
  product(id: $id) {
    variants(first: 100) {
      edges {
        node {
          id
          title
          sku
          price
          inventoryQuantity
          selectedOptions {
            name
            value
          }
        }
      }
    }
  }
}
`

type productVariantsPayload struct {
	Product *struct {
		Variants struct {
			Edges []struct {
				Node Variant `json:"node"`
			} `json:"edges"`
		} `json:"variants"`
	} `json:"product"`
}

// GetProductVariants fetches the current variant/option metadata for a
// product, including live inventory quantities.
func (c *Client) GetProductVariants(ctx context.Context, productGID string) ([]Variant, error) {
	resp, err := c.Execute(ctx, productVariantsQuery, map[string]interface{}{"id": productGID})
	if err != nil {
		return nil, err
	}

	var payload productVariantsPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variants response: %w", err)
	}
	if payload.Product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productGID)
	}

	variants := make([]Variant, 0, len(payload.Product.Variants.Edges))
	for _, edge := range payload.Product.Variants.Edges {
		variants = append(variants, edge.Node)
	}
	return variants, nil
}

const ordersQuery = `
query orders($first: Int!) {
  orders(first: $first, reverse: true) {
    edges {
      node {
        id
        name
        createdAt
        totalPriceSet {
          shopMoney {
            amount
          }
        }
      }
    }
  }
}
`

type ordersPayload struct {
	Orders struct {
		Edges []struct {
			Node struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				CreatedAt     string `json:"createdAt"`
				TotalPriceSet struct {
					ShopMoney struct {
						Amount string `json:"amount"`
					} `json:"shopMoney"`
				} `json:"totalPriceSet"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

// GetRecentOrders fetches the most recent orders for the dashboard.
func (c *Client) GetRecentOrders(ctx context.Context, first int) ([]Order, error) {
	resp, err := c.Execute(ctx, ordersQuery, map[string]interface{}{"first": first})
	if err != nil {
		return nil, err
	}

	var payload ordersPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders response: %w", err)
	}

	orders := make([]Order, 0, len(payload.Orders.Edges))
	for _, edge := range payload.Orders.Edges {
		orders = append(orders, Order{
			ID:         edge.Node.ID,
			Name:       edge.Node.Name,
			CreatedAt:  edge.Node.CreatedAt,
			TotalPrice: edge.Node.TotalPriceSet.ShopMoney.Amount,
		})
	}
	return orders, nil
}

// GetOrderCount returns the total order count via the REST Admin API.
func (c *Client) GetOrderCount(ctx context.Context) (int, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/orders/count.json?status=any", c.config.ShopDomain, c.config.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return payload.Count, nil
}
