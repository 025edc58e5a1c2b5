package shopify

import "strings"

// Config represents the configuration for the Shopify Admin API client
type Config struct {
	// ShopDomain is the myshopify.com domain of the store
	ShopDomain string

	// AccessToken is the per-shop Admin API access token obtained via OAuth
	AccessToken string

	// APIVersion is the Admin API version, e.g. "2024-01"
	APIVersion string

	// LocationID is the inventory location GID used when creating variants
	LocationID string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return ErrNotConfigured
	}
	if c.AccessToken == "" {
		return ErrNotConfigured
	}
	if c.APIVersion == "" {
		return ErrNotConfigured
	}
	return nil
}

// NormalizeDomain strips scheme and trailing slashes from a shop domain.
func NormalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}
