package shopify

import "errors"

var (
	// ErrNotConfigured is returned when required credentials are missing
	ErrNotConfigured = errors.New("shopify client not configured")

	// ErrNetwork is returned on transport-level failures talking to Shopify
	ErrNetwork = errors.New("shopify network error")

	// ErrUnauthorized is returned when the access token is rejected
	ErrUnauthorized = errors.New("shopify unauthorized: invalid access token")

	// ErrVariantRejected is returned when Shopify rejects a variant creation
	// with validation userErrors (malformed price, duplicate option set,
	// inventory-location errors). Distinct from ErrNetwork so callers can
	// branch on "materialization failed" without parsing platform errors.
	ErrVariantRejected = errors.New("shopify rejected variant creation")

	// ErrDraftOrderRejected is returned when draftOrderCreate reports userErrors
	ErrDraftOrderRejected = errors.New("shopify rejected draft order creation")

	// ErrNotFound is returned when a requested platform resource does not exist
	ErrNotFound = errors.New("shopify resource not found")
)
