package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a human-readable message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a lower-layer error to an error code and a message safe to
// return to callers. Context is a short label like "variant" or "attribute"
// used to pick a specific not-found code.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "internal server error"}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: context + " not found"}
	}

	// Postgres unique constraint violation (23505)
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		switch {
		case strings.Contains(errLower, "combination_key"):
			return ErrorInfo{Code: VariantAlreadyExists, Message: "a variant with this combination already exists"}
		case strings.Contains(errLower, "slug"):
			return ErrorInfo{Code: AttributeAlreadyExists, Message: "an attribute with this name already exists"}
		case strings.Contains(errLower, "shopify_product_id"):
			return ErrorInfo{Code: ResourceAlreadyExists, Message: "this Shopify product is already registered"}
		default:
			return ErrorInfo{Code: ResourceAlreadyExists, Message: "resource already exists"}
		}
	}

	// Postgres foreign key violation (23503)
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "operation conflicts with related records"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: ShopifyAPIError, Message: "failed to reach an external service, please try again"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "internal server error, please try again later"}
}

func notFoundCode(context string) string {
	switch strings.ToLower(context) {
	case "attribute":
		return AttributeNotFound
	case "attribute value":
		return AttributeValueNotFound
	case "product":
		return ProductNotFound
	case "variant":
		return VariantNotFound
	default:
		return ResourceNotFound
	}
}
