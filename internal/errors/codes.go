package errors

// Error code constants returned in the "error" field of error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The admin UI and storefront widget map
// these codes to display messages.

const (
	// ==================== Auth / session (AUTH_) ====================
	AuthUnauthorized  = "AUTH_UNAUTHORIZED"
	AuthTokenExpired  = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid  = "AUTH_TOKEN_INVALID"
	AuthStateMismatch = "AUTH_STATE_MISMATCH"
	AuthShopRequired  = "AUTH_SHOP_REQUIRED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Generic resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Attributes (ATTRIBUTE_) ====================
	AttributeNotFound      = "ATTRIBUTE_NOT_FOUND"
	AttributeAlreadyExists = "ATTRIBUTE_ALREADY_EXISTS"
	AttributeValueNotFound = "ATTRIBUTE_VALUE_NOT_FOUND"
	AttributeValueExists   = "ATTRIBUTE_VALUE_EXISTS"
	AttributeNoValues      = "ATTRIBUTE_NO_VALUES"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	ProductNoPlatform = "PRODUCT_NO_PLATFORM_ID"

	// ==================== Variants (VARIANT_) ====================
	VariantNotFound      = "VARIANT_NOT_FOUND"
	VariantAlreadyExists = "VARIANT_ALREADY_EXISTS"
	VariantOutOfStock    = "VARIANT_OUT_OF_STOCK"
	VariantNoOptions     = "VARIANT_NO_OPTIONS"

	// ==================== Recommendations (RECOMMENDATION_) ====================
	RecommendationExists   = "RECOMMENDATION_ALREADY_EXISTS"
	RecommendationLimitHit = "RECOMMENDATION_LIMIT_REACHED"

	// ==================== Shopify (SHOPIFY_) ====================
	ShopifySyncFailed = "SHOPIFY_SYNC_FAILED"
	ShopifyAPIError   = "SHOPIFY_API_ERROR"

	// ==================== Batch operations (BATCH_) ====================
	BatchAllFailed      = "BATCH_ALL_FAILED"
	BatchPartialFailure = "BATCH_PARTIAL_FAILURE"

	// ==================== Webhooks (WEBHOOK_) ====================
	WebhookInvalidSignature = "WEBHOOK_INVALID_SIGNATURE"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
