package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUserInactive       = "AUTH_USER_INACTIVE"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Catalog (PRODUCT_, CATEGORY_) ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	ProductInactive  = "PRODUCT_INACTIVE"
	ProductInUse     = "PRODUCT_IN_USE"
	CategoryNotFound = "CATEGORY_NOT_FOUND"
	CategoryInUse    = "CATEGORY_IN_USE"

	// ==================== Orders (ORDER_, STOCK_) ====================
	OrderNotFound             = "ORDER_NOT_FOUND"
	OrderEmpty                = "ORDER_EMPTY"
	OrderInvalidQuantity      = "ORDER_INVALID_QUANTITY"
	OrderInvalidPaymentMethod = "ORDER_INVALID_PAYMENT_METHOD"
	StockInsufficient         = "INSUFFICIENT_STOCK"

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistItemExists   = "WISHLIST_ITEM_EXISTS"
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)
