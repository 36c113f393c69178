package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The storefront maps these codes to display messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound  = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogCategoryNotFound = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogInvalidFilter    = "CATALOG_INVALID_FILTER"
	CatalogInvalidSort      = "CATALOG_INVALID_SORT"

	// ==================== Settings (SETTINGS_) ====================
	SettingsInvalidDiscount = "SETTINGS_INVALID_DISCOUNT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalCacheError    = "INTERNAL_CACHE_ERROR"
)
