// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyAlreadyExists = "common.already_exists"
	KeyAccessDenied  = "common.access_denied"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthAccountInactive    = "auth.account_inactive"

	// Users
	KeyUserNotFound    = "user.not_found"
	KeyUserActivated   = "user.activated"
	KeyUserDeactivated = "user.deactivated"

	// Reference data
	KeyCityNotFound     = "city.not_found"
	KeyMarketNotFound   = "market.not_found"
	KeyCategoryNotFound = "category.not_found"
	KeyProductNotFound  = "product.not_found"

	// Price entries
	KeyPriceSubmitted       = "price.submitted"
	KeyPriceUpdated         = "price.updated"
	KeyPriceReviewed        = "price.reviewed"
	KeyPriceNotFound        = "price.not_found"
	KeyPriceNotEditable     = "price.not_editable"
	KeyPriceAlreadyReviewed = "price.already_reviewed"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationDate    = "validation.invalid_date"
	KeyValidationID      = "validation.invalid_id"
)
