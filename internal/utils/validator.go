// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairprice/fairprice-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("self_role", validateSelfRole)
	validate.RegisterValidation("review_status", validateReviewStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Roles a user may pick at registration. Admins are seeded, never registered.
func validateSelfRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case models.RoleFarmer, models.RoleConsumer, models.RoleVendor:
		return true
	}
	return false
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	return models.PriceStatus(fl.Field().String()).Terminal()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "datetime":
		return e.Field() + " must be a date in " + e.Param() + " format"
	case "self_role":
		return "Role must be one of farmer, consumer or vendor"
	case "review_status":
		return "Status must be approved or rejected"
	default:
		return e.Field() + " is invalid"
	}
}
