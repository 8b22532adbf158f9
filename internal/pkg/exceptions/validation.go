package exceptions

import (
	"medbook-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "is too short",
	"max":      "is too long",
	"gt":       "must be greater than zero",
	"oneof":    "has an unsupported value",
	"datetime": "must use the YYYY-MM-DD format",
}

func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		firstErr := validationErrors[0]
		fieldName := strings.ToLower(firstErr.Field())
		message, ok := validationErrorMessages[firstErr.Tag()]
		if !ok {
			message = "is invalid"
		}
		return fieldName + " " + message
	}
	return constvars.ErrClientCannotProcessRequest
}
