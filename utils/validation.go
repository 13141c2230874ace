package utils

import (
	"fmt"
	"strings"

	"github.com/travelnest/travelnest/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// RegisterValidators installs custom binding validators on gin's validator
// engine. Must run once at startup before the router serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type")
	}

	return v.RegisterValidation("propertytype", validatePropertyType)
}

func validatePropertyType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range models.PropertyTypes {
		if value == t {
			return true
		}
	}
	return false
}
