package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a configuration value that failed validation,
// named by its config-file key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// newValidator builds a struct validator that reports fields by their
// koanf key, so errors match what users see in config files.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks configuration values against the constraints declared
// on the Configuration struct. The API key is deliberately not validated
// here: commands that never call the API (cache maintenance, dry runs
// against the cache) must keep working without one.
func Validate(cfg *Configuration) error {
	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				return &ValidationError{
					Field:   fieldErr.Field(),
					Message: formatFieldError(fieldErr),
				}
			}
		}
		return err
	}
	return nil
}

// formatFieldError renders one field failure as a human-readable message.
func formatFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", fieldErr.Param(), fieldErr.Value())
	case "max":
		return fmt.Sprintf("must be at most %s, got %v", fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

// KeyLooksValid reports whether the API key matches the expected
// OpenRouter format. A mismatch is worth a warning, not a hard failure.
func KeyLooksValid(key string) bool {
	return strings.HasPrefix(key, "sk-or-")
}
