package config

import (
	"fmt"
	"net"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "http_url":
		return "must be a valid http:// or https:// URL"
	case "source_name":
		return "must start with a lowercase letter and consist only of [a-z0-9_-]"
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For sources: the name of the item (e.g., "spamhaus-drop")
	FieldPath string // Dot-notation field path (e.g., "general.destination")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("source_name", validateSourceName); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

// Custom validator: source name format
func validateSourceName(fl validator.FieldLevel) bool {
	return sourceNameRegexp.MatchString(fl.Field().String())
}

// convertValidatorErrors converts validator.ValidationErrors into our
// ValidationErrors with a field path prefix.
func convertValidatorErrors(err error, pathPrefix, itemName string) ValidationErrors {
	var out ValidationErrors

	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			fieldPath := e.Field()
			if pathPrefix != "" {
				fieldPath = pathPrefix + "." + fieldPath
			}
			out = append(out, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
		return out
	}

	out = append(out, ValidationError{
		ItemName:  itemName,
		FieldPath: pathPrefix,
		Message:   err.Error(),
	})
	return out
}
