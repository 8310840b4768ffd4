package parser

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Internal singleton instance to allow custom tag registration.
var defaultValidator = newValidator()

// Validator returns the shared validator instance used by struct schemas.
// Use this to register custom validation tags.
func Validator() *validator.Validate {
	return defaultValidator
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under the name the request used, not the Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := fieldName(f); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// validate runs the validator over target and converts failures into field
// errors.
func validate(target any) Errors {
	// Pointer schemas arrive as **T; the validator wants *T.
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Pointer {
		if v.Elem().IsNil() {
			return nil
		}
		v = v.Elem()
	}

	err := defaultValidator.Struct(v.Interface())
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// Non-struct targets have nothing to validate.
		return nil
	}

	var errs Errors
	var vErrors validator.ValidationErrors
	if errors.As(err, &vErrors) {
		for _, vErr := range vErrors {
			errs = append(errs, FieldError{
				Path:    trimNamespace(vErr.Namespace()),
				Rule:    vErr.Tag(),
				Value:   vErr.Value(),
				Message: createMsgForTag(vErr),
			})
		}
		return errs
	}
	return Errors{{Message: err.Error()}}
}

// trimNamespace drops the root struct name: "SignupRequest.email" -> "email".
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// createMsgForTag generates an error message based on the failed validation tag.
func createMsgForTag(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length/value is %s", v.Param())
	case "max":
		return fmt.Sprintf("Maximum length/value is %s", v.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", v.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", v.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", v.Param())
	default:
		return fmt.Sprintf("Validation failed on rule: %s", v.Tag())
	}
}
