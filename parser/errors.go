package parser

import (
	"fmt"
	"strings"
)

// FieldError describes why one part of the input did not decode.
type FieldError struct {
	// Path is the dotted location of the failing value, e.g. "user.age".
	Path string `json:"path"`
	// Expected is the Go type the value should have had, for type errors.
	Expected string `json:"expected,omitempty"`
	// Value is what was supplied, when known.
	Value any `json:"value,omitempty"`
	// Rule is the validation tag that failed, for validation errors.
	Rule string `json:"rule,omitempty"`
	// Message is a human-readable description.
	Message string `json:"message,omitempty"`
}

func (e FieldError) String() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	switch {
	case e.Expected != "" && e.Value != nil:
		return fmt.Sprintf("invalid value %s supplied to %s: expected %s", quote(e.Value), path, e.Expected)
	case e.Expected != "" && e.Message != "":
		return fmt.Sprintf("%s: expected %s, %s", path, e.Expected, e.Message)
	case e.Expected != "":
		return fmt.Sprintf("%s: expected %s", path, e.Expected)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// Errors is the list of decode failures handed to an ErrorHandler.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

func quote(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
