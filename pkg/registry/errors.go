package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Errors that can be checked with errors.Is().
var (
	// ErrUnknownModel is returned when a model routes to a provider but is
	// absent from that provider's table.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnsupportedModel is returned when a model name routes to no provider.
	ErrUnsupportedModel = errors.New("unsupported model")
)

// ModelError reports a failed model lookup.
type ModelError struct {
	// Model is the requested model name.
	Model string

	// Err is ErrUnknownModel or ErrUnsupportedModel.
	Err error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Model)
}

// Unwrap returns the sentinel error.
func (e *ModelError) Unwrap() error {
	return e.Err
}

func unknownModel(name string) error {
	return &ModelError{Model: name, Err: ErrUnknownModel}
}

func unsupportedModel(name string) error {
	return &ModelError{Model: name, Err: ErrUnsupportedModel}
}

// FieldError is a single problem found in a model table.
type FieldError struct {
	// Field is the dotted path of the offending value (e.g., "openai.patch.gpt-4.1-mini.factor").
	Field string

	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every problem found in a model table.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all field errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "model table validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("model table validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("model table validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
