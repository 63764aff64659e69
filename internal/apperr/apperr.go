package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the two single-cause failure classes. Handlers map
// them to 403 and 404; everything else surfaces as an opaque 500.
var (
	ErrForbidden = errors.New("access denied")
	ErrNotFound  = errors.New("not found")
)

// FieldError names one violated input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of a request, not just the
// first one encountered.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// Validator accumulates field violations across a whole request.
type Validator struct {
	fields []FieldError
}

func (v *Validator) Fail(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

// Err returns a ValidationError if any field failed, nil otherwise.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}
