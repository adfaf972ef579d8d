// internal/app/system/inputval/inputval.go
package inputval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies to keep JSON decoding bounded.
const MaxBodyBytes = 1 << 20 // 1MB

var validate = validator.New()

// ValidationError carries per-field messages suitable for an API response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Bind decodes the request body as JSON into dst and validates it using
// the struct's validate tags. Unknown fields are rejected; an empty body
// is treated as an empty object. A non-nil error is either a decode
// failure or a *ValidationError.
func Bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return Check(dst)
}

// Check validates a struct using its validate tags and converts
// validator errors into a *ValidationError with readable messages.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is Type.Field; report just the field, snake-ish.
	return strings.ToLower(fe.Field())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
