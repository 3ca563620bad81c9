// Package schema defines the wire format of the API: typed request bodies
// validated at the boundary and versioned response representations.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrMalformedBody is returned when the request body is not a JSON object.
var ErrMalformedBody = errors.New("malformed JSON body")

// ValidationError lists the request fields that failed validation, keyed by
// JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// PostRequest is the body accepted by post create and edit. Pointers
// distinguish an absent key from an empty string.
type PostRequest struct {
	Title *string `json:"title" validate:"required,max=200"`
	Text  *string `json:"text" validate:"required"`
}

// CommentRequest is the body accepted by comment create and edit.
type CommentRequest struct {
	Author *string `json:"author" validate:"required,max=200"`
	Text   *string `json:"text" validate:"required"`
}

// Decode reads one JSON value from r into dst and validates it.
func Decode(r io.Reader, dst interface{}) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return Validate(dst)
}

// Validate runs the struct's validation tags and converts failures into a ValidationError.
func Validate(v interface{}) error {
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
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
