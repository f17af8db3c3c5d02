package httpx

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their `form`
// tag, so validation messages use the wire field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}
