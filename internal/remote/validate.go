package remote

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks decoded bodies against the `validate` tags of their
// declared shape. Field paths are reported with JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v against its declared shape and reports the first
// mismatch as a SchemaViolation.
func Validate(method, path string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &SchemaViolation{
			Method: method,
			Path:   path,
			Field:  trimRoot(fe.Namespace()),
			Rule:   fe.Tag(),
		}
	}
	return &SchemaViolation{Method: method, Path: path, cause: err}
}

// trimRoot drops the Go type name validator puts in front of every namespace
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
