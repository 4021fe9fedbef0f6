package metadata

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaInvalid = errors.New("metadata: schema is invalid")
	ErrNilProperties = errors.New("metadata: property bag is nil")
)

// FieldError reports one property that failed to parse: the schema field, the
// offending path inside the property value, and the literal offending value.
type FieldError struct {
	Field    string
	Path     string
	Expected string
	Value    any
}

func (e *FieldError) Error() string {
	if e == nil {
		return "metadata: field error"
	}
	path := e.Path
	if path == "" {
		path = e.Field
	}
	return fmt.Sprintf("metadata: field %q: path %s: expected %s, got %#v", e.Field, path, e.Expected, e.Value)
}
