package configdoc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotObject is returned when the document root is not an object.
	ErrNotObject = errors.New("configuration root is not an object")
	// ErrFieldType is returned when a field exists with an unexpected type.
	ErrFieldType = errors.New("configuration field has unexpected type")
)

// FieldTypeError reports the field whose value type blocks an edit.
type FieldTypeError struct {
	Path []string
	Want string
	Got  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q is %s, want %s", strings.Join(e.Path, "."), e.Got, e.Want)
}

func (e *FieldTypeError) Unwrap() error { return ErrFieldType }
