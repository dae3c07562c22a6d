package normalize

import (
	"errors"
	"fmt"
)

// Field normalization failures. They are never fatal: the field becomes absent.
var (
	ErrInvalidEntityURI = errors.New("invalid entity URI")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrUnknownGender    = errors.New("unknown gender")
	ErrUnknownRelation  = errors.New("unknown reltype")
)

// FieldError describes a raw value that could not be normalized.
type FieldError struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Value is the offending raw value, or the extracted entity id for vocabulary misses.
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}
