package normalize

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField       = errors.New("normalize: unknown field")
	ErrControlMismatch    = errors.New("normalize: control kind does not fit field type")
	ErrNotInteger         = errors.New("normalize: not an integer")
	ErrNotBoolean         = errors.New("normalize: not a boolean")
	ErrSentinelValue      = errors.New("normalize: value collides with the unset sentinel")
	ErrDuplicateSelection = errors.New("normalize: duplicate selection")
	ErrUnknownOption      = errors.New("normalize: value is not one of the field's options")
	ErrOptionsNotReady    = errors.New("normalize: options have not loaded")
)

// CoercionError reports a raw control value that could not be converted to
// its field's type. The field keeps its previous value.
type CoercionError struct {
	Field string
	Raw   RawControl
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("normalize: field %q: cannot coerce %s value %q: %v", e.Field, e.Raw.Kind, e.Raw.String(), e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Message is the short, user-facing form of the error.
func (e *CoercionError) Message() string {
	switch {
	case errors.Is(e.Err, ErrNotInteger), errors.Is(e.Err, ErrSentinelValue):
		return "Enter a whole number."
	case errors.Is(e.Err, ErrNotBoolean):
		return "Enter yes or no."
	case errors.Is(e.Err, ErrUnknownOption):
		return "Choose one of the listed options."
	case errors.Is(e.Err, ErrOptionsNotReady):
		return "Options are still loading."
	case errors.Is(e.Err, ErrDuplicateSelection):
		return "Each option can only be selected once."
	default:
		return "Invalid value."
	}
}
