package isotag

import (
	"errors"
	"fmt"
)

var (
	ErrNotComposite       = errors.New("unpack target is not a composite")
	ErrFieldNotConfigured = errors.New("field not configured")
	ErrFieldNotFound      = errors.New("field not found")
	ErrInvalidLength      = errors.New("invalid field length")
	ErrInsufficientData   = errors.New("insufficient data")
	ErrTagNotMapped       = errors.New("no tag mapping for field")
	ErrUnknownTag         = errors.New("unknown tag")

	ErrInvalidConfig  = errors.New("invalid tag set configuration")
	ErrUnknownMapper  = errors.New("unknown tag mapper")
	ErrDuplicateTag   = errors.New("duplicate tag")
	ErrInvalidTagSize = errors.New("tag length mismatch")
)

// FieldError wraps a codec failure with the sub-field number it occurred
// on. Pack and Unpack return it for any error raised below the group
// level, so callers can pinpoint the offending entry.
type FieldError struct {
	Field int
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", fe.Field, fe.Err)
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}
