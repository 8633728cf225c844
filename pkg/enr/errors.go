package enr

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	ErrFieldValidation   = errors.New("field validation failed")
	ErrRecordTooLarge    = errors.New("record exceeds maximum size")
	ErrMalformedEncoding = errors.New("malformed record encoding")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrSignatureInvalid  = errors.New("invalid record signature")
	ErrEntryNotFound     = errors.New("record entry not found")
)

// FieldError reports a field value that could not be put into a record.
// It matches ErrFieldValidation with errors.Is.
type FieldError struct {
	Field string
	Err   error
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFieldValidation.
func (e *FieldError) Is(target error) bool {
	return target == ErrFieldValidation
}

func fieldErr(field string, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Err: fmt.Errorf(format, args...)}
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
