package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInputNotFound  = errors.New("cannot open input file")
	ErrInputEmpty     = errors.New("input file is empty")
	ErrOutputCreate   = errors.New("cannot open output file")
	ErrMissingField   = errors.New("missing record field")
	ErrInvalidAddress = errors.New("invalid node address")
	ErrInvalidFilter  = errors.New("invalid filter expression")
	ErrConfigInvalid  = errors.New("invalid configuration")
)

// NewInputError wraps an input open failure with the offending path.
func NewInputError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, reason)
}

// NewEmptyInputError reports a zero-length input file.
func NewEmptyInputError(path string) error {
	return fmt.Errorf("%w: %s", ErrInputEmpty, path)
}

// NewOutputError wraps an output open/write failure with the offending path.
func NewOutputError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrOutputCreate, path, reason)
}

// NewFieldError reports a RECV record missing a tagged field.
// The record index is 1-based over non-blank input lines.
func NewFieldError(record int, field string) error {
	return fmt.Errorf("%w: record=%d field=%s", ErrMissingField, record, field)
}

// NewAddressError reports a field whose value does not parse as an IP address.
func NewAddressError(record int, field, value string) error {
	return fmt.Errorf("%w: record=%d field=%s value=%q", ErrInvalidAddress, record, field, value)
}

// NewFilterError wraps a filter compilation failure with its source text.
func NewFilterError(src string, reason error) error {
	return fmt.Errorf("%w: %q: %v", ErrInvalidFilter, src, reason)
}

// NewConfigError reports an invalid configuration field.
func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
