package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Input-format errors are fatal to the caller.
	ErrMissingColumn = errors.New("required column missing")
	ErrUnsupported   = errors.New("unsupported format")

	// Empty or degenerate inputs to the statistical stages.
	ErrEmptyTable = errors.New("table has no records")

	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSubjectNotFound = fmt.Errorf("%w: subject", ErrNotFound)
)

// NewMissingColumnsError builds an input-format error naming every absent
// required column.
func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(columns, ", "))
}

// Error checking helpers
func IsInputFormatError(err error) bool {
	return errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrUnsupported)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
