// Package errors provides standardized error types for column and dataframe
// adapter operations. It defines ColumnError for consistent error handling
// across all public APIs, with operation context and error wrapping support.
package errors

import (
	"fmt"
)

// ColumnError represents standardized errors across all adapter operations.
type ColumnError struct {
	Op      string // Operation name (e.g., "Sort", "Cast", "UnixTimestamp")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *ColumnError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
func (e *ColumnError) Is(target error) bool {
	if ce, ok := target.(*ColumnError); ok {
		return e.Op == ce.Op && e.Column == ce.Column && e.Message == ce.Message
	}
	return false
}

// NewNotImplementedError creates an error for deliberately unsupported
// operations, such as the reverse division family.
func NewNotImplementedError(op, column string) *ColumnError {
	return &ColumnError{
		Op:      op,
		Column:  column,
		Message: "not implemented",
	}
}

// NewUnsupportedDTypeError creates an error for dtypes outside the mapping tables.
func NewUnsupportedDTypeError(op, typeName string) *ColumnError {
	return &ColumnError{
		Op:      op,
		Message: fmt.Sprintf("unsupported dtype: %s", typeName),
	}
}

// NewComparandMismatchError creates an error for shape-incompatible operands.
func NewComparandMismatchError(op, column string, leftLen, rightLen int) *ColumnError {
	return &ColumnError{
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("comparand length %d does not match column length %d", rightLen, leftLen),
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns.
func NewColumnNotFoundError(op, column string) *ColumnError {
	return &ColumnError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs.
func NewInvalidInputError(op, message string) *ColumnError {
	return &ColumnError{
		Op:      op,
		Message: message,
	}
}

// NewValidationError creates an error for input validation failures.
func NewValidationError(op, column, message string) *ColumnError {
	return &ColumnError{
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures.
func NewInternalError(op string, cause error) *ColumnError {
	return &ColumnError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Predefined error variables for common cases.
var (
	// ErrLengthMismatch indicates length mismatches between operands.
	ErrLengthMismatch = &ColumnError{
		Op:      "validation",
		Message: "columns must have the same length",
	}

	// ErrEmptyColumn indicates operations not supported on empty columns.
	ErrEmptyColumn = &ColumnError{
		Op:      "validation",
		Message: "operation not supported on empty column",
	}

	// ErrInvalidIndex indicates out-of-bounds index access.
	ErrInvalidIndex = &ColumnError{
		Op:      "indexing",
		Message: "index out of bounds",
	}
)
