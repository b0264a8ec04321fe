package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stdframe/stdframe/internal/errors"
)

func TestColumnError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.ColumnError
		expected string
	}{
		{
			name: "Error with column",
			err: &errors.ColumnError{
				Op:      "Sort",
				Column:  "age",
				Message: "column does not exist",
			},
			expected: "Sort operation failed on column 'age': column does not exist",
		},
		{
			name: "Error without column",
			err: &errors.ColumnError{
				Op:      "Cast",
				Message: "unsupported dtype: decimal",
			},
			expected: "Cast operation failed: unsupported dtype: decimal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestColumnError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := errors.NewInternalError("Filter", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestColumnError_Is(t *testing.T) {
	err1 := errors.NewColumnNotFoundError("Sort", "age")
	err2 := errors.NewColumnNotFoundError("Sort", "age")
	err3 := errors.NewColumnNotFoundError("Filter", "age")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.False(t, err1.Is(stderrors.New("different error")))
}

func TestConstructors(t *testing.T) {
	t.Run("NotImplemented", func(t *testing.T) {
		err := errors.NewNotImplementedError("Binary(div, reversed)", "x")
		assert.Contains(t, err.Error(), "not implemented")
		assert.Equal(t, "x", err.Column)
	})

	t.Run("ComparandMismatch", func(t *testing.T) {
		err := errors.NewComparandMismatchError("Eq", "x", 3, 5)
		assert.Contains(t, err.Error(), "comparand length 5")
		assert.Contains(t, err.Error(), "column length 3")
	})

	t.Run("UnsupportedDType", func(t *testing.T) {
		err := errors.NewUnsupportedDTypeError("Cast", "decimal128")
		assert.Contains(t, err.Error(), "decimal128")
	})

	t.Run("Validation", func(t *testing.T) {
		err := errors.NewValidationError("New", "x", "empty name")
		assert.Contains(t, err.Error(), "empty name")
	})
}

func TestSentinels(t *testing.T) {
	assert.EqualError(t, errors.ErrLengthMismatch, "validation operation failed: columns must have the same length")
	assert.EqualError(t, errors.ErrEmptyColumn, "validation operation failed: operation not supported on empty column")
	assert.EqualError(t, errors.ErrInvalidIndex, "indexing operation failed: index out of bounds")
}
