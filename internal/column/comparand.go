package column

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/stdframe/stdframe/internal/errors"
)

// comparand is a validated right-hand operand: either another column's
// native array or a scalar, never both.
type comparand struct {
	arr    arrow.Array
	scalar any
}

func (o comparand) isScalar() bool {
	return o.arr == nil
}

// validateComparand checks that the right-hand operand of a binary
// operation is shape-compatible with the left column and unwraps it to its
// raw native value. Columns must match the left length exactly; anything
// that is not a column is treated as a scalar. The check runs before any
// backend call so an incompatible operand never produces a partial result.
func validateComparand(op string, left *Column, other any) (comparand, error) {
	switch rhs := other.(type) {
	case *Column:
		if rhs.Len() != left.Len() {
			return comparand{}, errors.NewComparandMismatchError(op, left.name, left.Len(), rhs.Len())
		}
		return comparand{arr: rhs.arr}, nil
	case nil:
		return comparand{}, errors.NewValidationError(op, left.name, "comparand must not be nil")
	default:
		return comparand{scalar: other}, nil
	}
}

// scalarFloat converts a scalar comparand to float64.
func scalarFloat(v any) (float64, bool) {
	switch s := v.(type) {
	case float64:
		return s, true
	case float32:
		return float64(s), true
	case int:
		return float64(s), true
	case int8:
		return float64(s), true
	case int16:
		return float64(s), true
	case int32:
		return float64(s), true
	case int64:
		return float64(s), true
	case uint8:
		return float64(s), true
	case uint16:
		return float64(s), true
	case uint32:
		return float64(s), true
	case uint64:
		return float64(s), true
	default:
		return 0, false
	}
}

// scalarInt converts a scalar comparand to int64 without precision loss.
func scalarInt(v any) (int64, bool) {
	switch s := v.(type) {
	case int:
		return int64(s), true
	case int8:
		return int64(s), true
	case int16:
		return int64(s), true
	case int32:
		return int64(s), true
	case int64:
		return s, true
	case uint8:
		return int64(s), true
	case uint16:
		return int64(s), true
	case uint32:
		return int64(s), true
	default:
		return 0, false
	}
}

// scalarUint converts a scalar comparand to uint64.
func scalarUint(v any) (uint64, bool) {
	switch s := v.(type) {
	case uint8:
		return uint64(s), true
	case uint16:
		return uint64(s), true
	case uint32:
		return uint64(s), true
	case uint64:
		return s, true
	case int:
		if s >= 0 {
			return uint64(s), true
		}
		return 0, false
	case int64:
		if s >= 0 {
			return uint64(s), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func scalarBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func scalarString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func scalarTime(v any) (int64, bool) {
	t, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return t.UTC().UnixNano(), true
}
