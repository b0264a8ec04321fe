package column

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"
)

// lane groups native dtypes into the compute families the kernels operate
// on. Signed integers widen to int64, unsigned to uint64, floats to float64;
// the result is narrowed back through Cast when callers need it.
type lane int

const (
	laneInvalid lane = iota
	laneInt
	laneUint
	laneFloat
	laneBool
	laneString
	laneTime
)

func laneOf(dt arrow.DataType) lane {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return laneInt
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return laneUint
	case arrow.FLOAT32, arrow.FLOAT64:
		return laneFloat
	case arrow.BOOL:
		return laneBool
	case arrow.STRING:
		return laneString
	case arrow.TIMESTAMP:
		return laneTime
	default:
		return laneInvalid
	}
}

// intAt widens a signed integer slot to int64. Caller guarantees the lane.
func intAt(arr arrow.Array, i int) int64 {
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Timestamp:
		return int64(a.Value(i))
	default:
		panic("intAt: not an integer array")
	}
}

// uintAt widens an unsigned integer slot to uint64.
func uintAt(arr arrow.Array, i int) uint64 {
	switch a := arr.(type) {
	case *array.Uint8:
		return uint64(a.Value(i))
	case *array.Uint16:
		return uint64(a.Value(i))
	case *array.Uint32:
		return uint64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	default:
		panic("uintAt: not an unsigned integer array")
	}
}

// floatAt widens any numeric slot to float64.
func floatAt(arr arrow.Array, i int) float64 {
	switch a := arr.(type) {
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Uint8, *array.Uint16, *array.Uint32, *array.Uint64:
		return float64(uintAt(arr, i))
	default:
		return float64(intAt(arr, i))
	}
}

func boolAt(arr arrow.Array, i int) bool {
	return arr.(*array.Boolean).Value(i)
}

func stringAt(arr arrow.Array, i int) string {
	return arr.(*array.String).Value(i)
}

// cmpInt64 three-way compares signed integers.
func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpUint64 three-way compares unsigned integers.
func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpIntUint three-way compares a signed value against an unsigned one
// without precision loss.
func cmpIntUint(a int64, b uint64) int {
	if a < 0 {
		return -1
	}
	return cmpUint64(uint64(a), b)
}

// fitsInt64 reports whether every value of the integer dtype is
// representable as int64.
func fitsInt64(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return true
	default:
		return false
	}
}

// intValueAt widens an integer slot known to fit int64, signed or narrow
// unsigned.
func intValueAt(arr arrow.Array, i int) int64 {
	if laneOf(arr.DataType()) == laneUint {
		return int64(uintAt(arr, i))
	}
	return intAt(arr, i)
}

// floorDiv divides with rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// pythonMod computes a modulo whose result takes the divisor's sign,
// matching the standard's remainder semantics.
func pythonMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// pythonModFloat is the float variant of pythonMod.
func pythonModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// ipow computes integer exponentiation by squaring. Negative exponents are
// the caller's responsibility; the standard routes them to the float path.
func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// cumulative folds vals with fn, skipping null slots while keeping them
// null in the output. reverse applies the fold back-to-front.
func cumulative[T constraints.Ordered](
	vals []T, valid []bool, reverse bool, fn func(acc, v T) T,
) ([]T, []bool) {
	n := len(vals)
	out := make([]T, n)
	outValid := make([]bool, n)

	indices := make([]int, n)
	for i := range indices {
		if reverse {
			indices[i] = n - 1 - i
		} else {
			indices[i] = i
		}
	}

	var acc T
	seen := false
	for _, i := range indices {
		if valid != nil && !valid[i] {
			continue
		}
		if !seen {
			acc = vals[i]
			seen = true
		} else {
			acc = fn(acc, vals[i])
		}
		out[i] = acc
		outValid[i] = true
	}
	return out, outValid
}

// maxOf and minOf are the fold functions used by the cumulative kernels.
func maxOf[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}

func minOf[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

// validityOf extracts the validity mask of an array, or nil when the array
// has no nulls.
func validityOf(arr arrow.Array) []bool {
	if arr.NullN() == 0 {
		return nil
	}
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}
	return valid
}
