package column

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/errors"
)

// IsNull reports missing-value slots per the backend's native missingness
// marker, the validity bitmap. Floating NaN payloads are not missing.
func (c *Column) IsNull() (*Column, error) {
	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		b.Append(c.arr.IsNull(i))
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// IsNan reports floating NaN slots specifically, via self-inequality on
// valid slots. Null slots report false: a nullable column's missing marker
// and NaN are distinct states, so IsNan and IsNull stay disjoint.
func (c *Column) IsNan() (*Column, error) {
	if laneOf(c.arr.DataType()) != laneFloat {
		return nil, errors.NewUnsupportedDTypeError("IsNan", c.arr.DataType().Name())
	}

	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) {
			b.Append(false)
			continue
		}
		v := floatAt(c.arr, i)
		b.Append(v != v)
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// FillNull replaces true-null slots with value, leaving every valid slot —
// NaN payloads included — untouched.
func (c *Column) FillNull(value any) (*Column, error) {
	rhs, err := validateComparand("FillNull", c, value)
	if err != nil {
		return nil, err
	}
	if !rhs.isScalar() {
		return nil, errors.NewValidationError("FillNull", c.name, "fill value must be a scalar")
	}

	mask := make([]bool, c.Len())
	for i := range mask {
		mask[i] = c.arr.IsNull(i)
	}
	return c.fillWhere("FillNull", mask, value)
}

// FillNan replaces floating NaN slots with value, leaving true-null slots
// null. Float columns only.
func (c *Column) FillNan(value any) (*Column, error) {
	if laneOf(c.arr.DataType()) != laneFloat {
		return nil, errors.NewUnsupportedDTypeError("FillNan", c.arr.DataType().Name())
	}

	mask := make([]bool, c.Len())
	for i := range mask {
		if c.arr.IsNull(i) {
			continue
		}
		v := floatAt(c.arr, i)
		mask[i] = v != v
	}
	return c.fillWhere("FillNan", mask, value)
}

// fillWhere rebuilds the column, substituting value exactly where mask is
// true. The substitution is dtype-checked against the column's lane.
func (c *Column) fillWhere(op string, mask []bool, value any) (*Column, error) {
	switch a := c.arr.(type) {
	case *array.Float32:
		v, ok := scalarFloat(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not numeric")
		}
		return c.rebuildFloat32(a, mask, float32(v)), nil
	case *array.Float64:
		v, ok := scalarFloat(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not numeric")
		}
		return c.rebuildFloat64(a, mask, v), nil
	case *array.Int8, *array.Int16, *array.Int32, *array.Int64:
		v, ok := scalarInt(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not an integer")
		}
		return c.rebuildInt(mask, v)
	case *array.Uint8, *array.Uint16, *array.Uint32, *array.Uint64:
		v, ok := scalarUint(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not an unsigned integer")
		}
		return c.rebuildUint(mask, v)
	case *array.Boolean:
		v, ok := scalarBool(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not boolean")
		}
		b := array.NewBooleanBuilder(c.mem)
		defer b.Release()
		for i := 0; i < c.Len(); i++ {
			switch {
			case mask[i]:
				b.Append(v)
			case c.arr.IsNull(i):
				b.AppendNull()
			default:
				b.Append(boolAt(c.arr, i))
			}
		}
		arr := b.NewArray()
		return c.fromArray(c.name, arr), nil
	case *array.String:
		v, ok := scalarString(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not a string")
		}
		b := array.NewStringBuilder(c.mem)
		defer b.Release()
		for i := 0; i < c.Len(); i++ {
			switch {
			case mask[i]:
				b.Append(v)
			case c.arr.IsNull(i):
				b.AppendNull()
			default:
				b.Append(stringAt(c.arr, i))
			}
		}
		arr := b.NewArray()
		return c.fromArray(c.name, arr), nil
	case *array.Timestamp:
		ns, ok := scalarTime(value)
		if !ok {
			return nil, errors.NewValidationError(op, c.name, "fill value is not a timestamp")
		}
		b := array.NewTimestampBuilder(c.mem, timestampType())
		defer b.Release()
		for i := 0; i < c.Len(); i++ {
			switch {
			case mask[i]:
				b.Append(arrow.Timestamp(ns))
			case c.arr.IsNull(i):
				b.AppendNull()
			default:
				b.Append(a.Value(i))
			}
		}
		arr := b.NewArray()
		return c.fromArray(c.name, arr), nil
	default:
		return nil, errors.NewUnsupportedDTypeError(op, c.arr.DataType().Name())
	}
}

func (c *Column) rebuildFloat32(a *array.Float32, mask []bool, fill float32) *Column {
	b := array.NewFloat32Builder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		switch {
		case mask[i]:
			b.Append(fill)
		case c.arr.IsNull(i):
			b.AppendNull()
		default:
			b.Append(a.Value(i))
		}
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr)
}

func (c *Column) rebuildFloat64(a *array.Float64, mask []bool, fill float64) *Column {
	b := array.NewFloat64Builder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		switch {
		case mask[i]:
			b.Append(fill)
		case c.arr.IsNull(i):
			b.AppendNull()
		default:
			b.Append(a.Value(i))
		}
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr)
}

func (c *Column) rebuildInt(mask []bool, fill int64) (*Column, error) {
	vals := make([]int64, c.Len())
	valid := make([]bool, c.Len())
	for i := 0; i < c.Len(); i++ {
		switch {
		case mask[i]:
			vals[i], valid[i] = fill, true
		case c.arr.IsNull(i):
			valid[i] = false
		default:
			vals[i], valid[i] = intAt(c.arr, i), true
		}
	}
	filled, err := FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
	if err != nil {
		return nil, err
	}
	defer filled.Release()
	// Narrow back to the original dtype so fills do not widen the column.
	return filled.Cast(c.DType())
}

func (c *Column) rebuildUint(mask []bool, fill uint64) (*Column, error) {
	vals := make([]uint64, c.Len())
	valid := make([]bool, c.Len())
	for i := 0; i < c.Len(); i++ {
		switch {
		case mask[i]:
			vals[i], valid[i] = fill, true
		case c.arr.IsNull(i):
			valid[i] = false
		default:
			vals[i], valid[i] = uintAt(c.arr, i), true
		}
	}
	filled, err := FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
	if err != nil {
		return nil, err
	}
	defer filled.Release()
	return filled.Cast(c.DType())
}

// SortOptions configures Sort and SortedIndices. NullsPosition is accepted
// for standard compliance but the implementation always places nulls per
// the backend default: last in ascending order, and therefore first in
// descending order, which is ascending-then-reverse.
type SortOptions struct {
	Ascending     bool
	NullsPosition string
}

// DefaultSortOptions returns ascending order with nulls last.
func DefaultSortOptions() SortOptions {
	return SortOptions{Ascending: true, NullsPosition: "last"}
}

// ascendingOrder computes a stable ascending permutation with nulls last.
func (c *Column) ascendingOrder() ([]int, error) {
	n := c.Len()
	validIdx := make([]int, 0, n)
	nullIdx := make([]int, 0)
	for i := 0; i < n; i++ {
		if c.arr.IsNull(i) {
			nullIdx = append(nullIdx, i)
		} else {
			validIdx = append(validIdx, i)
		}
	}

	var less func(a, b int) bool
	switch laneOf(c.arr.DataType()) {
	case laneInt, laneUint, laneFloat:
		less = func(a, b int) bool { return floatAt(c.arr, a) < floatAt(c.arr, b) }
	case laneString:
		less = func(a, b int) bool { return stringAt(c.arr, a) < stringAt(c.arr, b) }
	case laneBool:
		less = func(a, b int) bool { return !boolAt(c.arr, a) && boolAt(c.arr, b) }
	case laneTime:
		less = func(a, b int) bool { return intAt(c.arr, a) < intAt(c.arr, b) }
	default:
		return nil, errors.NewUnsupportedDTypeError("Sort", c.arr.DataType().Name())
	}

	sort.SliceStable(validIdx, func(i, j int) bool { return less(validIdx[i], validIdx[j]) })
	return append(validIdx, nullIdx...), nil
}

// Sort returns the column's values in sorted order. Descending order is
// the element-wise reversal of ascending order.
func (c *Column) Sort(opts SortOptions) (*Column, error) {
	order, err := c.ascendingOrder()
	if err != nil {
		return nil, err
	}
	if !opts.Ascending {
		reverseInts(order)
	}
	return c.gather("Sort", order)
}

// SortedIndices returns the permutation that sorts the column, as an Int64
// column named after the source.
func (c *Column) SortedIndices(opts SortOptions) (*Column, error) {
	order, err := c.ascendingOrder()
	if err != nil {
		return nil, err
	}
	if !opts.Ascending {
		reverseInts(order)
	}

	vals := make([]int64, len(order))
	for i, idx := range order {
		vals[i] = int64(idx)
	}
	return FromSlice(c.name, vals, c.apiVersion, c.mem)
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// UniqueIndices is not yet supported.
func (c *Column) UniqueIndices() (*Column, error) {
	return nil, errors.NewNotImplementedError("UniqueIndices", c.name)
}

// CumulativeOptions configures the cumulative fold family. Reverse folds
// back-to-front: reverse, accumulate, reverse.
type CumulativeOptions struct {
	SkipNulls bool
	Reverse   bool
}

// DefaultCumulativeOptions returns forward accumulation skipping nulls.
func DefaultCumulativeOptions() CumulativeOptions {
	return CumulativeOptions{SkipNulls: true, Reverse: false}
}

// CumSum returns the running sum. Null slots stay null; accumulation
// continues across them.
func (c *Column) CumSum(opts CumulativeOptions) (*Column, error) {
	return c.cumFold("CumSum", opts,
		func(a, b float64) float64 { return a + b },
		func(a, b int64) int64 { return a + b },
		func(a, b uint64) uint64 { return a + b })
}

// CumProd returns the running product.
func (c *Column) CumProd(opts CumulativeOptions) (*Column, error) {
	return c.cumFold("CumProd", opts,
		func(a, b float64) float64 { return a * b },
		func(a, b int64) int64 { return a * b },
		func(a, b uint64) uint64 { return a * b })
}

// CumMax returns the running maximum.
func (c *Column) CumMax(opts CumulativeOptions) (*Column, error) {
	return c.cumFold("CumMax", opts, maxOf[float64], maxOf[int64], maxOf[uint64])
}

// CumMin returns the running minimum.
func (c *Column) CumMin(opts CumulativeOptions) (*Column, error) {
	return c.cumFold("CumMin", opts, minOf[float64], minOf[int64], minOf[uint64])
}

func (c *Column) cumFold(
	op string, opts CumulativeOptions,
	ffold func(a, b float64) float64,
	ifold func(a, b int64) int64,
	ufold func(a, b uint64) uint64,
) (*Column, error) {
	valid := validityOf(c.arr)

	switch laneOf(c.arr.DataType()) {
	case laneInt:
		vals := make([]int64, c.Len())
		for i := range vals {
			if valid == nil || valid[i] {
				vals[i] = intAt(c.arr, i)
			}
		}
		out, outValid := cumulative(vals, valid, opts.Reverse, ifold)
		result, err := FromSliceWithNulls(c.name, out, outValid, c.apiVersion, c.mem)
		if err != nil {
			return nil, err
		}
		return narrowTo(result, c.DType())

	case laneUint:
		vals := make([]uint64, c.Len())
		for i := range vals {
			if valid == nil || valid[i] {
				vals[i] = uintAt(c.arr, i)
			}
		}
		out, outValid := cumulative(vals, valid, opts.Reverse, ufold)
		result, err := FromSliceWithNulls(c.name, out, outValid, c.apiVersion, c.mem)
		if err != nil {
			return nil, err
		}
		return narrowTo(result, c.DType())

	case laneFloat:
		vals := make([]float64, c.Len())
		for i := range vals {
			if valid == nil || valid[i] {
				vals[i] = floatAt(c.arr, i)
			}
		}
		out, outValid := cumulative(vals, valid, opts.Reverse, ffold)
		result, err := FromSliceWithNulls(c.name, out, outValid, c.apiVersion, c.mem)
		if err != nil {
			return nil, err
		}
		return narrowTo(result, c.DType())

	default:
		return nil, errors.NewUnsupportedDTypeError(op, c.arr.DataType().Name())
	}
}

// narrowTo casts a widened compute result back to the source dtype.
func narrowTo(widened *Column, target dtype.DType) (*Column, error) {
	if widened.DType() == target {
		return widened, nil
	}
	defer widened.Release()
	return widened.Cast(target)
}

// Shift moves values by offset slots, filling vacated slots with null.
// A positive offset shifts toward higher indices.
func (c *Column) Shift(offset int) (*Column, error) {
	n := c.Len()
	indices := make([]int, n)
	oob := make([]bool, n)
	for i := 0; i < n; i++ {
		src := i - offset
		if src < 0 || src >= n {
			oob[i] = true
			continue
		}
		indices[i] = src
	}
	return c.gatherWithNulls("Shift", indices, oob)
}

// Take returns the rows selected by an integer index column, in order.
func (c *Column) Take(indices *Column) (*Column, error) {
	if laneOf(indices.arr.DataType()) != laneInt {
		return nil, errors.NewUnsupportedDTypeError("Take", indices.arr.DataType().Name())
	}
	idx := make([]int, indices.Len())
	for i := range idx {
		if indices.arr.IsNull(i) {
			return nil, errors.NewValidationError("Take", c.name, "index column must not contain nulls")
		}
		v := intAt(indices.arr, i)
		if v < 0 || v >= int64(c.Len()) {
			return nil, errors.ErrInvalidIndex
		}
		idx[i] = int(v)
	}
	return c.gather("Take", idx)
}

// Filter returns the rows where the boolean mask is true. Null mask slots
// drop the row.
func (c *Column) Filter(mask *Column) (*Column, error) {
	if laneOf(mask.arr.DataType()) != laneBool {
		return nil, errors.NewUnsupportedDTypeError("Filter", mask.arr.DataType().Name())
	}
	if mask.Len() != c.Len() {
		return nil, errors.NewComparandMismatchError("Filter", c.name, c.Len(), mask.Len())
	}

	idx := make([]int, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if mask.arr.IsNull(i) {
			continue
		}
		if boolAt(mask.arr, i) {
			idx = append(idx, i)
		}
	}
	return c.gather("Filter", idx)
}

// SliceRows selects rows start:stop:step, half-open. A negative step walks
// backward; step zero is invalid.
func (c *Column) SliceRows(start, stop, step int) (*Column, error) {
	if step == 0 {
		return nil, errors.NewValidationError("SliceRows", c.name, "step must not be zero")
	}

	n := c.Len()
	clamp := func(v int) int {
		if v < 0 {
			v += n
		}
		if v < 0 {
			v = 0
		}
		if v > n {
			v = n
		}
		return v
	}
	start, stop = clamp(start), clamp(stop)

	idx := make([]int, 0)
	if step > 0 {
		for i := start; i < stop; i += step {
			idx = append(idx, i)
		}
	} else {
		for i := start; i > stop; i += step {
			if i < n {
				idx = append(idx, i)
			}
		}
	}
	return c.gather("SliceRows", idx)
}

// IsIn reports, per slot, whether the value occurs in the given column.
// Null slots report false.
func (c *Column) IsIn(values *Column) (*Column, error) {
	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()

	switch laneOf(c.arr.DataType()) {
	case laneString:
		set := make(map[string]struct{})
		for i := 0; i < values.Len(); i++ {
			if values.arr.IsValid(i) && laneOf(values.arr.DataType()) == laneString {
				set[stringAt(values.arr, i)] = struct{}{}
			}
		}
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				b.Append(false)
				continue
			}
			_, ok := set[stringAt(c.arr, i)]
			b.Append(ok)
		}

	case laneInt, laneUint, laneFloat, laneTime:
		set := make(map[float64]struct{})
		for i := 0; i < values.Len(); i++ {
			if !values.arr.IsValid(i) {
				continue
			}
			switch laneOf(values.arr.DataType()) {
			case laneInt, laneUint, laneFloat:
				set[floatAt(values.arr, i)] = struct{}{}
			case laneTime:
				set[float64(intAt(values.arr, i))] = struct{}{}
			}
		}
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				b.Append(false)
				continue
			}
			var v float64
			if laneOf(c.arr.DataType()) == laneTime {
				v = float64(intAt(c.arr, i))
			} else {
				v = floatAt(c.arr, i)
			}
			_, ok := set[v]
			b.Append(ok)
		}

	default:
		return nil, errors.NewUnsupportedDTypeError("IsIn", c.arr.DataType().Name())
	}

	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// gather builds a new column from the given row indices.
func (c *Column) gather(op string, indices []int) (*Column, error) {
	return c.gatherWithNulls(op, indices, nil)
}

// gatherWithNulls is gather with an optional per-output-slot null override.
func (c *Column) gatherWithNulls(op string, indices []int, forceNull []bool) (*Column, error) {
	n := len(indices)
	valid := make([]bool, n)
	for i, src := range indices {
		if forceNull != nil && forceNull[i] {
			valid[i] = false
			continue
		}
		valid[i] = c.arr.IsValid(src)
	}

	pick := func(i int) bool { return valid[i] }

	switch a := c.arr.(type) {
	case *array.Int8:
		return gatherTyped(c, indices, pick, a.Value, array.NewInt8Builder(c.mem))
	case *array.Int16:
		return gatherTyped(c, indices, pick, a.Value, array.NewInt16Builder(c.mem))
	case *array.Int32:
		return gatherTyped(c, indices, pick, a.Value, array.NewInt32Builder(c.mem))
	case *array.Int64:
		return gatherTyped(c, indices, pick, a.Value, array.NewInt64Builder(c.mem))
	case *array.Uint8:
		return gatherTyped(c, indices, pick, a.Value, array.NewUint8Builder(c.mem))
	case *array.Uint16:
		return gatherTyped(c, indices, pick, a.Value, array.NewUint16Builder(c.mem))
	case *array.Uint32:
		return gatherTyped(c, indices, pick, a.Value, array.NewUint32Builder(c.mem))
	case *array.Uint64:
		return gatherTyped(c, indices, pick, a.Value, array.NewUint64Builder(c.mem))
	case *array.Float32:
		return gatherTyped(c, indices, pick, a.Value, array.NewFloat32Builder(c.mem))
	case *array.Float64:
		return gatherTyped(c, indices, pick, a.Value, array.NewFloat64Builder(c.mem))
	case *array.Boolean:
		return gatherTyped(c, indices, pick, a.Value, array.NewBooleanBuilder(c.mem))
	case *array.String:
		return gatherTyped(c, indices, pick, a.Value, array.NewStringBuilder(c.mem))
	case *array.Timestamp:
		return gatherTyped(c, indices, pick, a.Value, array.NewTimestampBuilder(c.mem, timestampType()))
	default:
		return nil, errors.NewUnsupportedDTypeError(op, c.arr.DataType().Name())
	}
}

func gatherTyped[T any, B interface {
	Append(T)
	AppendNull()
	NewArray() arrow.Array
	Release()
}](c *Column, indices []int, pick func(int) bool, value func(int) T, b B) (*Column, error) {
	defer b.Release()
	for i, src := range indices {
		if !pick(i) {
			b.AppendNull()
			continue
		}
		b.Append(value(src))
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// Cast converts the column to the target standard dtype by looking up the
// backend-native equivalent and rebuilding the payload. Null slots are
// preserved.
func (c *Column) Cast(target dtype.DType) (*Column, error) {
	if _, err := dtype.ToArrow(target); err != nil {
		return nil, err
	}

	source := c.DType()
	if source == target {
		c.arr.Retain()
		return c.fromArray(c.name, c.arr), nil
	}

	n := c.Len()
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = c.arr.IsValid(i)
	}

	// String targets format; string sources do not parse.
	if target == dtype.String {
		vals := make([]string, n)
		for i := 0; i < n; i++ {
			if !valid[i] {
				continue
			}
			vals[i] = c.formatValue(i)
		}
		return FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
	}
	if source == dtype.String {
		return nil, errors.NewUnsupportedDTypeError("Cast", "String to "+target.String())
	}

	if target == dtype.Datetime {
		if !source.IsInteger() {
			return nil, errors.NewUnsupportedDTypeError("Cast", source.String()+" to Datetime")
		}
		vals := make([]time.Time, n)
		for i := 0; i < n; i++ {
			if !valid[i] {
				continue
			}
			vals[i] = time.Unix(0, intAt(c.arr, i)).UTC()
		}
		return FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
	}

	// Numeric and boolean targets read through the float64/int64 lanes.
	num := func(i int) float64 {
		switch laneOf(c.arr.DataType()) {
		case laneBool:
			if boolAt(c.arr, i) {
				return 1
			}
			return 0
		case laneTime:
			return float64(intAt(c.arr, i))
		default:
			return floatAt(c.arr, i)
		}
	}

	switch target {
	case dtype.Int8:
		return castNumeric(c, valid, func(i int) int8 { return int8(num(i)) })
	case dtype.Int16:
		return castNumeric(c, valid, func(i int) int16 { return int16(num(i)) })
	case dtype.Int32:
		return castNumeric(c, valid, func(i int) int32 { return int32(num(i)) })
	case dtype.Int64:
		if source == dtype.Datetime || source.IsInteger() {
			return castNumeric(c, valid, func(i int) int64 { return intAt(c.arr, i) })
		}
		return castNumeric(c, valid, func(i int) int64 { return int64(num(i)) })
	case dtype.UInt8:
		return castNumeric(c, valid, func(i int) uint8 { return uint8(num(i)) })
	case dtype.UInt16:
		return castNumeric(c, valid, func(i int) uint16 { return uint16(num(i)) })
	case dtype.UInt32:
		return castNumeric(c, valid, func(i int) uint32 { return uint32(num(i)) })
	case dtype.UInt64:
		return castNumeric(c, valid, func(i int) uint64 { return uint64(num(i)) })
	case dtype.Float32:
		return castNumeric(c, valid, func(i int) float32 { return float32(num(i)) })
	case dtype.Float64:
		return castNumeric(c, valid, func(i int) float64 { return num(i) })
	case dtype.Boolean:
		return castNumeric(c, valid, func(i int) bool { return num(i) != 0 })
	default:
		return nil, errors.NewUnsupportedDTypeError("Cast", target.String())
	}
}

func castNumeric[T any](c *Column, valid []bool, conv func(int) T) (*Column, error) {
	vals := make([]T, c.Len())
	for i := range vals {
		if valid[i] {
			vals[i] = conv(i)
		}
	}
	return FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
}

func (c *Column) formatValue(i int) string {
	switch a := c.arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Boolean:
		return strconv.FormatBool(a.Value(i))
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	case *array.Timestamp:
		return time.Unix(0, int64(a.Value(i))).UTC().Format(time.RFC3339Nano)
	case *array.Uint8, *array.Uint16, *array.Uint32, *array.Uint64:
		return strconv.FormatUint(uintAt(c.arr, i), 10)
	default:
		return strconv.FormatInt(intAt(c.arr, i), 10)
	}
}

// ToArray materializes the column as a flat Go slice of the plain numeric
// equivalent. Float columns map null slots to NaN; any other dtype with
// nulls fails, since its plain Go form has no missing marker.
func (c *Column) ToArray() (any, error) {
	n := c.Len()

	switch a := c.arr.(type) {
	case *array.Float32:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				out[i] = float32(math.NaN())
				continue
			}
			out[i] = a.Value(i)
		}
		return out, nil
	case *array.Float64:
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				out[i] = math.NaN()
				continue
			}
			out[i] = a.Value(i)
		}
		return out, nil
	}

	if c.NullCount() > 0 {
		return nil, errors.NewValidationError("ToArray", c.name,
			"column contains nulls and its plain dtype has no missing marker")
	}

	switch a := c.arr.(type) {
	case *array.Int8:
		return collect(n, a.Value), nil
	case *array.Int16:
		return collect(n, a.Value), nil
	case *array.Int32:
		return collect(n, a.Value), nil
	case *array.Int64:
		return collect(n, a.Value), nil
	case *array.Uint8:
		return collect(n, a.Value), nil
	case *array.Uint16:
		return collect(n, a.Value), nil
	case *array.Uint32:
		return collect(n, a.Value), nil
	case *array.Uint64:
		return collect(n, a.Value), nil
	case *array.Boolean:
		return collect(n, a.Value), nil
	case *array.String:
		return collect(n, a.Value), nil
	case *array.Timestamp:
		out := make([]time.Time, n)
		for i := 0; i < n; i++ {
			out[i] = time.Unix(0, int64(a.Value(i))).UTC()
		}
		return out, nil
	default:
		return nil, errors.NewUnsupportedDTypeError("ToArray", c.arr.DataType().Name())
	}
}

func collect[T any](n int, value func(int) T) []T {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = value(i)
	}
	return out
}
