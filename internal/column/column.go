// Package column implements the standard-compliant column adapter over a
// single Arrow array.
//
// A Column wraps exactly one backend-native array plus a required name and
// an api-version tag. The wrapped array is never mutated in place: every
// transformation builds a new array and returns a new adapter around it,
// so callers get copy-on-write semantics at the API boundary even when
// Arrow shares buffers underneath.
package column

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/errors"
	"github.com/stdframe/stdframe/internal/version"
)

// Kind classifies a column's missingness representation, resolved once at
// construction instead of re-tested per call.
type Kind int

const (
	// KindPlain marks a column without null slots.
	KindPlain Kind = iota
	// KindNullable marks a column whose array carries a validity bitmap
	// with at least one null slot. Null and floating NaN are distinct
	// states for such a column.
	KindNullable
)

// Column adapts one Arrow array to the dataframe API standard surface.
type Column struct {
	name       string
	arr        arrow.Array
	kind       Kind
	apiVersion string
	mem        memory.Allocator
}

// New wraps an existing Arrow array. The array is retained; callers keep
// their own reference. The name is required and the api-version tag must be
// a supported standard revision (empty selects the default).
func New(name string, arr arrow.Array, apiVersion string, mem memory.Allocator) (*Column, error) {
	if name == "" {
		return nil, errors.NewValidationError("New", name, "column name must not be empty")
	}
	if arr == nil {
		return nil, errors.NewValidationError("New", name, "column array must not be nil")
	}
	if _, err := dtype.FromArrow(arr.DataType()); err != nil {
		return nil, err
	}

	tag, err := version.Validate(apiVersion)
	if err != nil {
		return nil, errors.NewValidationError("New", name, err.Error())
	}

	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	kind := KindPlain
	if arr.NullN() > 0 {
		kind = KindNullable
	}

	arr.Retain()
	return &Column{
		name:       name,
		arr:        arr,
		kind:       kind,
		apiVersion: tag,
		mem:        mem,
	}, nil
}

// FromSlice builds a column from a plain Go slice. Unsupported element
// types panic, mirroring the backend builder contract: handing an unknown
// slice type to the generic constructor is a programming error.
func FromSlice[T any](name string, values []T, apiVersion string, mem memory.Allocator) (*Column, error) {
	return fromSliceWithValidity(name, values, nil, apiVersion, mem)
}

// FromSliceWithNulls builds a column with an explicit validity mask:
// valid[i] == false marks slot i as null. The mask length must match.
func FromSliceWithNulls[T any](
	name string, values []T, valid []bool, apiVersion string, mem memory.Allocator,
) (*Column, error) {
	if valid != nil && len(valid) != len(values) {
		return nil, errors.NewValidationError("FromSliceWithNulls", name,
			fmt.Sprintf("validity mask length %d does not match values length %d", len(valid), len(values)))
	}
	return fromSliceWithValidity(name, values, valid, apiVersion, mem)
}

func fromSliceWithValidity[T any](
	name string, values []T, valid []bool, apiVersion string, mem memory.Allocator,
) (*Column, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array
	switch v := any(values).(type) {
	case []int8:
		arr = buildPrimitive(array.NewInt8Builder(mem), v, valid)
	case []int16:
		arr = buildPrimitive(array.NewInt16Builder(mem), v, valid)
	case []int32:
		arr = buildPrimitive(array.NewInt32Builder(mem), v, valid)
	case []int64:
		arr = buildPrimitive(array.NewInt64Builder(mem), v, valid)
	case []uint8:
		arr = buildPrimitive(array.NewUint8Builder(mem), v, valid)
	case []uint16:
		arr = buildPrimitive(array.NewUint16Builder(mem), v, valid)
	case []uint32:
		arr = buildPrimitive(array.NewUint32Builder(mem), v, valid)
	case []uint64:
		arr = buildPrimitive(array.NewUint64Builder(mem), v, valid)
	case []float32:
		arr = buildPrimitive(array.NewFloat32Builder(mem), v, valid)
	case []float64:
		arr = buildPrimitive(array.NewFloat64Builder(mem), v, valid)
	case []bool:
		arr = buildPrimitive(array.NewBooleanBuilder(mem), v, valid)
	case []string:
		arr = buildPrimitive(array.NewStringBuilder(mem), v, valid)
	case []time.Time:
		ts := make([]arrow.Timestamp, len(v))
		for i, t := range v {
			ts[i] = arrow.Timestamp(t.UTC().UnixNano())
		}
		arr = buildPrimitive(array.NewTimestampBuilder(mem, timestampType()), ts, valid)
	default:
		panic(fmt.Sprintf("unsupported slice type: %T", values))
	}
	defer arr.Release()

	return New(name, arr, apiVersion, mem)
}

// buildPrimitive appends values into a typed Arrow builder, honoring the
// optional validity mask, and returns the finished array.
func buildPrimitive[T any, B interface {
	Append(T)
	AppendNull()
	NewArray() arrow.Array
	Release()
}](b B, values []T, valid []bool) arrow.Array {
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	return b.NewArray()
}

func timestampType() *arrow.TimestampType {
	return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
}

// fromArray wraps a derived array, inheriting name and api version. The
// array reference is consumed: the new column takes ownership.
func (c *Column) fromArray(name string, arr arrow.Array) *Column {
	kind := KindPlain
	if arr.NullN() > 0 {
		kind = KindNullable
	}
	return &Column{
		name:       name,
		arr:        arr,
		kind:       kind,
		apiVersion: c.apiVersion,
		mem:        c.mem,
	}
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.name
}

// APIVersion returns the standard revision tag this adapter implements.
func (c *Column) APIVersion() string {
	return c.apiVersion
}

// Kind returns the column's missingness kind.
func (c *Column) Kind() Kind {
	return c.kind
}

// Len returns the number of slots.
func (c *Column) Len() int {
	return c.arr.Len()
}

// NullCount returns the number of null slots.
func (c *Column) NullCount() int {
	return c.arr.NullN()
}

// DType returns the standard dtype, computed on demand from the wrapped
// array's native type.
func (c *Column) DType() dtype.DType {
	d, err := dtype.FromArrow(c.arr.DataType())
	if err != nil {
		// Construction already validated the native type.
		panic(err)
	}
	return d
}

// Array returns the wrapped Arrow array, retaining a reference for the caller.
func (c *Column) Array() arrow.Array {
	c.arr.Retain()
	return c.arr
}

// Release releases the wrapped Arrow memory.
func (c *Column) Release() {
	if c.arr != nil {
		c.arr.Release()
	}
}

// String returns a short description of the column.
func (c *Column) String() string {
	return fmt.Sprintf("Column[%s]: %s (len=%d, api=%s)", c.DType(), c.name, c.Len(), c.apiVersion)
}

// Alias returns a copy of the column under a new name.
func (c *Column) Alias(name string) (*Column, error) {
	if name == "" {
		return nil, errors.NewValidationError("Alias", c.name, "column name must not be empty")
	}
	c.arr.Retain()
	out := c.fromArray(name, c.arr)
	return out, nil
}

// GetValue returns the value at the given row as a Go value, or nil for a
// null slot. Datetime values come back as time.Time in UTC.
func (c *Column) GetValue(row int) (any, error) {
	if row < 0 || row >= c.Len() {
		return nil, errors.ErrInvalidIndex
	}
	if c.arr.IsNull(row) {
		return nil, nil
	}
	switch a := c.arr.(type) {
	case *array.Int8:
		return a.Value(row), nil
	case *array.Int16:
		return a.Value(row), nil
	case *array.Int32:
		return a.Value(row), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Uint8:
		return a.Value(row), nil
	case *array.Uint16:
		return a.Value(row), nil
	case *array.Uint32:
		return a.Value(row), nil
	case *array.Uint64:
		return a.Value(row), nil
	case *array.Float32:
		return a.Value(row), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.Boolean:
		return a.Value(row), nil
	case *array.String:
		return a.Value(row), nil
	case *array.Timestamp:
		return time.Unix(0, int64(a.Value(row))).UTC(), nil
	default:
		return nil, errors.NewUnsupportedDTypeError("GetValue", c.arr.DataType().Name())
	}
}
