// Package dtype defines the standard dtype vocabulary and the bidirectional
// mapping between standard dtypes and Arrow-native data types.
//
// Both mapping directions are pure symbol-table lookups over a closed set:
// no numeric coercion happens here. An Arrow type outside the table fails
// with an unsupported-dtype error.
package dtype

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stdframe/stdframe/internal/errors"
)

// DType is a standard type tag in the dataframe API standard vocabulary.
type DType int

const (
	Int8 DType = iota
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Boolean
	String
	Datetime // nanosecond precision, UTC
)

// String returns the standard name of the dtype.
func (d DType) String() string {
	switch d {
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt16:
		return "UInt16"
	case UInt32:
		return "UInt32"
	case UInt64:
		return "UInt64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case Datetime:
		return "Datetime"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether the dtype supports arithmetic and reductions.
func (d DType) IsNumeric() bool {
	switch d {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the dtype is a signed or unsigned integer.
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the dtype is a floating-point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// timestampNs is the single Arrow representation used for Datetime columns.
var timestampNs = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

// ToArrow maps a standard dtype to its Arrow-native equivalent.
func ToArrow(d DType) (arrow.DataType, error) {
	switch d {
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case UInt8:
		return arrow.PrimitiveTypes.Uint8, nil
	case UInt16:
		return arrow.PrimitiveTypes.Uint16, nil
	case UInt32:
		return arrow.PrimitiveTypes.Uint32, nil
	case UInt64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Datetime:
		return timestampNs, nil
	default:
		return nil, errors.NewUnsupportedDTypeError("ToArrow", d.String())
	}
}

// FromArrow maps an Arrow-native data type to its standard dtype.
func FromArrow(dt arrow.DataType) (DType, error) {
	switch dt.ID() {
	case arrow.INT8:
		return Int8, nil
	case arrow.INT16:
		return Int16, nil
	case arrow.INT32:
		return Int32, nil
	case arrow.INT64:
		return Int64, nil
	case arrow.UINT8:
		return UInt8, nil
	case arrow.UINT16:
		return UInt16, nil
	case arrow.UINT32:
		return UInt32, nil
	case arrow.UINT64:
		return UInt64, nil
	case arrow.FLOAT32:
		return Float32, nil
	case arrow.FLOAT64:
		return Float64, nil
	case arrow.BOOL:
		return Boolean, nil
	case arrow.STRING:
		return String, nil
	case arrow.TIMESTAMP:
		return Datetime, nil
	default:
		return 0, errors.NewUnsupportedDTypeError("FromArrow", dt.Name())
	}
}

// All lists every supported standard dtype, in declaration order.
func All() []DType {
	return []DType{
		Int8, Int16, Int32, Int64,
		UInt8, UInt16, UInt32, UInt64,
		Float32, Float64, Boolean, String, Datetime,
	}
}
