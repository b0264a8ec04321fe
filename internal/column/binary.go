package column

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"

	"github.com/stdframe/stdframe/internal/errors"
)

// BinaryOp identifies a standard binary operation. Operator-overload names
// from the standard map onto these tags; dispatch happens once, keyed on
// the tag plus an explicit reversed flag, instead of through duplicated
// reflected-method pairs.
type BinaryOp int

const (
	OpEq BinaryOp = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpPow
	OpMod
)

// String returns the operation name used in error contexts.
func (op BinaryOp) String() string {
	switch op {
	case OpEq:
		return "Eq"
	case OpNe:
		return "Ne"
	case OpGt:
		return "Gt"
	case OpGe:
		return "Ge"
	case OpLt:
		return "Lt"
	case OpLe:
		return "Le"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpFloorDiv:
		return "FloorDiv"
	case OpPow:
		return "Pow"
	case OpMod:
		return "Mod"
	default:
		return "Unknown"
	}
}

func (op BinaryOp) isComparison() bool {
	return op >= OpEq && op <= OpLe
}

// reversible reports whether the operand order may be swapped. The division
// family rejects swapped operands: reverse-division semantics are ambiguous
// for heterogeneous scalar/column mixes and the standard refuses to guess.
func (op BinaryOp) reversible() bool {
	switch op {
	case OpDiv, OpFloorDiv, OpPow, OpMod:
		return false
	default:
		return true
	}
}

// Binary executes a standard binary operation against a column or scalar
// right-hand operand. The result keeps the left column's name. reversed
// swaps the operand order.
func (c *Column) Binary(op BinaryOp, other any, reversed bool) (*Column, error) {
	if reversed && !op.reversible() {
		return nil, errors.NewNotImplementedError("Reversed"+op.String(), c.name)
	}

	rhs, err := validateComparand(op.String(), c, other)
	if err != nil {
		return nil, err
	}

	switch {
	case op.isComparison():
		return c.compare(op, rhs, reversed)
	case op == OpAnd || op == OpOr:
		return c.boolCombine(op, rhs)
	default:
		return c.arith(op, rhs, reversed)
	}
}

// Comparison wrappers.

func (c *Column) Eq(other any) (*Column, error) { return c.Binary(OpEq, other, false) }
func (c *Column) Ne(other any) (*Column, error) { return c.Binary(OpNe, other, false) }
func (c *Column) Gt(other any) (*Column, error) { return c.Binary(OpGt, other, false) }
func (c *Column) Ge(other any) (*Column, error) { return c.Binary(OpGe, other, false) }
func (c *Column) Lt(other any) (*Column, error) { return c.Binary(OpLt, other, false) }
func (c *Column) Le(other any) (*Column, error) { return c.Binary(OpLe, other, false) }

// Boolean and arithmetic wrappers.

func (c *Column) And(other any) (*Column, error) { return c.Binary(OpAnd, other, false) }
func (c *Column) Or(other any) (*Column, error)  { return c.Binary(OpOr, other, false) }
func (c *Column) Add(other any) (*Column, error) { return c.Binary(OpAdd, other, false) }
func (c *Column) Sub(other any) (*Column, error) { return c.Binary(OpSub, other, false) }
func (c *Column) Mul(other any) (*Column, error) { return c.Binary(OpMul, other, false) }
func (c *Column) Div(other any) (*Column, error) { return c.Binary(OpDiv, other, false) }

func (c *Column) FloorDiv(other any) (*Column, error) { return c.Binary(OpFloorDiv, other, false) }
func (c *Column) Pow(other any) (*Column, error)      { return c.Binary(OpPow, other, false) }
func (c *Column) Mod(other any) (*Column, error)      { return c.Binary(OpMod, other, false) }

// Not inverts a boolean column, keeping null slots null.
func (c *Column) Not() (*Column, error) {
	if laneOf(c.arr.DataType()) != laneBool {
		return nil, errors.NewUnsupportedDTypeError("Not", c.arr.DataType().Name())
	}

	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(!boolAt(c.arr, i))
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// cmpOrdered evaluates a comparison over any ordered Go type; float NaN
// semantics fall out of the native operators.
func cmpOrdered[T constraints.Ordered](op BinaryOp, a, b T) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	case OpLt:
		return a < b
	default:
		return a <= b
	}
}

// cmpResult maps a three-way ordering onto a comparison operation.
func cmpResult(op BinaryOp, ord int) bool {
	switch op {
	case OpEq:
		return ord == 0
	case OpNe:
		return ord != 0
	case OpGt:
		return ord > 0
	case OpGe:
		return ord >= 0
	case OpLt:
		return ord < 0
	default:
		return ord <= 0
	}
}

// intCompareFunc builds a three-way comparator of the left column against
// the operand when both sides are integral, keeping 64-bit values exact.
// Mixed signedness goes through a sign-aware compare. Returns nil when the
// operand is fractional and the comparison must widen to float64.
func intCompareFunc(left *Column, rhs comparand, ll lane) func(int) int {
	la := left.arr
	if rhs.isScalar() {
		switch ll {
		case laneInt:
			if v, ok := scalarInt(rhs.scalar); ok {
				return func(i int) int { return cmpInt64(intAt(la, i), v) }
			}
			if v, ok := rhs.scalar.(uint64); ok {
				return func(i int) int { return cmpIntUint(intAt(la, i), v) }
			}
		case laneUint:
			if v, ok := scalarUint(rhs.scalar); ok {
				return func(i int) int { return cmpUint64(uintAt(la, i), v) }
			}
			if v, ok := scalarInt(rhs.scalar); ok {
				return func(i int) int { return -cmpIntUint(v, uintAt(la, i)) }
			}
		}
		return nil
	}

	ra := rhs.arr
	rl := laneOf(ra.DataType())
	switch {
	case ll == laneInt && rl == laneInt:
		return func(i int) int { return cmpInt64(intAt(la, i), intAt(ra, i)) }
	case ll == laneUint && rl == laneUint:
		return func(i int) int { return cmpUint64(uintAt(la, i), uintAt(ra, i)) }
	case ll == laneInt && rl == laneUint:
		return func(i int) int { return cmpIntUint(intAt(la, i), uintAt(ra, i)) }
	case ll == laneUint && rl == laneInt:
		return func(i int) int { return -cmpIntUint(intAt(ra, i), uintAt(la, i)) }
	default:
		return nil
	}
}

func (c *Column) compare(op BinaryOp, rhs comparand, reversed bool) (*Column, error) {
	ll := laneOf(c.arr.DataType())

	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()

	eval, err := c.compareRowFunc(op, rhs, ll, reversed)
	if err != nil {
		return nil, err
	}

	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) || (!rhs.isScalar() && rhs.arr.IsNull(i)) {
			b.AppendNull()
			continue
		}
		b.Append(eval(i))
	}

	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// compareRowFunc builds the per-row evaluator for the left column's lane.
func (c *Column) compareRowFunc(op BinaryOp, rhs comparand, ll lane, reversed bool) (func(int) bool, error) {
	switch ll {
	case laneString:
		get, err := rhsStringFunc(op, c, rhs)
		if err != nil {
			return nil, err
		}
		return func(i int) bool {
			a, b := stringAt(c.arr, i), get(i)
			if reversed {
				a, b = b, a
			}
			return cmpOrdered(op, a, b)
		}, nil

	case laneBool:
		if op != OpEq && op != OpNe {
			return nil, errors.NewUnsupportedDTypeError(op.String(), c.arr.DataType().Name())
		}
		get, err := rhsBoolFunc(op, c, rhs)
		if err != nil {
			return nil, err
		}
		return func(i int) bool {
			eq := boolAt(c.arr, i) == get(i)
			if op == OpEq {
				return eq
			}
			return !eq
		}, nil

	case laneTime:
		get, err := rhsTimeFunc(op, c, rhs)
		if err != nil {
			return nil, err
		}
		return func(i int) bool {
			a, b := intAt(c.arr, i), get(i)
			if reversed {
				a, b = b, a
			}
			return cmpOrdered(op, a, b)
		}, nil

	case laneInt, laneUint:
		// Integer operands compare exactly; widening to float64 would make
		// distinct values above 2^53 indistinguishable.
		if ord := intCompareFunc(c, rhs, ll); ord != nil {
			return func(i int) bool {
				o := ord(i)
				if reversed {
					o = -o
				}
				return cmpResult(op, o)
			}, nil
		}
		fallthrough

	case laneFloat:
		get, err := rhsFloatFunc(op, c, rhs)
		if err != nil {
			return nil, err
		}
		return func(i int) bool {
			a, b := floatAt(c.arr, i), get(i)
			if reversed {
				a, b = b, a
			}
			return cmpOrdered(op, a, b)
		}, nil

	default:
		return nil, errors.NewUnsupportedDTypeError(op.String(), c.arr.DataType().Name())
	}
}

func (c *Column) boolCombine(op BinaryOp, rhs comparand) (*Column, error) {
	if laneOf(c.arr.DataType()) != laneBool {
		return nil, errors.NewUnsupportedDTypeError(op.String(), c.arr.DataType().Name())
	}
	get, err := rhsBoolFunc(op, c, rhs)
	if err != nil {
		return nil, err
	}

	b := array.NewBooleanBuilder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) || (!rhs.isScalar() && rhs.arr.IsNull(i)) {
			b.AppendNull()
			continue
		}
		l, r := boolAt(c.arr, i), get(i)
		if op == OpAnd {
			b.Append(l && r)
		} else {
			b.Append(l || r)
		}
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

func (c *Column) arith(op BinaryOp, rhs comparand, reversed bool) (*Column, error) {
	ll := laneOf(c.arr.DataType())
	if ll != laneInt && ll != laneUint && ll != laneFloat {
		return nil, errors.NewUnsupportedDTypeError(op.String(), c.arr.DataType().Name())
	}

	switch c.arithLane(op, rhs, ll) {
	case laneInt:
		return c.arithInt(op, rhs, reversed)
	case laneUint:
		return c.arithUint(op, rhs, reversed)
	default:
		return c.arithFloat(op, rhs, reversed)
	}
}

// arithLane decides the compute family: integer operands stay exact
// whenever both sides are representable as int64 or as uint64; anything
// fractional, or mixed signedness involving full-width uint64, widens to
// float64. True division is always float.
func (c *Column) arithLane(op BinaryOp, rhs comparand, ll lane) lane {
	if op == OpDiv {
		return laneFloat
	}

	if rhs.isScalar() {
		switch ll {
		case laneInt:
			if _, ok := scalarInt(rhs.scalar); ok {
				return laneInt
			}
		case laneUint:
			if _, ok := scalarUint(rhs.scalar); ok {
				return laneUint
			}
			// Negative signed scalars stay exact through the signed lane
			// when the column's values all fit int64.
			if _, ok := scalarInt(rhs.scalar); ok && fitsInt64(c.arr.DataType()) {
				return laneInt
			}
		}
		return laneFloat
	}

	rl := laneOf(rhs.arr.DataType())
	switch {
	case ll == laneInt && rl == laneInt:
		return laneInt
	case ll == laneUint && rl == laneUint:
		return laneUint
	case (rl == laneInt || rl == laneUint) &&
		fitsInt64(c.arr.DataType()) && fitsInt64(rhs.arr.DataType()):
		return laneInt
	default:
		return laneFloat
	}
}

func (c *Column) arithInt(op BinaryOp, rhs comparand, reversed bool) (*Column, error) {
	get, err := rhsIntFunc(op, c, rhs)
	if err != nil {
		return nil, err
	}

	b := array.NewInt64Builder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) || (!rhs.isScalar() && rhs.arr.IsNull(i)) {
			b.AppendNull()
			continue
		}
		a, r := intValueAt(c.arr, i), get(i)
		if reversed {
			a, r = r, a
		}
		v, ok, opErr := evalInt(op, a, r)
		if opErr != nil {
			return nil, errors.NewValidationError(op.String(), c.name, opErr.Error())
		}
		if !ok {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

func (c *Column) arithUint(op BinaryOp, rhs comparand, reversed bool) (*Column, error) {
	get, err := rhsUintFunc(op, c, rhs)
	if err != nil {
		return nil, err
	}

	b := array.NewUint64Builder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) || (!rhs.isScalar() && rhs.arr.IsNull(i)) {
			b.AppendNull()
			continue
		}
		a, r := uintAt(c.arr, i), get(i)
		if reversed {
			a, r = r, a
		}
		v, ok := evalUint(op, a, r)
		if !ok {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

func (c *Column) arithFloat(op BinaryOp, rhs comparand, reversed bool) (*Column, error) {
	get, err := rhsFloatFunc(op, c, rhs)
	if err != nil {
		return nil, err
	}

	b := array.NewFloat64Builder(c.mem)
	defer b.Release()
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) || (!rhs.isScalar() && rhs.arr.IsNull(i)) {
			b.AppendNull()
			continue
		}
		a, r := floatAt(c.arr, i), get(i)
		if reversed {
			a, r = r, a
		}
		b.Append(evalFloat(op, a, r))
	}
	arr := b.NewArray()
	return c.fromArray(c.name, arr), nil
}

// evalInt applies an exact integer operation. A zero divisor yields a null
// slot (ok=false) rather than a fault; a negative exponent is a contract
// error surfaced to the caller.
func evalInt(op BinaryOp, a, b int64) (int64, bool, error) {
	switch op {
	case OpAdd:
		return a + b, true, nil
	case OpSub:
		return a - b, true, nil
	case OpMul:
		return a * b, true, nil
	case OpFloorDiv:
		if b == 0 {
			return 0, false, nil
		}
		return floorDiv(a, b), true, nil
	case OpMod:
		if b == 0 {
			return 0, false, nil
		}
		return pythonMod(a, b), true, nil
	case OpPow:
		if b < 0 {
			return 0, false, errors.NewInvalidInputError("Pow", "integers to negative integer powers are not allowed")
		}
		return ipow(a, b), true, nil
	default:
		return 0, false, errors.NewInvalidInputError(op.String(), "not an integer arithmetic operation")
	}
}

func evalUint(op BinaryOp, a, b uint64) (uint64, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpFloorDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case OpMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case OpPow:
		return uint64(ipow(int64(a), int64(b))), true
	default:
		return 0, false
	}
}

func evalFloat(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpFloorDiv:
		return math.Floor(a / b)
	case OpMod:
		return pythonModFloat(a, b)
	default:
		return math.Pow(a, b)
	}
}

// Right-hand accessor builders. Each validates the operand's lane against
// the operation once, then returns a cheap per-row getter.

func rhsFloatFunc(op BinaryOp, left *Column, rhs comparand) (func(int) float64, error) {
	if rhs.isScalar() {
		v, ok := scalarFloat(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not numeric")
		}
		return func(int) float64 { return v }, nil
	}
	switch laneOf(rhs.arr.DataType()) {
	case laneInt, laneUint, laneFloat:
		arr := rhs.arr
		return func(i int) float64 { return floatAt(arr, i) }, nil
	default:
		return nil, errors.NewUnsupportedDTypeError(op.String(), rhs.arr.DataType().Name())
	}
}

func rhsIntFunc(op BinaryOp, left *Column, rhs comparand) (func(int) int64, error) {
	if rhs.isScalar() {
		v, ok := scalarInt(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not an integer")
		}
		return func(int) int64 { return v }, nil
	}
	arr := rhs.arr
	switch laneOf(arr.DataType()) {
	case laneInt:
		return func(i int) int64 { return intAt(arr, i) }, nil
	case laneUint:
		if fitsInt64(arr.DataType()) {
			return func(i int) int64 { return int64(uintAt(arr, i)) }, nil
		}
	}
	return nil, errors.NewUnsupportedDTypeError(op.String(), arr.DataType().Name())
}

func rhsUintFunc(op BinaryOp, left *Column, rhs comparand) (func(int) uint64, error) {
	if rhs.isScalar() {
		v, ok := scalarUint(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not an unsigned integer")
		}
		return func(int) uint64 { return v }, nil
	}
	if laneOf(rhs.arr.DataType()) != laneUint {
		return nil, errors.NewUnsupportedDTypeError(op.String(), rhs.arr.DataType().Name())
	}
	arr := rhs.arr
	return func(i int) uint64 { return uintAt(arr, i) }, nil
}

func rhsBoolFunc(op BinaryOp, left *Column, rhs comparand) (func(int) bool, error) {
	if rhs.isScalar() {
		v, ok := scalarBool(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not boolean")
		}
		return func(int) bool { return v }, nil
	}
	if laneOf(rhs.arr.DataType()) != laneBool {
		return nil, errors.NewUnsupportedDTypeError(op.String(), rhs.arr.DataType().Name())
	}
	arr := rhs.arr
	return func(i int) bool { return boolAt(arr, i) }, nil
}

func rhsStringFunc(op BinaryOp, left *Column, rhs comparand) (func(int) string, error) {
	if rhs.isScalar() {
		v, ok := scalarString(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not a string")
		}
		return func(int) string { return v }, nil
	}
	if laneOf(rhs.arr.DataType()) != laneString {
		return nil, errors.NewUnsupportedDTypeError(op.String(), rhs.arr.DataType().Name())
	}
	arr := rhs.arr
	return func(i int) string { return stringAt(arr, i) }, nil
}

func rhsTimeFunc(op BinaryOp, left *Column, rhs comparand) (func(int) int64, error) {
	if rhs.isScalar() {
		v, ok := scalarTime(rhs.scalar)
		if !ok {
			return nil, errors.NewValidationError(op.String(), left.name, "comparand is not a timestamp")
		}
		return func(int) int64 { return v }, nil
	}
	if laneOf(rhs.arr.DataType()) != laneTime {
		return nil, errors.NewUnsupportedDTypeError(op.String(), rhs.arr.DataType().Name())
	}
	arr := rhs.arr
	return func(i int) int64 { return intAt(arr, i) }, nil
}
