package column

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdframe/stdframe/internal/dtype"
)

func TestCompareScalar(t *testing.T) {
	c := mustCol(t, "a", []int64{1, 2, 3})

	gt, err := c.Gt(int64(1))
	require.NoError(t, err)
	defer gt.Release()
	assert.Equal(t, []any{false, true, true}, values(t, gt))

	le, err := c.Le(int64(2))
	require.NoError(t, err)
	defer le.Release()
	assert.Equal(t, []any{true, true, false}, values(t, le))
}

func TestCompareColumn(t *testing.T) {
	a := mustCol(t, "a", []int64{1, 5, 3})
	b := mustCol(t, "b", []int64{2, 5, 1})

	eq, err := a.Eq(b)
	require.NoError(t, err)
	defer eq.Release()
	assert.Equal(t, []any{false, true, false}, values(t, eq))
	assert.Equal(t, "a", eq.Name())
}

func TestCompareNullPropagation(t *testing.T) {
	a := mustColNulls(t, "a", []int64{1, 0, 3}, []bool{true, false, true})

	lt, err := a.Lt(int64(3))
	require.NoError(t, err)
	defer lt.Release()
	assert.Equal(t, []any{true, nil, false}, values(t, lt))
}

func TestCompareLengthMismatch(t *testing.T) {
	a := mustCol(t, "a", []int64{1, 2, 3})
	b := mustCol(t, "b", []int64{1, 2})

	_, err := a.Eq(b)
	assert.Error(t, err)
}

func TestCompareMixedNumericWidths(t *testing.T) {
	a := mustCol(t, "a", []int32{1, 2, 3})
	b := mustCol(t, "b", []float64{1.5, 2.0, 2.5})

	ge, err := a.Ge(b)
	require.NoError(t, err)
	defer ge.Release()
	assert.Equal(t, []any{false, true, true}, values(t, ge))
}

func TestCompareStrings(t *testing.T) {
	a := mustCol(t, "a", []string{"apple", "pear", "fig"})

	gt, err := a.Gt("fig")
	require.NoError(t, err)
	defer gt.Release()
	assert.Equal(t, []any{false, true, false}, values(t, gt))
}

func TestCompareDatetime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := mustCol(t, "a", []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)})

	gt, err := a.Gt(base.Add(30 * time.Minute))
	require.NoError(t, err)
	defer gt.Release()
	assert.Equal(t, []any{false, true, true}, values(t, gt))
}

func TestCompareInt64StaysExact(t *testing.T) {
	// 2^53 and 2^53+1 collapse to the same float64; the comparison must
	// still tell them apart.
	a := mustCol(t, "a", []int64{1 << 53, 1<<53 + 1})
	b := mustCol(t, "b", []int64{1<<53 + 1, 1<<53 + 1})

	eq, err := a.Eq(b)
	require.NoError(t, err)
	defer eq.Release()
	assert.Equal(t, []any{false, true}, values(t, eq))

	lt, err := a.Lt(b)
	require.NoError(t, err)
	defer lt.Release()
	assert.Equal(t, []any{true, false}, values(t, lt))
}

func TestCompareUint64StaysExact(t *testing.T) {
	a := mustCol(t, "a", []uint64{math.MaxUint64, math.MaxUint64 - 1})

	eq, err := a.Eq(uint64(math.MaxUint64))
	require.NoError(t, err)
	defer eq.Release()
	assert.Equal(t, []any{true, false}, values(t, eq))
}

func TestCompareMixedSignedness(t *testing.T) {
	a := mustCol(t, "a", []int64{-1, 0, 1})
	b := mustCol(t, "b", []uint64{math.MaxUint64, 0, 1})

	lt, err := a.Lt(b)
	require.NoError(t, err)
	defer lt.Release()
	assert.Equal(t, []any{true, false, false}, values(t, lt))

	rev, err := a.Binary(OpLt, b, true)
	require.NoError(t, err)
	defer rev.Release()
	assert.Equal(t, []any{false, false, false}, values(t, rev))
}

func TestCompareUintAgainstNegativeScalar(t *testing.T) {
	a := mustCol(t, "a", []uint32{0, 5})

	gt, err := a.Gt(-1)
	require.NoError(t, err)
	defer gt.Release()
	assert.Equal(t, []any{true, true}, values(t, gt))
}

func TestBoolCombine(t *testing.T) {
	a := mustCol(t, "a", []bool{true, true, false})
	b := mustColNulls(t, "b", []bool{true, false, true}, []bool{true, true, false})

	and, err := a.And(b)
	require.NoError(t, err)
	defer and.Release()
	assert.Equal(t, []any{true, false, nil}, values(t, and))

	or, err := a.Or(true)
	require.NoError(t, err)
	defer or.Release()
	assert.Equal(t, []any{true, true, true}, values(t, or))
}

func TestBoolOrderingUnsupported(t *testing.T) {
	a := mustCol(t, "a", []bool{true, false})
	_, err := a.Gt(false)
	assert.Error(t, err)
}

func TestNot(t *testing.T) {
	a := mustColNulls(t, "a", []bool{true, false, true}, []bool{true, true, false})

	not, err := a.Not()
	require.NoError(t, err)
	defer not.Release()
	assert.Equal(t, []any{false, true, nil}, values(t, not))
}

func TestArithIntStaysExact(t *testing.T) {
	a := mustCol(t, "a", []int64{10, 20, 30})

	sum, err := a.Add(int64(5))
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, dtype.Int64, sum.DType())
	assert.Equal(t, []any{int64(15), int64(25), int64(35)}, values(t, sum))
}

func TestArithDivAlwaysFloat(t *testing.T) {
	a := mustCol(t, "a", []int64{7, 8})

	q, err := a.Div(int64(2))
	require.NoError(t, err)
	defer q.Release()
	assert.Equal(t, dtype.Float64, q.DType())
	assert.Equal(t, []any{3.5, 4.0}, values(t, q))
}

func TestArithFloorDivMatchesFloorSemantics(t *testing.T) {
	a := mustCol(t, "a", []int64{7, -7, 7, -7})
	b := mustCol(t, "b", []int64{2, 2, -2, -2})

	q, err := a.FloorDiv(b)
	require.NoError(t, err)
	defer q.Release()
	assert.Equal(t, []any{int64(3), int64(-4), int64(-4), int64(3)}, values(t, q))
}

func TestArithModTakesDivisorSign(t *testing.T) {
	a := mustCol(t, "a", []int64{7, -7, 7, -7})
	b := mustCol(t, "b", []int64{3, 3, -3, -3})

	m, err := a.Mod(b)
	require.NoError(t, err)
	defer m.Release()
	assert.Equal(t, []any{int64(1), int64(2), int64(-2), int64(-1)}, values(t, m))
}

func TestArithIntZeroDivisorYieldsNull(t *testing.T) {
	a := mustCol(t, "a", []int64{6, 6})
	b := mustCol(t, "b", []int64{3, 0})

	q, err := a.FloorDiv(b)
	require.NoError(t, err)
	defer q.Release()
	assert.Equal(t, []any{int64(2), nil}, values(t, q))

	m, err := a.Mod(b)
	require.NoError(t, err)
	defer m.Release()
	assert.Equal(t, []any{int64(0), nil}, values(t, m))
}

func TestArithIntPowNegativeExponentFails(t *testing.T) {
	a := mustCol(t, "a", []int64{2})
	_, err := a.Pow(int64(-1))
	assert.Error(t, err)
}

func TestArithPow(t *testing.T) {
	a := mustCol(t, "a", []int64{2, 3, 4})

	p, err := a.Pow(int64(3))
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, []any{int64(8), int64(27), int64(64)}, values(t, p))

	pf, err := a.Pow(0.5)
	require.NoError(t, err)
	defer pf.Release()
	assert.Equal(t, dtype.Float64, pf.DType())
	assert.InDelta(t, 2.0, values(t, pf)[2].(float64), 1e-12)
}

func TestArithMixedLaneWidensToFloat(t *testing.T) {
	a := mustCol(t, "a", []int64{1, 2})
	b := mustCol(t, "b", []float64{0.5, 0.5})

	sum, err := a.Add(b)
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, dtype.Float64, sum.DType())
	assert.Equal(t, []any{1.5, 2.5}, values(t, sum))
}

func TestArithMixedSignednessStaysExact(t *testing.T) {
	a := mustCol(t, "a", []int64{1<<53 + 1, 10})
	b := mustCol(t, "b", []uint32{1, 3})

	sum, err := a.Add(b)
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, dtype.Int64, sum.DType())
	assert.Equal(t, []any{int64(1<<53 + 2), int64(13)}, values(t, sum))
}

func TestArithUintNegativeScalarStaysExact(t *testing.T) {
	a := mustCol(t, "a", []uint32{5, 10})

	sum, err := a.Add(-2)
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, dtype.Int64, sum.DType())
	assert.Equal(t, []any{int64(3), int64(8)}, values(t, sum))
}

func TestArithUint64NegativeScalarWidens(t *testing.T) {
	a := mustCol(t, "a", []uint64{5, 10})

	sum, err := a.Add(-2)
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, dtype.Float64, sum.DType())
	assert.Equal(t, []any{3.0, 8.0}, values(t, sum))
}

func TestArithNullPropagation(t *testing.T) {
	a := mustColNulls(t, "a", []int64{1, 0, 3}, []bool{true, false, true})

	sum, err := a.Add(int64(1))
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, []any{int64(2), nil, int64(4)}, values(t, sum))
}

func TestReversedSubtraction(t *testing.T) {
	a := mustCol(t, "a", []int64{1, 2, 3})

	r, err := a.Binary(OpSub, int64(10), true)
	require.NoError(t, err)
	defer r.Release()
	assert.Equal(t, []any{int64(9), int64(8), int64(7)}, values(t, r))
}

func TestReversedDivisionFamilyNotImplemented(t *testing.T) {
	a := mustCol(t, "a", []int64{1, 2})

	for _, op := range []BinaryOp{OpDiv, OpFloorDiv, OpPow, OpMod} {
		t.Run(op.String(), func(t *testing.T) {
			_, err := a.Binary(op, int64(2), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not implemented")
		})
	}
}

func TestNilComparandRejected(t *testing.T) {
	a := mustCol(t, "a", []int64{1})
	_, err := a.Eq(nil)
	assert.Error(t, err)
}
