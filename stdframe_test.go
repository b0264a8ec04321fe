package stdframe

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCol[T any](t *testing.T, name string, values []T) *Column {
	t.Helper()
	c, err := NewColumn(name, values)
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

func colValues(t *testing.T, c *Column) []any {
	t.Helper()
	out := make([]any, c.Len())
	for i := range out {
		v, err := c.GetValue(i)
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestColumnEndToEnd(t *testing.T) {
	c := newCol(t, "x", []int64{3, 1, 2})

	assert.Equal(t, "x", c.Name())
	assert.Equal(t, Int64, c.DType())
	assert.Equal(t, KindPlain, c.Kind())
	assert.Equal(t, APIVersion2023_11, c.APIVersion())

	sorted, err := c.Sort(DefaultSortOptions())
	require.NoError(t, err)
	defer sorted.Release()
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, colValues(t, sorted))

	doubled, err := c.Mul(int64(2))
	require.NoError(t, err)
	defer doubled.Release()
	assert.Equal(t, []any{int64(6), int64(2), int64(4)}, colValues(t, doubled))

	total, err := c.Sum(DefaultReduceOptions())
	require.NoError(t, err)
	assert.Equal(t, 6.0, total)
}

func TestColumnComparandUnwrapping(t *testing.T) {
	a := newCol(t, "a", []int64{1, 2, 3})
	b := newCol(t, "b", []int64{3, 2, 1})

	eq, err := a.Eq(b)
	require.NoError(t, err)
	defer eq.Release()
	assert.Equal(t, []any{false, true, false}, colValues(t, eq))
}

func TestColumnNullsAndNaN(t *testing.T) {
	c, err := NewColumnWithNulls("v", []float64{1.0, math.NaN(), 0}, []bool{true, true, false})
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, KindNullable, c.Kind())
	assert.Equal(t, 1, c.NullCount())

	isNull, err := c.IsNull()
	require.NoError(t, err)
	defer isNull.Release()
	assert.Equal(t, []any{false, false, true}, colValues(t, isNull))

	isNan, err := c.IsNan()
	require.NoError(t, err)
	defer isNan.Release()
	assert.Equal(t, []any{false, true, false}, colValues(t, isNan))
}

func TestColumnTemporal(t *testing.T) {
	c := newCol(t, "ts", []time.Time{
		time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})

	dt, err := c.Dt()
	require.NoError(t, err)

	year, err := dt.Year()
	require.NoError(t, err)
	defer year.Release()
	assert.Equal(t, []any{int64(2024)}, colValues(t, year))

	unix, err := dt.UnixTimestamp("s")
	require.NoError(t, err)
	defer unix.Release()
	v, err := unix.GetValue(0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC).Unix(), v.(int64))
}

func TestDataFrameEndToEnd(t *testing.T) {
	df, err := NewDataFrame(
		newCol(t, "region", []string{"east", "west", "east"}),
		newCol(t, "units", []int64{10, 20, 30}),
	)
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, []string{"region", "units"}, df.Columns())
	assert.Equal(t, 3, df.Len())

	units, ok := df.Column("units")
	require.True(t, ok)
	defer units.Release()

	mask, err := units.Gt(int64(10))
	require.NoError(t, err)
	defer mask.Release()

	filtered, err := df.Filter(mask)
	require.NoError(t, err)
	defer filtered.Release()
	assert.Equal(t, 2, filtered.Len())

	grouped, err := df.GroupBy("region").Agg(GroupSum("units"), GroupCount("units"))
	require.NoError(t, err)
	defer grouped.Release()

	sums, ok := grouped.Column("units_sum")
	require.True(t, ok)
	defer sums.Release()
	assert.Equal(t, []any{40.0, 20.0}, colValues(t, sums))
}

func TestRecordRoundTrip(t *testing.T) {
	df, err := NewDataFrame(newCol(t, "a", []int64{1, 2}))
	require.NoError(t, err)
	defer df.Release()

	rec, err := df.Record()
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromRecord(rec, "")
	require.NoError(t, err)
	defer back.Release()
	assert.Equal(t, df.Columns(), back.Columns())
}

func TestScanCSVPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("a,b,z\n1,4.5,x\n2,6.7,y\n3,8.9,w\n"), 0o600))

	df, err := ScanCSV(path, DefaultCSVOptions()).
		Filter(func(f *DataFrame) (*Column, error) {
			a, _ := f.Column("a")
			defer a.Release()
			return a.Lt(int64(3))
		}).
		Select("a", "z").
		Collect()
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, []string{"a", "z"}, df.Columns())
	assert.Equal(t, 2, df.Len())
}

func TestCSVWriteReadRoundTrip(t *testing.T) {
	df, err := NewDataFrame(
		newCol(t, "a", []int64{1, 2, 3}),
		newCol(t, "b", []float64{4.5, 6.7, 8.9}),
		newCol(t, "z", []string{"x", "y", "w"}),
	)
	require.NoError(t, err)
	defer df.Release()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(df, path, DefaultCSVOptions()))

	back, err := ReadCSV(path, DefaultCSVOptions())
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, df.Columns(), back.Columns())
	for _, name := range df.Columns() {
		want, _ := df.Column(name)
		defer want.Release()
		got, _ := back.Column(name)
		defer got.Release()
		assert.Equal(t, want.DType(), got.DType(), "dtype drift in %s", name)
		assert.Equal(t, colValues(t, want), colValues(t, got))
	}
}

func TestJSONWriteReadRoundTrip(t *testing.T) {
	df, err := NewDataFrame(
		newCol(t, "id", []int64{1, 2}),
		newCol(t, "ok", []bool{true, false}),
	)
	require.NoError(t, err)
	defer df.Release()

	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, WriteJSON(df, path, DefaultJSONOptions()))

	back, err := ReadJSON(path, DefaultJSONOptions())
	require.NoError(t, err)
	defer back.Release()
	assert.Equal(t, 2, back.Len())
}

func TestConfigRoundTrip(t *testing.T) {
	orig := GetConfig()
	defer SetConfig(orig)

	cfg := orig
	cfg.NullValues = []string{"<null>"}
	SetConfig(cfg)

	assert.Equal(t, []string{"<null>"}, GetConfig().NullValues)
	assert.Equal(t, []string{"<null>"}, DefaultCSVOptions().NullValues)
}

func TestReversedDivisionRejected(t *testing.T) {
	c := newCol(t, "x", []int64{4})
	_, err := c.Binary(OpDiv, int64(2), true)
	assert.Error(t, err)
}
