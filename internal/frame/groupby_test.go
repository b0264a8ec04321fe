package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesFrame(t *testing.T) *DataFrame {
	t.Helper()
	df, err := New(
		col(t, "region", []string{"east", "west", "east", "west", "east"}),
		col(t, "units", []int64{10, 20, 30, 40, 50}),
		col(t, "price", []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
	)
	require.NoError(t, err)
	t.Cleanup(df.Release)
	return df
}

func TestGroupBySum(t *testing.T) {
	df := salesFrame(t)

	out, err := df.GroupBy("region").Agg(Sum("units"))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []string{"region", "units_sum"}, out.Columns())
	assert.Equal(t, []any{"east", "west"}, columnValues(t, out, "region"))
	assert.Equal(t, []any{90.0, 60.0}, columnValues(t, out, "units_sum"))
}

func TestGroupByMultipleAggregations(t *testing.T) {
	df := salesFrame(t)

	out, err := df.GroupBy("region").Agg(Mean("price"), Min("units"), Max("units"), Count("units"))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []any{3.0, 3.0}, columnValues(t, out, "price_mean"))
	assert.Equal(t, []any{10.0, 20.0}, columnValues(t, out, "units_min"))
	assert.Equal(t, []any{50.0, 40.0}, columnValues(t, out, "units_max"))
	assert.Equal(t, []any{int64(3), int64(2)}, columnValues(t, out, "units_count"))
}

func TestGroupByMultipleKeys(t *testing.T) {
	df, err := New(
		col(t, "a", []string{"x", "x", "y", "x"}),
		col(t, "b", []int64{1, 2, 1, 1}),
		col(t, "v", []float64{10, 20, 30, 40}),
	)
	require.NoError(t, err)
	defer df.Release()

	out, err := df.GroupBy("a", "b").Agg(Sum("v"))
	require.NoError(t, err)
	defer out.Release()

	// Groups in first-occurrence order: (x,1), (x,2), (y,1).
	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []any{"x", "x", "y"}, columnValues(t, out, "a"))
	assert.Equal(t, []any{int64(1), int64(2), int64(1)}, columnValues(t, out, "b"))
	assert.Equal(t, []any{50.0, 20.0, 30.0}, columnValues(t, out, "v_sum"))
}

func TestGroupByNullKeysBucketTogether(t *testing.T) {
	df, err := New(
		colNulls(t, "k", []string{"x", "", "x", ""}, []bool{true, false, true, false}),
		col(t, "v", []int64{1, 2, 3, 4}),
	)
	require.NoError(t, err)
	defer df.Release()

	out, err := df.GroupBy("k").Agg(Sum("v"))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []any{"x", nil}, columnValues(t, out, "k"))
	assert.Equal(t, []any{4.0, 6.0}, columnValues(t, out, "v_sum"))
}

func TestGroupByCountSkipsNulls(t *testing.T) {
	df, err := New(
		col(t, "k", []string{"x", "x", "x"}),
		colNulls(t, "v", []int64{1, 0, 3}, []bool{true, false, true}),
	)
	require.NoError(t, err)
	defer df.Release()

	out, err := df.GroupBy("k").Agg(Count("v"), Sum("v"))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []any{int64(2)}, columnValues(t, out, "v_count"))
	assert.Equal(t, []any{4.0}, columnValues(t, out, "v_sum"))
}

func TestGroupByValidation(t *testing.T) {
	df := salesFrame(t)

	t.Run("no keys", func(t *testing.T) {
		_, err := df.GroupBy().Agg(Sum("units"))
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := df.GroupBy("missing").Agg(Sum("units"))
		assert.Error(t, err)
	})

	t.Run("unknown aggregation column", func(t *testing.T) {
		_, err := df.GroupBy("region").Agg(Sum("missing"))
		assert.Error(t, err)
	})
}
