// Package testutil provides shared test helpers: allocator setup, canonical
// test columns and frames, and frame assertions.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/frame"
)

const defaultRowCount = 4

// SetupAllocator returns the allocator used across tests.
func SetupAllocator(tb testing.TB) memory.Allocator {
	tb.Helper()
	return memory.NewGoAllocator()
}

// Option configures canonical test frame creation.
type Option func(*cfg)

type cfg struct {
	includeNulls bool
	rowCount     int
}

// WithNulls punches a null into every column of the canonical frame.
func WithNulls() Option {
	return func(c *cfg) { c.includeNulls = true }
}

// WithRowCount sets the canonical frame's row count.
func WithRowCount(count int) Option {
	return func(c *cfg) { c.rowCount = count }
}

// Column builds a test column, failing the test on error.
func Column[T any](tb testing.TB, name string, values []T) *column.Column {
	tb.Helper()
	c, err := column.FromSlice(name, values, "", memory.NewGoAllocator())
	require.NoError(tb, err)
	tb.Cleanup(c.Release)
	return c
}

// ColumnWithNulls builds a test column with a validity mask.
func ColumnWithNulls[T any](tb testing.TB, name string, values []T, valid []bool) *column.Column {
	tb.Helper()
	c, err := column.FromSliceWithNulls(name, values, valid, "", memory.NewGoAllocator())
	require.NoError(tb, err)
	tb.Cleanup(c.Release)
	return c
}

// Frame builds the canonical test frame: id Int64, score Float64, label
// String. WithNulls nulls out the second row of every column.
func Frame(tb testing.TB, opts ...Option) *frame.DataFrame {
	tb.Helper()
	c := cfg{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(&c)
	}

	ids := make([]int64, c.rowCount)
	scores := make([]float64, c.rowCount)
	labels := make([]string, c.rowCount)
	for i := 0; i < c.rowCount; i++ {
		ids[i] = int64(i + 1)
		scores[i] = float64(i) + 0.5
		labels[i] = string(rune('a' + i%26))
	}

	var cols []*column.Column
	if c.includeNulls && c.rowCount > 1 {
		valid := make([]bool, c.rowCount)
		for i := range valid {
			valid[i] = i != 1
		}
		cols = []*column.Column{
			ColumnWithNulls(tb, "id", ids, valid),
			ColumnWithNulls(tb, "score", scores, valid),
			ColumnWithNulls(tb, "label", labels, valid),
		}
	} else {
		cols = []*column.Column{
			Column(tb, "id", ids),
			Column(tb, "score", scores),
			Column(tb, "label", labels),
		}
	}

	df, err := frame.New(cols...)
	require.NoError(tb, err)
	tb.Cleanup(df.Release)
	return df
}

// Values materializes a column as a []any with nil for null slots.
func Values(tb testing.TB, c *column.Column) []any {
	tb.Helper()
	out := make([]any, c.Len())
	for i := range out {
		v, err := c.GetValue(i)
		require.NoError(tb, err)
		out[i] = v
	}
	return out
}

// AssertFrameEqual asserts two frames hold the same columns with the same
// values in the same order.
func AssertFrameEqual(t *testing.T, expected, actual *frame.DataFrame) {
	t.Helper()
	require.Equal(t, expected.Columns(), actual.Columns())
	require.Equal(t, expected.Len(), actual.Len())
	for _, name := range expected.Columns() {
		want, _ := expected.Column(name)
		got, _ := actual.Column(name)
		assert.Equal(t, Values(t, want), Values(t, got), "column %s differs", name)
	}
}

// AssertFrameHasColumns asserts the frame holds exactly the given columns.
func AssertFrameHasColumns(t *testing.T, df *frame.DataFrame, names []string) {
	t.Helper()
	assert.Equal(t, names, df.Columns())
}
