package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/frame"
)

func readCSVString(t *testing.T, data string, options CSVOptions) *frame.DataFrame {
	t.Helper()
	df, err := NewCSVReader(strings.NewReader(data), options, memory.NewGoAllocator()).Read()
	require.NoError(t, err)
	t.Cleanup(df.Release)
	return df
}

func colValues(t *testing.T, df *frame.DataFrame, name string) []any {
	t.Helper()
	c, ok := df.Column(name)
	require.True(t, ok, "column %s missing", name)
	out := make([]any, c.Len())
	for i := range out {
		v, err := c.GetValue(i)
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestCSVTypeInference(t *testing.T) {
	df := readCSVString(t, "a,b,c,d\n1,1.5,true,x\n2,2.5,false,y\n", DefaultCSVOptions())

	assert.Equal(t, []string{"a", "b", "c", "d"}, df.Columns())

	a, _ := df.Column("a")
	assert.Equal(t, dtype.Int64, a.DType())
	b, _ := df.Column("b")
	assert.Equal(t, dtype.Float64, b.DType())
	c, _ := df.Column("c")
	assert.Equal(t, dtype.Boolean, c.DType())
	d, _ := df.Column("d")
	assert.Equal(t, dtype.String, d.DType())
}

func TestCSVNilNullValuesFallBackToGlobalConfig(t *testing.T) {
	// CSVOptions{} leaves NullValues nil; the reader must pick up the
	// global config's markers ("", "null", "NA" by default).
	opts := CSVOptions{Delimiter: ',', Header: true}

	df := readCSVString(t, "a,b\n1,x\nNA,y\n", opts)

	a, _ := df.Column("a")
	assert.Equal(t, dtype.Int64, a.DType())
	assert.Equal(t, []any{int64(1), nil}, colValues(t, df, "a"))

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf, opts).Write(df))
	assert.Equal(t, "a,b\n1,x\n,y\n", buf.String())
}

func TestCSVNullMarkers(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.NullValues = []string{"", "NA"}

	df := readCSVString(t, "a,b\n1,x\nNA,y\n3,\n", opts)

	assert.Equal(t, []any{int64(1), nil, int64(3)}, colValues(t, df, "a"))
	assert.Equal(t, []any{"x", "y", nil}, colValues(t, df, "b"))

	a, _ := df.Column("a")
	assert.Equal(t, column.KindNullable, a.Kind())
	assert.Equal(t, dtype.Int64, a.DType(), "null markers must not force a string column")
}

func TestCSVHeaderless(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.Header = false

	df := readCSVString(t, "1,x\n2,y\n", opts)
	assert.Equal(t, []string{"column_0", "column_1"}, df.Columns())
	assert.Equal(t, 2, df.Len())
}

func TestCSVCustomDelimiter(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.Delimiter = ';'

	df := readCSVString(t, "a;b\n1;2\n", opts)
	assert.Equal(t, []any{int64(1)}, colValues(t, df, "a"))
}

func TestCSVEmptyInput(t *testing.T) {
	df := readCSVString(t, "", DefaultCSVOptions())
	assert.Equal(t, 0, df.Width())
}

func TestCSVWriteRead(t *testing.T) {
	mem := memory.NewGoAllocator()
	a, err := column.FromSliceWithNulls("a", []int64{1, 0, 3}, []bool{true, false, true}, "", mem)
	require.NoError(t, err)
	defer a.Release()
	b, err := column.FromSlice("b", []string{"x", "y", "z"}, "", mem)
	require.NoError(t, err)
	defer b.Release()

	df, err := frame.New(a, b)
	require.NoError(t, err)
	defer df.Release()

	opts := DefaultCSVOptions()
	opts.NullValues = []string{"NA"}

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf, opts).Write(df))
	assert.Equal(t, "a,b\n1,x\nNA,y\n3,z\n", buf.String())

	back, err := NewCSVReader(&buf, opts, mem).Read()
	require.NoError(t, err)
	defer back.Release()
	assert.Equal(t, colValues(t, df, "a"), colValues(t, back, "a"))
	assert.Equal(t, colValues(t, df, "b"), colValues(t, back, "b"))
}

func TestScanCSVCollectRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("a,b,z\n1,4.5,x\n2,6.7,y\n3,8.9,w\n"), 0o600))

	df, err := ScanCSV(path, DefaultCSVOptions(), memory.NewGoAllocator()).Collect()
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, colValues(t, df, "a"))
	assert.Equal(t, []any{4.5, 6.7, 8.9}, colValues(t, df, "b"))
	assert.Equal(t, []any{"x", "y", "w"}, colValues(t, df, "z"))

	a, _ := df.Column("a")
	assert.Equal(t, dtype.Int64, a.DType())
	b, _ := df.Column("b")
	assert.Equal(t, dtype.Float64, b.DType())
	z, _ := df.Column("z")
	assert.Equal(t, dtype.String, z.DType())
}

func TestScanCSVIsDeferred(t *testing.T) {
	// Scanning a missing file must not fail until Collect.
	lf := ScanCSV(filepath.Join(t.TempDir(), "missing.csv"), DefaultCSVOptions(), nil)
	_, err := lf.Collect()
	assert.Error(t, err)
}

func TestScanCSVWithPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("a,b\n1,10\n2,20\n3,30\n"), 0o600))

	df, err := ScanCSV(path, DefaultCSVOptions(), nil).
		Filter(func(f *frame.DataFrame) (*column.Column, error) {
			a, _ := f.Column("a")
			return a.Ge(int64(2))
		}).
		Select("b").
		Collect()
	require.NoError(t, err)
	defer df.Release()

	assert.Equal(t, []string{"b"}, df.Columns())
	assert.Equal(t, []any{int64(20), int64(30)}, colValues(t, df, "b"))
}
