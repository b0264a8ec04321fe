package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/frame"
)

func readJSONString(t *testing.T, data string, options JSONOptions) *frame.DataFrame {
	t.Helper()
	df, err := NewJSONReader(strings.NewReader(data), options, memory.NewGoAllocator()).Read()
	require.NoError(t, err)
	t.Cleanup(df.Release)
	return df
}

func TestJSONLinesRead(t *testing.T) {
	df := readJSONString(t,
		`{"id": 1, "score": 1.5, "name": "a"}
{"id": 2, "score": 2.5, "name": "b"}
`, DefaultJSONOptions())

	assert.Equal(t, 2, df.Len())

	id, ok := df.Column("id")
	require.True(t, ok)
	assert.Equal(t, dtype.Int64, id.DType(), "integral JSON numbers read back as Int64")

	score, ok := df.Column("score")
	require.True(t, ok)
	assert.Equal(t, dtype.Float64, score.DType())

	name, ok := df.Column("name")
	require.True(t, ok)
	assert.Equal(t, dtype.String, name.DType())
}

func TestJSONMissingKeysBecomeNull(t *testing.T) {
	df := readJSONString(t,
		`{"a": 1, "b": "x"}
{"a": 2}
{"a": 3, "b": null}
`, DefaultJSONOptions())

	assert.Equal(t, []any{"x", nil, nil}, colValues(t, df, "b"))
}

func TestJSONMixedTypesRejected(t *testing.T) {
	_, err := NewJSONReader(strings.NewReader(
		`{"a": 1}
{"a": "x"}
`), DefaultJSONOptions(), memory.NewGoAllocator()).Read()
	assert.Error(t, err)
}

func TestJSONMaxRecords(t *testing.T) {
	opts := DefaultJSONOptions()
	opts.MaxRecords = 2

	df := readJSONString(t,
		`{"a": 1}
{"a": 2}
{"a": 3}
`, opts)
	assert.Equal(t, 2, df.Len())
}

func TestJSONEmptyInput(t *testing.T) {
	df := readJSONString(t, "", DefaultJSONOptions())
	assert.Equal(t, 0, df.Width())
}

func TestJSONWriteRead(t *testing.T) {
	mem := memory.NewGoAllocator()
	a, err := column.FromSliceWithNulls("a", []int64{1, 0, 3}, []bool{true, false, true}, "", mem)
	require.NoError(t, err)
	defer a.Release()
	b, err := column.FromSlice("b", []bool{true, false, true}, "", mem)
	require.NoError(t, err)
	defer b.Release()

	df, err := frame.New(a, b)
	require.NoError(t, err)
	defer df.Release()

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, DefaultJSONOptions()).Write(df))

	back, err := NewJSONReader(&buf, DefaultJSONOptions(), mem).Read()
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, 3, back.Len())
	assert.Equal(t, colValues(t, df, "a"), colValues(t, back, "a"))
	assert.Equal(t, colValues(t, df, "b"), colValues(t, back, "b"))
}
