// Package frame implements the standard-compliant dataframe adapter over a
// set of named Arrow-backed columns.
//
// A DataFrame is an insertion-ordered collection of equal-length columns
// with unique names. Like the column adapter it never mutates in place:
// every operation returns a new frame, sharing column references where the
// operation leaves them untouched.
package frame

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/errors"
)

// DataFrame is an ordered set of named columns sharing one row count.
type DataFrame struct {
	columns    map[string]*column.Column
	order      []string
	apiVersion string
	mem        memory.Allocator
}

// New builds a frame from columns. Names must be unique and lengths equal;
// every column must carry the same api-version tag.
func New(cols ...*column.Column) (*DataFrame, error) {
	df := &DataFrame{
		columns: make(map[string]*column.Column, len(cols)),
		order:   make([]string, 0, len(cols)),
		mem:     memory.NewGoAllocator(),
	}

	for _, c := range cols {
		if c == nil {
			return nil, errors.NewValidationError("New", "", "column must not be nil")
		}
		if _, exists := df.columns[c.Name()]; exists {
			return nil, errors.NewValidationError("New", c.Name(), "duplicate column name")
		}
		if len(df.order) == 0 {
			df.apiVersion = c.APIVersion()
		} else {
			if c.Len() != df.Len() {
				return nil, errors.ErrLengthMismatch
			}
			if c.APIVersion() != df.apiVersion {
				return nil, errors.NewValidationError("New", c.Name(), "mixed api versions in one frame")
			}
		}
		retained, err := c.Alias(c.Name())
		if err != nil {
			return nil, err
		}
		df.columns[c.Name()] = retained
		df.order = append(df.order, c.Name())
	}
	return df, nil
}

// fromColumns assembles a frame from already-owned columns, inheriting the
// receiver's api version and allocator. Ownership of cols transfers.
func (df *DataFrame) fromColumns(cols []*column.Column) *DataFrame {
	out := &DataFrame{
		columns:    make(map[string]*column.Column, len(cols)),
		order:      make([]string, 0, len(cols)),
		apiVersion: df.apiVersion,
		mem:        df.mem,
	}
	for _, c := range cols {
		out.columns[c.Name()] = c
		out.order = append(out.order, c.Name())
	}
	return out
}

// Columns returns the column names in insertion order.
func (df *DataFrame) Columns() []string {
	return append([]string(nil), df.order...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.order)
}

// APIVersion returns the standard revision tag shared by all columns.
func (df *DataFrame) APIVersion() string {
	return df.apiVersion
}

// Column returns the named column.
func (df *DataFrame) Column(name string) (*column.Column, bool) {
	c, ok := df.columns[name]
	return c, ok
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Select returns a frame holding only the named columns, in the given
// order. Unknown names fail.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	cols := make([]*column.Column, 0, len(names))
	for _, name := range names {
		c, ok := df.columns[name]
		if !ok {
			releaseAll(cols)
			return nil, errors.NewColumnNotFoundError("Select", name)
		}
		kept, err := c.Alias(name)
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		cols = append(cols, kept)
	}
	return df.fromColumns(cols), nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (df *DataFrame) Drop(names ...string) (*DataFrame, error) {
	dropSet := make(map[string]bool, len(names))
	for _, name := range names {
		dropSet[name] = true
	}

	keep := make([]string, 0, len(df.order))
	for _, name := range df.order {
		if !dropSet[name] {
			keep = append(keep, name)
		}
	}
	return df.Select(keep...)
}

// WithColumn returns a frame with the column appended, or replaced in place
// when the name already exists. The column's length must match.
func (df *DataFrame) WithColumn(c *column.Column) (*DataFrame, error) {
	if df.Width() > 0 && c.Len() != df.Len() {
		return nil, errors.ErrLengthMismatch
	}

	cols := make([]*column.Column, 0, len(df.order)+1)
	replaced := false
	for _, name := range df.order {
		if name == c.Name() {
			added, err := c.Alias(name)
			if err != nil {
				releaseAll(cols)
				return nil, err
			}
			cols = append(cols, added)
			replaced = true
			continue
		}
		kept, err := df.columns[name].Alias(name)
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		cols = append(cols, kept)
	}
	if !replaced {
		added, err := c.Alias(c.Name())
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		cols = append(cols, added)
	}
	return df.fromColumns(cols), nil
}

// Filter returns the rows where the boolean mask is true, applied to every
// column. Null mask slots drop the row.
func (df *DataFrame) Filter(mask *column.Column) (*DataFrame, error) {
	return df.mapColumns(func(c *column.Column) (*column.Column, error) {
		return c.Filter(mask)
	})
}

// Take returns the rows selected by an integer index column.
func (df *DataFrame) Take(indices *column.Column) (*DataFrame, error) {
	return df.mapColumns(func(c *column.Column) (*column.Column, error) {
		return c.Take(indices)
	})
}

// Slice returns rows start (inclusive) through end (exclusive).
func (df *DataFrame) Slice(start, end int) (*DataFrame, error) {
	return df.mapColumns(func(c *column.Column) (*column.Column, error) {
		return c.SliceRows(start, end, 1)
	})
}

// Sort orders all rows by the named column. Descending order reverses the
// ascending permutation, matching the column contract.
func (df *DataFrame) Sort(name string, ascending bool) (*DataFrame, error) {
	key, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Sort", name)
	}

	indices, err := key.SortedIndices(column.SortOptions{Ascending: ascending})
	if err != nil {
		return nil, err
	}
	defer indices.Release()

	return df.Take(indices)
}

// Concat stacks frames vertically. Schemas must match exactly: same column
// names in the same order with the same dtypes.
func (df *DataFrame) Concat(others ...*DataFrame) (*DataFrame, error) {
	for _, other := range others {
		if !df.sameSchema(other) {
			return nil, errors.NewValidationError("Concat", "", "frames have different schemas")
		}
	}

	cols := make([]*column.Column, 0, df.Width())
	for _, name := range df.order {
		chunks := make([]arrow.Array, 0, len(others)+1)
		chunks = append(chunks, df.columns[name].Array())
		for _, other := range others {
			chunks = append(chunks, other.columns[name].Array())
		}

		merged, cerr := array.Concatenate(chunks, df.mem)
		for _, a := range chunks {
			a.Release()
		}
		if cerr != nil {
			releaseAll(cols)
			return nil, errors.NewInternalError("Concat", cerr)
		}
		c, nerr := column.New(name, merged, df.apiVersion, df.mem)
		merged.Release()
		if nerr != nil {
			releaseAll(cols)
			return nil, nerr
		}
		cols = append(cols, c)
	}
	return df.fromColumns(cols), nil
}

func (df *DataFrame) sameSchema(other *DataFrame) bool {
	if other == nil || df.Width() != other.Width() {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name {
			return false
		}
		if df.columns[name].DType() != other.columns[name].DType() {
			return false
		}
	}
	return true
}

// Record converts the frame to an Arrow record batch. The caller owns the
// returned record.
func (df *DataFrame) Record() (arrow.Record, error) {
	fields := make([]arrow.Field, 0, df.Width())
	arrs := make([]arrow.Array, 0, df.Width())
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()

	for _, name := range df.order {
		c := df.columns[name]
		at, err := dtype.ToArrow(c.DType())
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     at,
			Nullable: c.Kind() == column.KindNullable,
		})
		arrs = append(arrs, c.Array())
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrs, int64(df.Len())), nil
}

// FromRecord wraps an Arrow record batch as a frame. Unsupported field
// types fail; the record itself is left untouched.
func FromRecord(rec arrow.Record, apiVersion string, mem memory.Allocator) (*DataFrame, error) {
	cols := make([]*column.Column, 0, int(rec.NumCols()))
	defer func() { releaseAll(cols) }()

	for i := 0; i < int(rec.NumCols()); i++ {
		c, err := column.New(rec.ColumnName(i), rec.Column(i), apiVersion, mem)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// mapColumns applies fn to every column, preserving order.
func (df *DataFrame) mapColumns(fn func(*column.Column) (*column.Column, error)) (*DataFrame, error) {
	cols := make([]*column.Column, 0, df.Width())
	for _, name := range df.order {
		c, err := fn(df.columns[name])
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		cols = append(cols, c)
	}
	return df.fromColumns(cols), nil
}

// Release releases every column in the frame.
func (df *DataFrame) Release() {
	for _, name := range df.order {
		df.columns[name].Release()
	}
}

// String returns a short schema description.
func (df *DataFrame) String() string {
	if df.Width() == 0 {
		return "DataFrame[empty]"
	}
	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DType()))
	}
	return strings.Join(parts, "\n")
}

func releaseAll(cols []*column.Column) {
	for _, c := range cols {
		c.Release()
	}
}
