// Package stdframe exposes a dataframe-API-standard-compliant surface over
// Apache Arrow. This package is the sole public API; it wraps the internal
// column and frame adapters and hides their implementation details.
package stdframe

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/config"
	"github.com/stdframe/stdframe/internal/dtype"
	"github.com/stdframe/stdframe/internal/frame"
	"github.com/stdframe/stdframe/internal/io"
	"github.com/stdframe/stdframe/internal/logging"
	"github.com/stdframe/stdframe/internal/version"
)

// DType identifies a standard column dtype.
type DType = dtype.DType

// Standard dtypes.
const (
	Int8     = dtype.Int8
	Int16    = dtype.Int16
	Int32    = dtype.Int32
	Int64    = dtype.Int64
	UInt8    = dtype.UInt8
	UInt16   = dtype.UInt16
	UInt32   = dtype.UInt32
	UInt64   = dtype.UInt64
	Float32  = dtype.Float32
	Float64  = dtype.Float64
	Boolean  = dtype.Boolean
	String   = dtype.String
	Datetime = dtype.Datetime
)

// Supported standard API revisions.
const (
	APIVersion2023_08 = version.APIVersion2023_08
	APIVersion2023_11 = version.APIVersion2023_11
)

// Option types, re-exported from the internal adapters.
type (
	Kind              = column.Kind
	BinaryOp          = column.BinaryOp
	SortOptions       = column.SortOptions
	ReduceOptions     = column.ReduceOptions
	CumulativeOptions = column.CumulativeOptions
	Aggregation       = frame.Aggregation
	CSVOptions        = io.CSVOptions
	JSONOptions       = io.JSONOptions
	Config            = config.Config
)

// Column kinds.
const (
	KindPlain    = column.KindPlain
	KindNullable = column.KindNullable
)

// Binary operation tags for the explicit dispatch path.
const (
	OpEq       = column.OpEq
	OpNe       = column.OpNe
	OpGt       = column.OpGt
	OpGe       = column.OpGe
	OpLt       = column.OpLt
	OpLe       = column.OpLe
	OpAnd      = column.OpAnd
	OpOr       = column.OpOr
	OpAdd      = column.OpAdd
	OpSub      = column.OpSub
	OpMul      = column.OpMul
	OpDiv      = column.OpDiv
	OpFloorDiv = column.OpFloorDiv
	OpPow      = column.OpPow
	OpMod      = column.OpMod
)

// DefaultSortOptions returns ascending order with nulls last.
func DefaultSortOptions() SortOptions { return column.DefaultSortOptions() }

// DefaultReduceOptions returns the standard's default reduction behavior.
func DefaultReduceOptions() ReduceOptions { return column.DefaultReduceOptions() }

// DefaultCumulativeOptions returns forward accumulation skipping nulls.
func DefaultCumulativeOptions() CumulativeOptions { return column.DefaultCumulativeOptions() }

// DefaultCSVOptions returns CSV options driven by the global config.
func DefaultCSVOptions() CSVOptions { return io.DefaultCSVOptions() }

// DefaultJSONOptions returns the default JSON-lines options.
func DefaultJSONOptions() JSONOptions { return io.DefaultJSONOptions() }

// Group aggregation constructors.

// GroupSum aggregates the sum of non-null values per group.
func GroupSum(col string) Aggregation { return frame.Sum(col) }

// GroupMean aggregates the arithmetic mean of non-null values per group.
func GroupMean(col string) Aggregation { return frame.Mean(col) }

// GroupMin aggregates the smallest non-null value per group.
func GroupMin(col string) Aggregation { return frame.Min(col) }

// GroupMax aggregates the largest non-null value per group.
func GroupMax(col string) Aggregation { return frame.Max(col) }

// GroupCount aggregates the number of non-null values per group.
func GroupCount(col string) Aggregation { return frame.Count(col) }

// Column is the public column adapter: one named, typed, immutable Arrow
// array plus the standard's operation surface.
type Column struct {
	col *column.Column
}

// NewColumn builds a column from a plain Go slice. Supported element types:
// all fixed-width integers, float32/64, bool, string, time.Time.
func NewColumn[T any](name string, values []T) (*Column, error) {
	c, err := column.FromSlice(name, values, "", memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &Column{col: c}, nil
}

// NewColumnWithNulls builds a column with an explicit validity mask:
// valid[i] == false marks slot i as null.
func NewColumnWithNulls[T any](name string, values []T, valid []bool) (*Column, error) {
	c, err := column.FromSliceWithNulls(name, values, valid, "", memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &Column{col: c}, nil
}

// WrapArray wraps an existing Arrow array as a column. The array is
// retained; the caller keeps its own reference.
func WrapArray(name string, arr arrow.Array, apiVersion string) (*Column, error) {
	c, err := column.New(name, arr, apiVersion, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &Column{col: c}, nil
}

func wrapCol(c *column.Column, err error) (*Column, error) {
	if err != nil {
		return nil, err
	}
	return &Column{col: c}, nil
}

// unwrapOperand lets public columns flow into comparand positions.
func unwrapOperand(other any) any {
	if c, ok := other.(*Column); ok {
		return c.col
	}
	return other
}

// Basic accessors.

func (c *Column) Name() string       { return c.col.Name() }
func (c *Column) Len() int           { return c.col.Len() }
func (c *Column) NullCount() int     { return c.col.NullCount() }
func (c *Column) DType() DType       { return c.col.DType() }
func (c *Column) Kind() Kind         { return c.col.Kind() }
func (c *Column) APIVersion() string { return c.col.APIVersion() }
func (c *Column) String() string     { return c.col.String() }
func (c *Column) Release()           { c.col.Release() }

// Array returns the wrapped Arrow array, retaining a reference for the caller.
func (c *Column) Array() arrow.Array { return c.col.Array() }

// GetValue returns the value at the given row, or nil for a null slot.
func (c *Column) GetValue(row int) (any, error) { return c.col.GetValue(row) }

// Alias returns a copy of the column under a new name.
func (c *Column) Alias(name string) (*Column, error) { return wrapCol(c.col.Alias(name)) }

// Binary executes a standard binary operation with an explicit reversed flag.
func (c *Column) Binary(op BinaryOp, other any, reversed bool) (*Column, error) {
	return wrapCol(c.col.Binary(op, unwrapOperand(other), reversed))
}

// Comparisons. The operand may be another *Column or a scalar.

func (c *Column) Eq(other any) (*Column, error) { return wrapCol(c.col.Eq(unwrapOperand(other))) }
func (c *Column) Ne(other any) (*Column, error) { return wrapCol(c.col.Ne(unwrapOperand(other))) }
func (c *Column) Gt(other any) (*Column, error) { return wrapCol(c.col.Gt(unwrapOperand(other))) }
func (c *Column) Ge(other any) (*Column, error) { return wrapCol(c.col.Ge(unwrapOperand(other))) }
func (c *Column) Lt(other any) (*Column, error) { return wrapCol(c.col.Lt(unwrapOperand(other))) }
func (c *Column) Le(other any) (*Column, error) { return wrapCol(c.col.Le(unwrapOperand(other))) }

// Boolean combinators and inversion.

func (c *Column) And(other any) (*Column, error) { return wrapCol(c.col.And(unwrapOperand(other))) }
func (c *Column) Or(other any) (*Column, error)  { return wrapCol(c.col.Or(unwrapOperand(other))) }
func (c *Column) Not() (*Column, error)          { return wrapCol(c.col.Not()) }

// Arithmetic.

func (c *Column) Add(other any) (*Column, error) { return wrapCol(c.col.Add(unwrapOperand(other))) }
func (c *Column) Sub(other any) (*Column, error) { return wrapCol(c.col.Sub(unwrapOperand(other))) }
func (c *Column) Mul(other any) (*Column, error) { return wrapCol(c.col.Mul(unwrapOperand(other))) }
func (c *Column) Div(other any) (*Column, error) { return wrapCol(c.col.Div(unwrapOperand(other))) }

func (c *Column) FloorDiv(other any) (*Column, error) {
	return wrapCol(c.col.FloorDiv(unwrapOperand(other)))
}

func (c *Column) Pow(other any) (*Column, error) { return wrapCol(c.col.Pow(unwrapOperand(other))) }
func (c *Column) Mod(other any) (*Column, error) { return wrapCol(c.col.Mod(unwrapOperand(other))) }

// Reductions.

func (c *Column) Sum(opts ReduceOptions) (float64, error)    { return c.col.Sum(opts) }
func (c *Column) Prod(opts ReduceOptions) (float64, error)   { return c.col.Prod(opts) }
func (c *Column) Mean(opts ReduceOptions) (float64, error)   { return c.col.Mean(opts) }
func (c *Column) Min(opts ReduceOptions) (float64, error)    { return c.col.Min(opts) }
func (c *Column) Max(opts ReduceOptions) (float64, error)    { return c.col.Max(opts) }
func (c *Column) Median(opts ReduceOptions) (float64, error) { return c.col.Median(opts) }
func (c *Column) Var(opts ReduceOptions) (float64, error)    { return c.col.Var(opts) }
func (c *Column) Std(opts ReduceOptions) (float64, error)    { return c.col.Std(opts) }
func (c *Column) Any(opts ReduceOptions) (bool, error)       { return c.col.Any(opts) }
func (c *Column) All(opts ReduceOptions) (bool, error)       { return c.col.All(opts) }
func (c *Column) NUnique(opts ReduceOptions) (int, error)    { return c.col.NUnique(opts) }

// Null and NaN handling.

func (c *Column) IsNull() (*Column, error) { return wrapCol(c.col.IsNull()) }
func (c *Column) IsNan() (*Column, error)  { return wrapCol(c.col.IsNan()) }

func (c *Column) FillNull(value any) (*Column, error) {
	return wrapCol(c.col.FillNull(unwrapOperand(value)))
}

func (c *Column) FillNan(value any) (*Column, error) {
	return wrapCol(c.col.FillNan(unwrapOperand(value)))
}

// Ordering and selection.

func (c *Column) Sort(opts SortOptions) (*Column, error) { return wrapCol(c.col.Sort(opts)) }

func (c *Column) SortedIndices(opts SortOptions) (*Column, error) {
	return wrapCol(c.col.SortedIndices(opts))
}

func (c *Column) UniqueIndices() (*Column, error) { return wrapCol(c.col.UniqueIndices()) }

func (c *Column) Take(indices *Column) (*Column, error) { return wrapCol(c.col.Take(indices.col)) }
func (c *Column) Filter(mask *Column) (*Column, error)  { return wrapCol(c.col.Filter(mask.col)) }

func (c *Column) SliceRows(start, stop, step int) (*Column, error) {
	return wrapCol(c.col.SliceRows(start, stop, step))
}

func (c *Column) Shift(offset int) (*Column, error)    { return wrapCol(c.col.Shift(offset)) }
func (c *Column) IsIn(values *Column) (*Column, error) { return wrapCol(c.col.IsIn(values.col)) }

// Cumulative folds.

func (c *Column) CumSum(opts CumulativeOptions) (*Column, error) { return wrapCol(c.col.CumSum(opts)) }

func (c *Column) CumProd(opts CumulativeOptions) (*Column, error) {
	return wrapCol(c.col.CumProd(opts))
}

func (c *Column) CumMax(opts CumulativeOptions) (*Column, error) { return wrapCol(c.col.CumMax(opts)) }
func (c *Column) CumMin(opts CumulativeOptions) (*Column, error) { return wrapCol(c.col.CumMin(opts)) }

// Conversion.

func (c *Column) Cast(target DType) (*Column, error) { return wrapCol(c.col.Cast(target)) }
func (c *Column) ToArray() (any, error)              { return c.col.ToArray() }

// Temporal is the datetime accessor namespace of a Datetime column.
type Temporal struct {
	t *column.Temporal
}

// Dt returns the temporal accessor namespace. Non-datetime columns fail.
func (c *Column) Dt() (*Temporal, error) {
	t, err := c.col.Dt()
	if err != nil {
		return nil, err
	}
	return &Temporal{t: t}, nil
}

func (t *Temporal) Year() (*Column, error)        { return wrapCol(t.t.Year()) }
func (t *Temporal) Month() (*Column, error)       { return wrapCol(t.t.Month()) }
func (t *Temporal) Day() (*Column, error)         { return wrapCol(t.t.Day()) }
func (t *Temporal) Hour() (*Column, error)        { return wrapCol(t.t.Hour()) }
func (t *Temporal) Minute() (*Column, error)      { return wrapCol(t.t.Minute()) }
func (t *Temporal) Second() (*Column, error)      { return wrapCol(t.t.Second()) }
func (t *Temporal) Microsecond() (*Column, error) { return wrapCol(t.t.Microsecond()) }
func (t *Temporal) Nanosecond() (*Column, error)  { return wrapCol(t.t.Nanosecond()) }
func (t *Temporal) IsoWeekday() (*Column, error)  { return wrapCol(t.t.IsoWeekday()) }

func (t *Temporal) Floor(frequency string) (*Column, error) { return wrapCol(t.t.Floor(frequency)) }

func (t *Temporal) UnixTimestamp(unit string) (*Column, error) {
	return wrapCol(t.t.UnixTimestamp(unit))
}

// DataFrame is the public frame adapter: an insertion-ordered set of named
// columns sharing one row count.
type DataFrame struct {
	df *frame.DataFrame
}

// NewDataFrame builds a frame from columns. Names must be unique and
// lengths equal.
func NewDataFrame(cols ...*Column) (*DataFrame, error) {
	internal := make([]*column.Column, len(cols))
	for i, c := range cols {
		if c != nil {
			internal[i] = c.col
		}
	}
	df, err := frame.New(internal...)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

// FromRecord wraps an Arrow record batch as a frame.
func FromRecord(rec arrow.Record, apiVersion string) (*DataFrame, error) {
	df, err := frame.FromRecord(rec, apiVersion, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

func wrapFrame(df *frame.DataFrame, err error) (*DataFrame, error) {
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

func (d *DataFrame) Columns() []string  { return d.df.Columns() }
func (d *DataFrame) Len() int           { return d.df.Len() }
func (d *DataFrame) Width() int         { return d.df.Width() }
func (d *DataFrame) APIVersion() string { return d.df.APIVersion() }
func (d *DataFrame) String() string     { return d.df.String() }
func (d *DataFrame) Release()           { d.df.Release() }

func (d *DataFrame) HasColumn(name string) bool { return d.df.HasColumn(name) }

// Column returns the named column, retained for the caller.
func (d *DataFrame) Column(name string) (*Column, bool) {
	c, ok := d.df.Column(name)
	if !ok {
		return nil, false
	}
	kept, err := c.Alias(name)
	if err != nil {
		return nil, false
	}
	return &Column{col: kept}, true
}

func (d *DataFrame) Select(names ...string) (*DataFrame, error) {
	return wrapFrame(d.df.Select(names...))
}

func (d *DataFrame) Drop(names ...string) (*DataFrame, error) {
	return wrapFrame(d.df.Drop(names...))
}

func (d *DataFrame) WithColumn(c *Column) (*DataFrame, error) {
	return wrapFrame(d.df.WithColumn(c.col))
}

func (d *DataFrame) Filter(mask *Column) (*DataFrame, error) {
	return wrapFrame(d.df.Filter(mask.col))
}

func (d *DataFrame) Take(indices *Column) (*DataFrame, error) {
	return wrapFrame(d.df.Take(indices.col))
}

func (d *DataFrame) Slice(start, end int) (*DataFrame, error) {
	return wrapFrame(d.df.Slice(start, end))
}

func (d *DataFrame) Sort(name string, ascending bool) (*DataFrame, error) {
	return wrapFrame(d.df.Sort(name, ascending))
}

func (d *DataFrame) Concat(others ...*DataFrame) (*DataFrame, error) {
	internal := make([]*frame.DataFrame, len(others))
	for i, o := range others {
		internal[i] = o.df
	}
	return wrapFrame(d.df.Concat(internal...))
}

// Record converts the frame to an Arrow record batch, owned by the caller.
func (d *DataFrame) Record() (arrow.Record, error) { return d.df.Record() }

// GroupBy is a pending grouping of a frame by key columns.
type GroupBy struct {
	gb *frame.GroupBy
}

// GroupBy groups the frame by the named key columns.
func (d *DataFrame) GroupBy(keys ...string) *GroupBy {
	return &GroupBy{gb: d.df.GroupBy(keys...)}
}

// Agg executes the grouping with the given aggregations.
func (g *GroupBy) Agg(aggs ...Aggregation) (*DataFrame, error) {
	return wrapFrame(g.gb.Agg(aggs...))
}

// LazyFrame defers a source read plus queued select and filter steps.
type LazyFrame struct {
	lf *frame.LazyFrame
}

// Lazy starts a deferred pipeline over the frame.
func (d *DataFrame) Lazy() *LazyFrame {
	return &LazyFrame{lf: d.df.Lazy()}
}

// ScanCSV defers a CSV file read: the file opens on Collect.
func ScanCSV(path string, opts CSVOptions) *LazyFrame {
	return &LazyFrame{lf: io.ScanCSV(path, opts, memory.NewGoAllocator())}
}

// Select queues a column projection.
func (lf *LazyFrame) Select(names ...string) *LazyFrame {
	return &LazyFrame{lf: lf.lf.Select(names...)}
}

// Filter queues a row filter built from a mask predicate.
func (lf *LazyFrame) Filter(predicate func(*DataFrame) (*Column, error)) *LazyFrame {
	inner := func(df *frame.DataFrame) (*column.Column, error) {
		mask, err := predicate(&DataFrame{df: df})
		if err != nil {
			return nil, err
		}
		return mask.col, nil
	}
	return &LazyFrame{lf: lf.lf.Filter(inner)}
}

// Collect runs the source and every queued step in order.
func (lf *LazyFrame) Collect() (*DataFrame, error) {
	df, err := lf.lf.Collect()
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

func (lf *LazyFrame) String() string { return lf.lf.String() }

// Eager I/O entry points.

// ReadCSV reads a CSV file into a frame.
func ReadCSV(path string, opts CSVOptions) (*DataFrame, error) {
	return wrapFrame(io.ReadCSVFile(path, opts, memory.NewGoAllocator()))
}

// WriteCSV writes a frame to a CSV file.
func WriteCSV(df *DataFrame, path string, opts CSVOptions) error {
	return io.WriteCSVFile(df.df, path, opts)
}

// ReadJSON reads a JSON-lines file into a frame.
func ReadJSON(path string, opts JSONOptions) (*DataFrame, error) {
	return wrapFrame(io.ReadJSONFile(path, opts, memory.NewGoAllocator()))
}

// WriteJSON writes a frame to a JSON-lines file.
func WriteJSON(df *DataFrame, path string, opts JSONOptions) error {
	return io.WriteJSONFile(df.df, path, opts)
}

// Configuration.

// GetConfig returns a copy of the global configuration.
func GetConfig() Config { return config.GetGlobalConfig() }

// SetConfig replaces the global configuration and re-initializes logging.
func SetConfig(cfg Config) {
	config.SetGlobalConfig(cfg)
	logging.Init()
}

// LoadConfig loads the global configuration from a YAML or JSON file.
func LoadConfig(path string) error {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}
