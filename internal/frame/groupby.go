package frame

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/errors"
)

// AggKind selects a group aggregation.
type AggKind int

const (
	AggSum AggKind = iota
	AggMean
	AggMin
	AggMax
	AggCount
)

func (k AggKind) String() string {
	switch k {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	default:
		return "unknown"
	}
}

// Aggregation names a column and the aggregation applied to it. The result
// column is named "<column>_<kind>".
type Aggregation struct {
	Column string
	Kind   AggKind
}

// Sum aggregates the sum of non-null values per group.
func Sum(col string) Aggregation { return Aggregation{Column: col, Kind: AggSum} }

// Mean aggregates the arithmetic mean of non-null values per group.
func Mean(col string) Aggregation { return Aggregation{Column: col, Kind: AggMean} }

// Min aggregates the smallest non-null value per group.
func Min(col string) Aggregation { return Aggregation{Column: col, Kind: AggMin} }

// Max aggregates the largest non-null value per group.
func Max(col string) Aggregation { return Aggregation{Column: col, Kind: AggMax} }

// Count aggregates the number of non-null values per group.
func Count(col string) Aggregation { return Aggregation{Column: col, Kind: AggCount} }

// GroupBy is a pending grouping of a frame by one or more key columns.
type GroupBy struct {
	df   *DataFrame
	keys []string
}

// GroupBy groups the frame by the named key columns. Row keys are hashed
// with xxhash over a type-tagged byte encoding of the key values.
func (df *DataFrame) GroupBy(keys ...string) *GroupBy {
	return &GroupBy{df: df, keys: keys}
}

type group struct {
	firstRow int
	rows     []int
}

// Agg executes the grouping and the given aggregations. The result holds
// the key columns (first-occurrence values) followed by one column per
// aggregation, with groups ordered by first occurrence.
func (g *GroupBy) Agg(aggs ...Aggregation) (*DataFrame, error) {
	if len(g.keys) == 0 {
		return nil, errors.NewValidationError("GroupBy", "", "at least one key column is required")
	}
	keyCols := make([]*column.Column, len(g.keys))
	for i, name := range g.keys {
		c, ok := g.df.Column(name)
		if !ok {
			return nil, errors.NewColumnNotFoundError("GroupBy", name)
		}
		keyCols[i] = c
	}
	for _, agg := range aggs {
		if !g.df.HasColumn(agg.Column) {
			return nil, errors.NewColumnNotFoundError("Agg", agg.Column)
		}
	}

	groups, order, err := g.bucketRows(keyCols)
	if err != nil {
		return nil, err
	}

	// Key columns: gather the first row of each group.
	firstRows := make([]int64, len(order))
	for i, h := range order {
		firstRows[i] = int64(groups[h].firstRow)
	}
	idxCol, err := column.FromSlice("__group_first__", firstRows, g.df.apiVersion, g.df.mem)
	if err != nil {
		return nil, err
	}
	defer idxCol.Release()

	cols := make([]*column.Column, 0, len(g.keys)+len(aggs))
	for _, kc := range keyCols {
		taken, terr := kc.Take(idxCol)
		if terr != nil {
			releaseAll(cols)
			return nil, terr
		}
		cols = append(cols, taken)
	}

	for _, agg := range aggs {
		out, aerr := g.aggregate(agg, groups, order)
		if aerr != nil {
			releaseAll(cols)
			return nil, aerr
		}
		cols = append(cols, out)
	}
	return g.df.fromColumns(cols), nil
}

// bucketRows assigns every row to a group keyed by the xxhash of its key
// values, returning the buckets plus hashes in first-occurrence order.
func (g *GroupBy) bucketRows(keyCols []*column.Column) (map[uint64]*group, []uint64, error) {
	groups := make(map[uint64]*group)
	order := make([]uint64, 0)

	var d xxhash.Digest
	var scratch [8]byte

	n := g.df.Len()
	for row := 0; row < n; row++ {
		d.Reset()
		for _, kc := range keyCols {
			v, err := kc.GetValue(row)
			if err != nil {
				return nil, nil, err
			}
			hashValue(&d, &scratch, v)
		}
		h := d.Sum64()

		grp, ok := groups[h]
		if !ok {
			grp = &group{firstRow: row}
			groups[h] = grp
			order = append(order, h)
		}
		grp.rows = append(grp.rows, row)
	}
	return groups, order, nil
}

// hashValue feeds one key value into the digest with a leading type tag, so
// null, false and zero never collide.
func hashValue(d *xxhash.Digest, scratch *[8]byte, v any) {
	switch s := v.(type) {
	case nil:
		_, _ = d.Write([]byte{0})
	case bool:
		if s {
			_, _ = d.Write([]byte{1, 1})
		} else {
			_, _ = d.Write([]byte{1, 0})
		}
	case string:
		_, _ = d.Write([]byte{2})
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0xff})
	default:
		f, ok := toFloat(v)
		if !ok {
			// Unhashable values degrade to the nil bucket tag.
			_, _ = d.Write([]byte{0})
			return
		}
		_, _ = d.Write([]byte{3})
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		_, _ = d.Write(scratch[:])
	}
}

func toFloat(v any) (float64, bool) {
	switch s := v.(type) {
	case int8:
		return float64(s), true
	case int16:
		return float64(s), true
	case int32:
		return float64(s), true
	case int64:
		return float64(s), true
	case uint8:
		return float64(s), true
	case uint16:
		return float64(s), true
	case uint32:
		return float64(s), true
	case uint64:
		return float64(s), true
	case float32:
		return float64(s), true
	case float64:
		return s, true
	default:
		return 0, false
	}
}

// aggregate computes one aggregation column across all groups.
func (g *GroupBy) aggregate(agg Aggregation, groups map[uint64]*group, order []uint64) (*column.Column, error) {
	src, _ := g.df.Column(agg.Column)
	name := agg.Column + "_" + agg.Kind.String()

	if agg.Kind == AggCount {
		counts := make([]int64, len(order))
		for i, h := range order {
			n := int64(0)
			for _, row := range groups[h].rows {
				v, err := src.GetValue(row)
				if err != nil {
					return nil, err
				}
				if v != nil {
					n++
				}
			}
			counts[i] = n
		}
		return column.FromSlice(name, counts, g.df.apiVersion, g.df.mem)
	}

	vals := make([]float64, len(order))
	valid := make([]bool, len(order))
	for i, h := range order {
		acc := 0.0
		count := 0
		for _, row := range groups[h].rows {
			v, err := src.GetValue(row)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				return nil, errors.NewUnsupportedDTypeError("Agg", src.DType().String())
			}
			switch {
			case count == 0:
				acc = f
			case agg.Kind == AggSum || agg.Kind == AggMean:
				acc += f
			case agg.Kind == AggMin:
				acc = math.Min(acc, f)
			case agg.Kind == AggMax:
				acc = math.Max(acc, f)
			}
			count++
		}

		if count == 0 {
			valid[i] = false
			continue
		}
		if agg.Kind == AggMean {
			acc /= float64(count)
		}
		vals[i], valid[i] = acc, true
	}
	return column.FromSliceWithNulls(name, vals, valid, g.df.apiVersion, g.df.mem)
}
