package column

import (
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/stdframe/stdframe/internal/config"
	"github.com/stdframe/stdframe/internal/errors"
)

// ReduceOptions configures a reduction.
//
// SkipNulls defaults to true, the backend default. With SkipNulls false and
// any null present, float-valued reductions return NaN — the scalar null
// stand-in — instead of silently skipping.
type ReduceOptions struct {
	SkipNulls bool
	// Correction is the delta degrees of freedom threaded into Std and Var.
	Correction float64
}

// DefaultReduceOptions returns the standard's default reduction behavior.
func DefaultReduceOptions() ReduceOptions {
	return ReduceOptions{SkipNulls: true, Correction: 1}
}

// numericValues materializes the non-null numeric payload as float64.
func (c *Column) numericValues(op string) ([]float64, error) {
	switch laneOf(c.arr.DataType()) {
	case laneInt, laneUint, laneFloat:
	default:
		return nil, errors.NewUnsupportedDTypeError(op, c.arr.DataType().Name())
	}

	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) {
			continue
		}
		out = append(out, floatAt(c.arr, i))
	}
	return out, nil
}

// nullPoisoned reports whether a non-skipping reduction must return the
// scalar null stand-in. With StrictNulls disabled in the global config,
// SkipNulls=false is tolerated and nulls are skipped anyway.
func (c *Column) nullPoisoned(opts ReduceOptions) bool {
	if opts.SkipNulls || c.NullCount() == 0 {
		return false
	}
	return config.GetGlobalConfig().StrictNulls
}

// Sum returns the sum of all non-null values.
func (c *Column) Sum(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Sum")
	if err != nil {
		return 0, err
	}
	if c.nullPoisoned(opts) {
		return math.NaN(), nil
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total, nil
}

// Prod returns the product of all non-null values.
func (c *Column) Prod(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Prod")
	if err != nil {
		return 0, err
	}
	if c.nullPoisoned(opts) {
		return math.NaN(), nil
	}
	total := 1.0
	for _, v := range vals {
		total *= v
	}
	return total, nil
}

// Mean returns the arithmetic mean of all non-null values.
func (c *Column) Mean(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Mean")
	if err != nil {
		return 0, err
	}
	if c.nullPoisoned(opts) || len(vals) == 0 {
		return math.NaN(), nil
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals)), nil
}

// Min returns the smallest non-null value. Fails on a zero-length column:
// the minimum has no identity element.
func (c *Column) Min(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Min")
	if err != nil {
		return 0, err
	}
	if c.Len() == 0 {
		return 0, errors.ErrEmptyColumn
	}
	if c.nullPoisoned(opts) || len(vals) == 0 {
		return math.NaN(), nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m, nil
}

// Max returns the largest non-null value. Fails on a zero-length column.
func (c *Column) Max(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Max")
	if err != nil {
		return 0, err
	}
	if c.Len() == 0 {
		return 0, errors.ErrEmptyColumn
	}
	if c.nullPoisoned(opts) || len(vals) == 0 {
		return math.NaN(), nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

// Median returns the median of all non-null values. Fails on a zero-length
// column.
func (c *Column) Median(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Median")
	if err != nil {
		return 0, err
	}
	if c.Len() == 0 {
		return 0, errors.ErrEmptyColumn
	}
	if c.nullPoisoned(opts) || len(vals) == 0 {
		return math.NaN(), nil
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], nil
	}
	return (vals[mid-1] + vals[mid]) / 2, nil
}

// Var returns the variance with the given delta degrees of freedom.
func (c *Column) Var(opts ReduceOptions) (float64, error) {
	vals, err := c.numericValues("Var")
	if err != nil {
		return 0, err
	}
	if c.nullPoisoned(opts) {
		return math.NaN(), nil
	}
	n := float64(len(vals))
	if n-opts.Correction <= 0 {
		return math.NaN(), nil
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= n

	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return ss / (n - opts.Correction), nil
}

// Std returns the standard deviation with the given delta degrees of freedom.
func (c *Column) Std(opts ReduceOptions) (float64, error) {
	v, err := c.Var(opts)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Any reports whether any non-null slot is true. Boolean columns only.
func (c *Column) Any(opts ReduceOptions) (bool, error) {
	if laneOf(c.arr.DataType()) != laneBool {
		return false, errors.NewUnsupportedDTypeError("Any", c.arr.DataType().Name())
	}
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) {
			continue
		}
		if boolAt(c.arr, i) {
			return true, nil
		}
	}
	return false, nil
}

// All reports whether every non-null slot is true. Boolean columns only.
func (c *Column) All(opts ReduceOptions) (bool, error) {
	if laneOf(c.arr.DataType()) != laneBool {
		return false, errors.NewUnsupportedDTypeError("All", c.arr.DataType().Name())
	}
	for i := 0; i < c.Len(); i++ {
		if c.arr.IsNull(i) {
			continue
		}
		if !boolAt(c.arr, i) {
			return false, nil
		}
	}
	return true, nil
}

// NUnique counts distinct non-null values. String payloads are bucketed by
// xxhash digest to avoid retaining every distinct string.
func (c *Column) NUnique(opts ReduceOptions) (int, error) {
	switch laneOf(c.arr.DataType()) {
	case laneString:
		seen := make(map[uint64]struct{})
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				continue
			}
			seen[xxhash.Sum64String(stringAt(c.arr, i))] = struct{}{}
		}
		return len(seen), nil

	case laneBool:
		seen := make(map[bool]struct{})
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				continue
			}
			seen[boolAt(c.arr, i)] = struct{}{}
		}
		return len(seen), nil

	case laneTime:
		seen := make(map[int64]struct{})
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				continue
			}
			seen[intAt(c.arr, i)] = struct{}{}
		}
		return len(seen), nil

	case laneInt, laneUint, laneFloat:
		seen := make(map[float64]struct{})
		for i := 0; i < c.Len(); i++ {
			if c.arr.IsNull(i) {
				continue
			}
			seen[floatAt(c.arr, i)] = struct{}{}
		}
		return len(seen), nil

	default:
		return 0, errors.NewUnsupportedDTypeError("NUnique", c.arr.DataType().Name())
	}
}
