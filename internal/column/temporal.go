package column

import (
	"time"

	"github.com/stdframe/stdframe/internal/errors"
)

// Temporal exposes the datetime accessor namespace of a Datetime column.
// Accessors compute in UTC, matching the column's storage unit.
type Temporal struct {
	col *Column
}

// Dt returns the temporal accessor namespace. Non-datetime columns fail.
func (c *Column) Dt() (*Temporal, error) {
	if laneOf(c.arr.DataType()) != laneTime {
		return nil, errors.NewUnsupportedDTypeError("Dt", c.arr.DataType().Name())
	}
	return &Temporal{col: c}, nil
}

// mapTime builds an Int64 column by applying fn to each non-null timestamp.
func (t *Temporal) mapTime(fn func(time.Time) int64) (*Column, error) {
	c := t.col
	n := c.Len()
	vals := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.arr.IsNull(i) {
			continue
		}
		valid[i] = true
		vals[i] = fn(time.Unix(0, intAt(c.arr, i)).UTC())
	}
	return FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
}

// Year returns the calendar year per slot.
func (t *Temporal) Year() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Year()) })
}

// Month returns the calendar month, 1 through 12.
func (t *Temporal) Month() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Month()) })
}

// Day returns the day of the month, 1 through 31.
func (t *Temporal) Day() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Day()) })
}

// Hour returns the hour of the day, 0 through 23.
func (t *Temporal) Hour() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Hour()) })
}

// Minute returns the minute of the hour, 0 through 59.
func (t *Temporal) Minute() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Minute()) })
}

// Second returns the second of the minute, 0 through 59.
func (t *Temporal) Second() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Second()) })
}

// Microsecond returns the microseconds within the current second,
// 0 through 999999.
func (t *Temporal) Microsecond() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Nanosecond() / 1000) })
}

// Nanosecond returns the nanoseconds within the current second,
// 0 through 999999999.
func (t *Temporal) Nanosecond() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 { return int64(v.Nanosecond()) })
}

// IsoWeekday returns the ISO weekday, Monday 1 through Sunday 7.
func (t *Temporal) IsoWeekday() (*Column, error) {
	return t.mapTime(func(v time.Time) int64 {
		return int64((int(v.Weekday())+6)%7) + 1
	})
}

// Floor truncates each timestamp down to a multiple of the given frequency.
// Frequency strings are a positive integer count plus a unit suffix:
// "d", "h", "m", "s", "ms", "us", "ns" — for example "1d" or "15m".
// Truncation rounds toward negative infinity, so pre-epoch timestamps floor
// downward too.
func (t *Temporal) Floor(frequency string) (*Column, error) {
	step, err := parseFrequency(frequency)
	if err != nil {
		return nil, err
	}

	c := t.col
	n := c.Len()
	vals := make([]time.Time, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.arr.IsNull(i) {
			continue
		}
		valid[i] = true
		ns := intAt(c.arr, i)
		vals[i] = time.Unix(0, floorDiv(ns, step)*step).UTC()
	}
	return FromSliceWithNulls(c.name, vals, valid, c.apiVersion, c.mem)
}

// parseFrequency converts a frequency string to a step in nanoseconds.
func parseFrequency(frequency string) (int64, error) {
	if frequency == "" {
		return 0, errors.NewInvalidInputError("Floor", "frequency must not be empty")
	}

	i := 0
	count := int64(0)
	for i < len(frequency) && frequency[i] >= '0' && frequency[i] <= '9' {
		count = count*10 + int64(frequency[i]-'0')
		i++
	}
	if i == 0 {
		count = 1
	}
	if count <= 0 {
		return 0, errors.NewInvalidInputError("Floor", "frequency count must be positive: "+frequency)
	}

	var unit int64
	switch frequency[i:] {
	case "d":
		unit = int64(24 * time.Hour)
	case "h":
		unit = int64(time.Hour)
	case "m":
		unit = int64(time.Minute)
	case "s":
		unit = int64(time.Second)
	case "ms":
		unit = int64(time.Millisecond)
	case "us":
		unit = int64(time.Microsecond)
	case "ns":
		unit = 1
	default:
		return 0, errors.NewInvalidInputError("Floor", "unknown frequency unit: "+frequency)
	}
	return count * unit, nil
}

// UnixTimestamp returns the seconds, milliseconds, microseconds, or
// nanoseconds since the Unix epoch, depending on the requested unit.
// Division floors, so pre-epoch timestamps round toward negative infinity.
// An unrecognized unit is a programming error and panics.
func (t *Temporal) UnixTimestamp(unit string) (*Column, error) {
	var scale int64
	switch unit {
	case "s":
		scale = int64(time.Second)
	case "ms":
		scale = int64(time.Millisecond)
	case "us":
		scale = int64(time.Microsecond)
	case "ns":
		scale = 1
	default:
		panic("unexpected time unit: " + unit)
	}

	return t.mapTime(func(v time.Time) int64 {
		if scale == 1 {
			return v.UnixNano()
		}
		return floorDiv(v.UnixNano(), scale)
	})
}
