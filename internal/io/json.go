package io

import (
	"bufio"
	"math"
	"os"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/errors"
	"github.com/stdframe/stdframe/internal/frame"
)

// Read reads JSON-lines data: one JSON object per line. Column order
// follows first appearance; objects missing a key contribute a null slot.
func (r *JSONReader) Read() (*frame.DataFrame, error) {
	scanner := bufio.NewScanner(r.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []map[string]any
	var order []string
	seen := make(map[string]bool)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, errors.NewInternalError("ReadJSON", err)
		}
		records = append(records, rec)

		// Column order follows first appearance across records; key order
		// within one object is unrecoverable after unmarshal, so new keys
		// from the same record append in sorted order.
		newKeys := make([]string, 0, len(rec))
		for key := range rec {
			if !seen[key] {
				seen[key] = true
				newKeys = append(newKeys, key)
			}
		}
		sort.Strings(newKeys)
		order = append(order, newKeys...)

		if r.options.MaxRecords > 0 && len(records) >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternalError("ReadJSON", err)
	}
	if len(records) == 0 {
		return frame.New()
	}

	cols := make([]*column.Column, 0, len(order))
	for _, key := range order {
		c, err := r.buildJSONColumn(key, records)
		if err != nil {
			for _, built := range cols {
				built.Release()
			}
			return nil, err
		}
		cols = append(cols, c)
	}

	df, err := frame.New(cols...)
	for _, c := range cols {
		c.Release()
	}
	return df, err
}

// buildJSONColumn infers one column's type from the decoded values:
// bool, int64 (when every number is integral), float64, or string.
func (r *JSONReader) buildJSONColumn(key string, records []map[string]any) (*column.Column, error) {
	n := len(records)
	valid := make([]bool, n)

	allBool, allNumber, allIntegral, allString := true, true, true, true
	for i, rec := range records {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		valid[i] = true
		switch s := v.(type) {
		case bool:
			allNumber, allIntegral, allString = false, false, false
		case float64:
			allBool, allString = false, false
			if s != math.Trunc(s) {
				allIntegral = false
			}
		case string:
			allBool, allNumber, allIntegral = false, false, false
		default:
			allBool, allNumber, allIntegral, allString = false, false, false, false
		}
	}

	switch {
	case allBool:
		vals := make([]bool, n)
		for i, rec := range records {
			if valid[i] {
				vals[i] = rec[key].(bool)
			}
		}
		return column.FromSliceWithNulls(key, vals, valid, r.options.APIVersion, r.mem)
	case allNumber && allIntegral:
		vals := make([]int64, n)
		for i, rec := range records {
			if valid[i] {
				vals[i] = int64(rec[key].(float64))
			}
		}
		return column.FromSliceWithNulls(key, vals, valid, r.options.APIVersion, r.mem)
	case allNumber:
		vals := make([]float64, n)
		for i, rec := range records {
			if valid[i] {
				vals[i] = rec[key].(float64)
			}
		}
		return column.FromSliceWithNulls(key, vals, valid, r.options.APIVersion, r.mem)
	case allString:
		vals := make([]string, n)
		for i, rec := range records {
			if valid[i] {
				vals[i] = rec[key].(string)
			}
		}
		return column.FromSliceWithNulls(key, vals, valid, r.options.APIVersion, r.mem)
	default:
		return nil, errors.NewUnsupportedDTypeError("ReadJSON", "mixed types in field "+key)
	}
}

// Write writes the frame as JSON lines, one object per row. Null slots
// serialize as JSON null; datetimes as RFC 3339 strings.
func (w *JSONWriter) Write(df *frame.DataFrame) error {
	names := df.Columns()
	enc := json.NewEncoder(w.writer)

	for i := 0; i < df.Len(); i++ {
		row := make(map[string]any, len(names))
		for _, name := range names {
			c, _ := df.Column(name)
			v, err := c.GetValue(i)
			if err != nil {
				return err
			}
			if ts, ok := v.(time.Time); ok {
				v = ts.Format(time.RFC3339Nano)
			}
			row[name] = v
		}
		if err := enc.Encode(row); err != nil {
			return errors.NewInternalError("WriteJSON", err)
		}
	}
	return nil
}

// ReadJSONFile reads a JSON-lines file into a frame.
func ReadJSONFile(path string, options JSONOptions, mem memory.Allocator) (*frame.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewInternalError("ReadJSON", err)
	}
	defer f.Close()
	return NewJSONReader(f, options, mem).Read()
}

// WriteJSONFile writes a frame to a JSON-lines file.
func WriteJSONFile(df *frame.DataFrame, path string, options JSONOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewInternalError("WriteJSON", err)
	}
	defer f.Close()
	return NewJSONWriter(f, options).Write(df)
}
