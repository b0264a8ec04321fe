package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/config"
	"github.com/stdframe/stdframe/internal/errors"
	"github.com/stdframe/stdframe/internal/frame"
	"github.com/stdframe/stdframe/internal/logging"
)

const (
	typeBool   = "bool"
	typeInt    = "int64"
	typeFloat  = "float64"
	typeString = "string"
)

// Read reads CSV data and returns a frame. Every field is matched against
// the configured null markers first; the remaining values drive per-column
// type inference.
func (r *CSVReader) Read() (*frame.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.NewInternalError("ReadCSV", err)
	}
	if len(records) == 0 {
		return frame.New()
	}

	var headers []string
	var rows [][]string
	if r.options.Header {
		headers = records[0]
		rows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		rows = records
	}

	logging.L().Debug("csv read", zap.Int("rows", len(rows)), zap.Int("columns", len(headers)))

	cols := make([]*column.Column, 0, len(headers))
	for i, header := range headers {
		values := make([]string, len(rows))
		valid := make([]bool, len(rows))
		for j, row := range rows {
			if i >= len(row) {
				continue
			}
			if r.isNullMarker(row[i]) {
				continue
			}
			values[j], valid[j] = row[i], true
		}

		c, cerr := r.buildColumn(header, values, valid)
		if cerr != nil {
			for _, built := range cols {
				built.Release()
			}
			return nil, cerr
		}
		cols = append(cols, c)
	}

	df, err := frame.New(cols...)
	for _, c := range cols {
		c.Release()
	}
	return df, err
}

// isNullMarker matches a field against the option markers, or the global
// config's markers when the options leave them nil.
func (r *CSVReader) isNullMarker(value string) bool {
	if r.options.NullValues == nil {
		return config.IsNullMarker(value)
	}
	for _, marker := range r.options.NullValues {
		if value == marker {
			return true
		}
	}
	return false
}

// buildColumn infers the narrowest type that parses every non-null value:
// bool, then int64, then float64, falling back to string.
func (r *CSVReader) buildColumn(name string, values []string, valid []bool) (*column.Column, error) {
	switch inferType(values, valid) {
	case typeBool:
		parsed := make([]bool, len(values))
		for i, v := range values {
			if valid[i] {
				parsed[i], _ = strconv.ParseBool(strings.ToLower(v))
			}
		}
		return column.FromSliceWithNulls(name, parsed, valid, r.options.APIVersion, r.mem)
	case typeInt:
		parsed := make([]int64, len(values))
		for i, v := range values {
			if valid[i] {
				parsed[i], _ = strconv.ParseInt(v, 10, 64)
			}
		}
		return column.FromSliceWithNulls(name, parsed, valid, r.options.APIVersion, r.mem)
	case typeFloat:
		parsed := make([]float64, len(values))
		for i, v := range values {
			if valid[i] {
				parsed[i], _ = strconv.ParseFloat(v, 64)
			}
		}
		return column.FromSliceWithNulls(name, parsed, valid, r.options.APIVersion, r.mem)
	default:
		return column.FromSliceWithNulls(name, values, valid, r.options.APIVersion, r.mem)
	}
}

func inferType(values []string, valid []bool) string {
	sawAny := false
	isBool, isInt, isFloat := true, true, true

	for i, v := range values {
		if !valid[i] {
			continue
		}
		sawAny = true

		if isBool {
			switch strings.ToLower(v) {
			case "true", "false":
			default:
				isBool = false
			}
		}
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if !isBool && !isInt && !isFloat {
			return typeString
		}
	}

	switch {
	case !sawAny:
		return typeString
	case isBool:
		return typeBool
	case isInt:
		return typeInt
	case isFloat:
		return typeFloat
	default:
		return typeString
	}
}

// Write writes the frame as CSV, formatting null slots with the first
// configured null marker.
func (w *CSVWriter) Write(df *frame.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return errors.NewInternalError("WriteCSV", err)
		}
	}

	markers := w.options.NullValues
	if markers == nil {
		markers = config.GetGlobalConfig().NullValues
	}
	nullMarker := ""
	if len(markers) > 0 {
		nullMarker = markers[0]
	}

	names := df.Columns()
	row := make([]string, len(names))
	for i := 0; i < df.Len(); i++ {
		for j, name := range names {
			c, _ := df.Column(name)
			v, err := c.GetValue(i)
			if err != nil {
				return err
			}
			row[j] = formatCSVValue(v, nullMarker)
		}
		if err := csvWriter.Write(row); err != nil {
			return errors.NewInternalError("WriteCSV", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.NewInternalError("WriteCSV", err)
	}
	return nil
}

func formatCSVValue(v any, nullMarker string) string {
	switch s := v.(type) {
	case nil:
		return nullMarker
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case time.Time:
		return s.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// ReadCSVFile reads a CSV file into a frame.
func ReadCSVFile(path string, options CSVOptions, mem memory.Allocator) (*frame.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewInternalError("ReadCSV", err)
	}
	defer f.Close()
	return NewCSVReader(f, options, mem).Read()
}

// WriteCSVFile writes a frame to a CSV file.
func WriteCSVFile(df *frame.DataFrame, path string, options CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewInternalError("WriteCSV", err)
	}
	defer f.Close()
	return NewCSVWriter(f, options).Write(df)
}

// ScanCSV defers the file read into a lazy pipeline: the file opens on
// Collect, not at scan time.
func ScanCSV(path string, options CSVOptions, mem memory.Allocator) *frame.LazyFrame {
	return frame.NewLazy(func() (*frame.DataFrame, error) {
		return ReadCSVFile(path, options, mem)
	})
}
