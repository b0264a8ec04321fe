// Package io provides CSV and JSON-lines input/output for frames.
//
// Readers infer a column type per field from the data: bool, int64, float64
// or string, with configurable null markers producing nullable columns.
// All readers and writers integrate with Arrow's memory management; returned
// frames must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stdframe/stdframe/internal/config"
	"github.com/stdframe/stdframe/internal/frame"
)

// DataReader reads data from a source into a frame.
type DataReader interface {
	Read() (*frame.DataFrame, error)
}

// DataWriter writes a frame to a destination.
type DataWriter interface {
	Write(df *frame.DataFrame) error
}

// CSVOptions configures CSV reading and writing.
type CSVOptions struct {
	// Delimiter is the field delimiter.
	Delimiter rune
	// Comment disables comment handling when zero.
	Comment rune
	// Header indicates whether the first row carries column names.
	Header bool
	// NullValues are the strings read back as null slots. Nil selects the
	// global config's markers.
	NullValues []string
	// APIVersion tags the resulting columns. Empty selects the default.
	APIVersion string
}

// DefaultCSVOptions returns CSV options driven by the global config.
func DefaultCSVOptions() CSVOptions {
	cfg := config.GetGlobalConfig()
	delim := ','
	if cfg.CSVDelimiter != "" {
		delim = rune(cfg.CSVDelimiter[0])
	}
	return CSVOptions{
		Delimiter:  delim,
		Header:     true,
		NullValues: append([]string(nil), cfg.NullValues...),
	}
}

// JSONOptions configures JSON-lines reading and writing.
type JSONOptions struct {
	// MaxRecords caps the number of lines read; zero means unlimited.
	MaxRecords int
	// APIVersion tags the resulting columns. Empty selects the default.
	APIVersion string
}

// DefaultJSONOptions returns the default JSON-lines options.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{}
}

// CSVReader reads CSV data into frames.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &CSVReader{reader: reader, options: options, mem: mem}
}

// CSVWriter writes frames as CSV.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: writer, options: options}
}

// JSONReader reads JSON-lines data into frames.
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
	mem     memory.Allocator
}

// NewJSONReader creates a JSON-lines reader.
func NewJSONReader(reader io.Reader, options JSONOptions, mem memory.Allocator) *JSONReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &JSONReader{reader: reader, options: options, mem: mem}
}

// JSONWriter writes frames as JSON lines.
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a JSON-lines writer.
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{writer: writer, options: options}
}
