package frame

import (
	"strings"

	"go.uber.org/zap"

	"github.com/stdframe/stdframe/internal/column"
	"github.com/stdframe/stdframe/internal/logging"
)

// Predicate builds a boolean mask from a materialized frame.
type Predicate func(*DataFrame) (*column.Column, error)

// lazyOp is one deferred step in a LazyFrame pipeline.
type lazyOp interface {
	apply(*DataFrame) (*DataFrame, error)
	String() string
}

type selectOp struct {
	names []string
}

func (op *selectOp) apply(df *DataFrame) (*DataFrame, error) {
	return df.Select(op.names...)
}

func (op *selectOp) String() string {
	return "select(" + strings.Join(op.names, ", ") + ")"
}

type filterOp struct {
	predicate Predicate
}

func (op *filterOp) apply(df *DataFrame) (*DataFrame, error) {
	mask, err := op.predicate(df)
	if err != nil {
		return nil, err
	}
	defer mask.Release()
	return df.Filter(mask)
}

func (op *filterOp) String() string {
	return "filter(<predicate>)"
}

// LazyFrame defers a source read plus a pipeline of select and filter steps
// until Collect.
type LazyFrame struct {
	source func() (*DataFrame, error)
	ops    []lazyOp
}

// NewLazy wraps a deferred frame source. The source runs once per Collect
// and the returned frame is owned by the pipeline.
func NewLazy(source func() (*DataFrame, error)) *LazyFrame {
	return &LazyFrame{source: source}
}

// Lazy starts a deferred pipeline over an already materialized frame.
func (df *DataFrame) Lazy() *LazyFrame {
	return NewLazy(func() (*DataFrame, error) {
		return df.Select(df.Columns()...)
	})
}

func (lf *LazyFrame) with(op lazyOp) *LazyFrame {
	ops := make([]lazyOp, len(lf.ops), len(lf.ops)+1)
	copy(ops, lf.ops)
	return &LazyFrame{source: lf.source, ops: append(ops, op)}
}

// Select queues a column projection.
func (lf *LazyFrame) Select(names ...string) *LazyFrame {
	return lf.with(&selectOp{names: names})
}

// Filter queues a row filter.
func (lf *LazyFrame) Filter(predicate Predicate) *LazyFrame {
	return lf.with(&filterOp{predicate: predicate})
}

// Collect runs the source and every queued step in order, releasing each
// intermediate frame.
func (lf *LazyFrame) Collect() (*DataFrame, error) {
	df, err := lf.source()
	if err != nil {
		return nil, err
	}

	for _, op := range lf.ops {
		logging.L().Debug("collect step", zap.Stringer("op", op))
		next, opErr := op.apply(df)
		df.Release()
		if opErr != nil {
			return nil, opErr
		}
		df = next
	}
	return df, nil
}

// String describes the queued pipeline.
func (lf *LazyFrame) String() string {
	parts := make([]string, 0, len(lf.ops)+1)
	parts = append(parts, "scan")
	for _, op := range lf.ops {
		parts = append(parts, op.String())
	}
	return "LazyFrame[" + strings.Join(parts, " -> ") + "]"
}
