// Package engine provides the core compute engine for Strata, dispatching
// vectorized series kernels over columnar frames.
//
// # Overview
//
// The engine package provides:
//   - Frame construction for analytic workloads
//   - Lag-shift and percent-change transforms with summation
//   - Exact quantile selection at scale
//   - Chunked parallel kernel dispatch
//   - Real-time metrics and tracing
//
// # Architecture
//
// Operations run on the calling goroutine for small frames and fan out
// across worker goroutines in fixed-size chunks above a configurable
// threshold. Kernels never mutate their input series.
//
// # Basic Usage
//
//	eng := engine.New(engine.DefaultConfig(), logger)
//
//	sum, err := eng.ShiftSum(ctx, 10)       // 45.0
//	pct, err := eng.PctChange(ctx, 10)      // series of relative changes
//	med, err := eng.Quantile(ctx, s, 0.5)   // exact k-th selection
package engine

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/frame"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/observability"
)

// Config contains engine configuration parameters that control kernel
// dispatch and resource usage.
type Config struct {
	ChunkSize          int   // Rows per worker chunk
	Workers            int   // Parallel kernel workers
	ParallelThreshold  int   // Row count above which kernels fan out
	SelectionThreshold int64 // Row count above which quantile uses sampled bounds
	Seed               int64 // Seed for generated random columns
}

// DefaultConfig returns default configuration suitable for general use.
// Adjust based on your workload:
//   - Increase ChunkSize for better throughput on large frames
//   - Decrease ParallelThreshold for CPU-bound transforms on smaller frames
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:          65536,
		Workers:            runtime.NumCPU(),
		ParallelThreshold:  262144,
		SelectionThreshold: 10_000_000,
		Seed:               42,
	}
}

// FromBaseConfig derives an engine Config from the unified configuration.
func FromBaseConfig(bc *config.BaseConfig) *Config {
	cfg := DefaultConfig()
	if bc == nil {
		return cfg
	}
	if bc.Performance.ChunkSize > 0 {
		cfg.ChunkSize = bc.Performance.ChunkSize
	}
	cfg.Workers = bc.Performance.GetWorkers()
	if bc.Performance.ParallelThreshold > 0 {
		cfg.ParallelThreshold = bc.Performance.ParallelThreshold
	}
	if bc.Performance.SelectionThreshold > 0 {
		cfg.SelectionThreshold = bc.Performance.SelectionThreshold
	}
	return cfg
}

// Engine executes vectorized transforms over columnar frames.
type Engine struct {
	config    *Config
	logger    *zap.Logger
	collector *metrics.Collector
}

// New creates an engine with the given configuration and logger.
// A nil config selects DefaultConfig.
func New(cfg *Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		config:    cfg,
		logger:    logger,
		collector: metrics.NewCollector("engine"),
	}
}

// BuildFrame constructs the standard analytic frame: column A holds the
// integers 1..n as floats, column B holds n uniform draws from [0, 1).
func (e *Engine) BuildFrame(n int) (*frame.Frame, error) {
	a, err := frame.RangeSeries("A", n)
	if err != nil {
		return nil, err
	}

	b, err := frame.RandomSeries("B", n, e.config.Seed)
	if err != nil {
		return nil, err
	}

	f, err := frame.New(a, b)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to assemble frame")
	}

	e.collector.RecordMemory(f.MemoryUsage())
	return f, nil
}

// ShiftSum builds the standard frame for n rows, lag-1 shifts column A,
// and returns the sum of the shifted series with missing slots skipped.
// For the range column this equals the sum of 1..n-1.
func (e *Engine) ShiftSum(ctx context.Context, n int) (float64, error) {
	ctx, span := observability.StartSpan(ctx, "engine.ShiftSum", attribute.Int("rows", n))
	defer span.End()

	timer := metrics.NewTimer("shift_sum")

	f, err := e.BuildFrame(n)
	if err != nil {
		observability.RecordError(span, err)
		e.collector.RecordOperation("shift_sum", 0, timer.Stop(), err)
		return 0, err
	}

	a, _ := f.Column("A")
	sum, err := e.shiftSum(ctx, a)

	duration := timer.Stop()
	e.collector.RecordOperation("shift_sum", int64(n), duration, err)
	if err != nil {
		observability.RecordError(span, err)
		return 0, err
	}

	e.logger.Debug("shift sum computed",
		zap.Int("rows", n),
		zap.Float64("sum", sum),
		zap.Duration("duration", duration))

	return sum, nil
}

// PctChange builds the standard frame for n rows and returns the full
// period-over-period relative change of column A. The first element of
// the result is missing.
func (e *Engine) PctChange(ctx context.Context, n int) (*frame.Series, error) {
	ctx, span := observability.StartSpan(ctx, "engine.PctChange", attribute.Int("rows", n))
	defer span.End()

	timer := metrics.NewTimer("pct_change")

	f, err := e.BuildFrame(n)
	if err != nil {
		observability.RecordError(span, err)
		e.collector.RecordOperation("pct_change", 0, timer.Stop(), err)
		return nil, err
	}

	a, _ := f.Column("A")
	result, err := e.pctChange(ctx, a)

	duration := timer.Stop()
	e.collector.RecordOperation("pct_change", int64(n), duration, err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	e.logger.Debug("pct change computed",
		zap.Int("rows", n),
		zap.Duration("duration", duration))

	return result, nil
}

// Quantile returns the exact q-quantile of the series as a k-th order
// statistic with k = floor(q * count), computed over present values only.
// Inputs below SelectionThreshold rows are selected directly; larger
// inputs are narrowed through sampled bounds before selection.
func (e *Engine) Quantile(ctx context.Context, s *frame.Series, q float64) (float64, error) {
	ctx, span := observability.StartSpan(ctx, "engine.Quantile",
		attribute.Float64("q", q), attribute.Int("rows", s.Len()))
	defer span.End()

	if q < 0 || q > 1 {
		err := errors.Newf(errors.ErrorTypeValidation, "quantile must be in [0, 1], got %g", q)
		observability.RecordError(span, err)
		return 0, err
	}

	timer := metrics.NewTimer("quantile")

	data := presentValues(s)
	if len(data) == 0 {
		err := errors.New(errors.ErrorTypeData, "quantile of empty series")
		observability.RecordError(span, err)
		e.collector.RecordOperation("quantile", 0, timer.Stop(), err)
		return 0, err
	}

	k := int64(q * float64(len(data)))
	if k >= int64(len(data)) {
		k = int64(len(data)) - 1
	}

	result, err := e.selectKth(ctx, data, k)

	duration := timer.Stop()
	e.collector.RecordOperation("quantile", int64(s.Len()), duration, err)
	if err != nil {
		observability.RecordError(span, err)
		return 0, err
	}

	e.logger.Debug("quantile computed",
		zap.Float64("q", q),
		zap.Int64("k", k),
		zap.Float64("value", result),
		zap.Duration("duration", duration))

	return result, nil
}

// presentValues extracts the present slots of a series into a dense slice
func presentValues(s *frame.Series) []float64 {
	out := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Get(i); ok {
			out = append(out, v)
		}
	}
	return out
}
