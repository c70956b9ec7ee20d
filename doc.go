// Package strata provides a high-performance columnar frame analytics engine
// for tabular float64 data with per-slot missing-value tracking.
//
// Strata builds analytic frames and runs vectorized series transforms over
// them: lag shift with skip-missing summation, period-over-period percent
// change, and exact quantile selection that scales to hundreds of millions
// of rows through sampled bound narrowing.
//
// # Architecture
//
// Strata is organized around three layers:
//
// 1. Frame layer: immutable-by-convention Series and Frame types with
// bit-packed validity bitmaps, so missing slots cost one bit per row.
//
// 2. Engine layer: kernels that run serially for small inputs and fan out
// across worker goroutines in fixed-size chunks above a configurable
// threshold.
//
// 3. Interchange layer: Arrow IPC files and JSON records, with optional
// compression (gzip, snappy, lz4, zstd, s2, deflate).
//
// # Quick Start
//
// Compute the canonical derived results for a 10-row frame from the CLI:
//
//	strata demo --rows 10
//	strata bench --rows 10000000
//	strata export --rows 1000 --out frame.arrow --compress zstd
//
// As a library, build frames and run series transforms with pkg/frame:
//
//	import "github.com/ajitpratap0/strata/pkg/frame"
//
//	a, err := frame.RangeSeries("A", 10)
//	sum := a.Shift(1).Sum()        // 45.0, missing slots skipped
//	pct := a.PctChange()           // first slot missing
//
// # Key Packages
//
//	pkg/frame        - Series and Frame types with validity bitmaps
//	internal/engine  - Kernel dispatch, quantile selection
//	pkg/arrowio      - Arrow IPC interchange
//	pkg/compression  - Multi-algorithm compression for exports
//	pkg/config       - Unified configuration management
//	pkg/errors       - Structured error handling
//	pkg/logger       - High-performance structured logging
//	pkg/metrics      - Prometheus metrics collection
//	pkg/observability - OpenTelemetry tracing
//
// # Configuration
//
// Strata uses a unified configuration system:
//
//	type BaseConfig struct {
//	    Performance   PerformanceConfig   // Chunk sizes, workers, thresholds
//	    Observability ObservabilityConfig // Metrics, logging, tracing
//	    Memory        MemoryConfig        // Pools, buffer limits
//	}
//
// Environment variables are supported with ${VAR_NAME} syntax.
package strata
