// Package metrics provides performance tracking and observability for Strata
// using Prometheus metrics. It offers collectors for kernel throughput,
// latency, and memory usage.
//
// # Basic Usage
//
//	// Record completed operations
//	metrics.OperationsTotal.WithLabelValues("shift_sum", "success").Inc()
//
//	// Track kernel latency
//	timer := metrics.NewTimer("shift_sum")
//	result := engine.ShiftSum(ctx, n)
//	metrics.OperationLatency.WithLabelValues("shift_sum").Observe(float64(timer.Stop().Nanoseconds()))
//
//	// Track throughput
//	tracker := metrics.NewThroughputTracker("pct_change")
//	tracker.Increment(rows)
//	rps := tracker.GetAndReset()
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total rows processed)
// Gauge: Values that can go up or down (e.g., frame memory)
// Histogram: Distribution of values (e.g., latency percentiles)
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal tracks the total number of engine operations executed.
	// Labels: operation (shift_sum/pct_change/quantile), status (success/failure)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_operations_total",
			Help: "Total number of engine operations executed",
		},
		[]string{"operation", "status"},
	)

	// RowsProcessed tracks the total number of rows flowing through kernels.
	// Labels: operation
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_rows_processed_total",
			Help: "Total number of rows processed by kernels",
		},
		[]string{"operation"},
	)

	// OperationLatency tracks the distribution of kernel latencies in
	// nanoseconds. Buckets are optimized for sub-millisecond tracking.
	// Labels: operation
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "strata_operation_latency_nanoseconds",
			Help: "Kernel execution latency in nanoseconds",
			Buckets: []float64{
				100,    // 100ns - Ultra-low latency kernels
				1000,   // 1μs - Memory operations
				10000,  // 10μs - Small frames
				100000, // 100μs - Medium frames
				1e6,    // 1ms - Standard processing
				1e7,    // 10ms - Large frames
				1e8,    // 100ms - Very large frames
				1e9,    // 1s - Huge scans
			},
		},
		[]string{"operation"},
	)

	// MemoryAllocated tracks frame memory usage
	MemoryAllocated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_memory_allocated_bytes",
			Help: "Memory allocated in bytes",
		},
		[]string{"component"},
	)

	// Throughput tracks rows per second
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strata_throughput_rows_per_second",
			Help: "Current throughput in rows per second",
		},
		[]string{"operation"},
	)
)

// Collector provides a centralized metrics collection interface for a
// component. Each component should create its own collector.
type Collector struct {
	name      string
	startTime time.Time
}

// NewCollector creates a new metrics collector for a component.
// The name parameter identifies the component in metrics labels.
func NewCollector(name string) *Collector {
	return &Collector{
		name:      name,
		startTime: time.Now(),
	}
}

// RecordOperation records a completed operation with its latency and row count.
func (c *Collector) RecordOperation(operation string, rows int64, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	if err == nil {
		RowsProcessed.WithLabelValues(operation).Add(float64(rows))
		OperationLatency.WithLabelValues(operation).Observe(float64(d.Nanoseconds()))
	}
}

// RecordMemory records the current memory footprint of the component.
func (c *Collector) RecordMemory(bytes int64) {
	MemoryAllocated.WithLabelValues(c.name).Set(float64(bytes))
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks throughput (rows per second) over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	operation string
}

// NewThroughputTracker creates a new throughput tracker for an operation.
func NewThroughputTracker(operation string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		operation: operation,
	}
}

// Increment adds n to the row count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (rows/second),
// updates the Prometheus metric, resets the counter, and returns
// the calculated throughput. Safe for concurrent use.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.operation).Set(throughput)

	return throughput
}
