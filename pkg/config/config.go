// Package config provides the unified configuration system for Strata.
// It defines a single BaseConfig structure used by the engine and the CLI,
// ensuring consistent configuration across the entire system.
//
// The configuration is organized into logical sections:
//   - Performance: Chunk sizes, concurrency, parallel dispatch thresholds
//   - Observability: Metrics, tracing, logging
//   - Memory: Pooling and buffer management
//
// Example usage:
//
//	cfg := config.NewBaseConfig("demo")
//	cfg.Performance.ChunkSize = 65536
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"runtime"
	"time"
)

// BaseConfig is the single unified configuration structure for Strata.
type BaseConfig struct {
	// Name identifies the engine instance
	Name string `yaml:"name" json:"name"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Performance settings control throughput and resource usage
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`

	// Memory management configuration
	Memory MemoryConfig `yaml:"memory" json:"memory"`
}

// PerformanceConfig contains all performance-related settings.
// These settings control how compute kernels are dispatched.
type PerformanceConfig struct {
	// ChunkSize controls the number of rows each worker processes at a time
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// Workers defines the number of concurrent kernel workers
	Workers int `yaml:"workers" json:"workers"`
	// MaxConcurrency limits total concurrent operations
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`
	// ParallelThreshold is the row count above which kernels fan out
	// across workers; smaller inputs run on the calling goroutine
	ParallelThreshold int `yaml:"parallel_threshold" json:"parallel_threshold"`
	// SelectionThreshold is the row count above which quantile selection
	// switches from direct sort to sampled bound narrowing
	SelectionThreshold int64 `yaml:"selection_threshold" json:"selection_threshold"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing activates distributed tracing
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// EnableLogging controls logging output
	EnableLogging bool `yaml:"enable_logging" json:"enable_logging"`
	// MetricsInterval sets how often metrics are collected
	MetricsInterval time.Duration `yaml:"metrics_interval" json:"metrics_interval"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// MemoryConfig contains memory management settings.
type MemoryConfig struct {
	// EnablePools activates object pooling for kernel scratch buffers
	EnablePools bool `yaml:"enable_pools" json:"enable_pools"`
	// BufferPoolSize sets the buffer pool capacity
	BufferPoolSize int `yaml:"buffer_pool_size" json:"buffer_pool_size"`
	// MinBufferSize sets minimum buffer allocation
	MinBufferSize int `yaml:"min_buffer_size" json:"min_buffer_size"`
	// MaxBufferSize sets maximum buffer allocation
	MaxBufferSize int `yaml:"max_buffer_size" json:"max_buffer_size"`
}

// NewBaseConfig creates a new BaseConfig with sensible defaults.
// It initializes all configuration sections with values that work well
// for most workloads. Callers can override individual fields as needed.
func NewBaseConfig(name string) *BaseConfig {
	return &BaseConfig{
		Name:    name,
		Version: "1.0.0",
		Performance: PerformanceConfig{
			ChunkSize:          65536,
			Workers:            runtime.NumCPU(),
			MaxConcurrency:     10,
			ParallelThreshold:  262144,
			SelectionThreshold: 10_000_000,
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     true,
			EnableTracing:     false,
			EnableLogging:     true,
			MetricsInterval:   30 * time.Second,
			LogLevel:          "info",
			TracingSampleRate: 0.1,
		},
		Memory: MemoryConfig{
			EnablePools:    true,
			BufferPoolSize: 100,
			MinBufferSize:  1024,
			MaxBufferSize:  1048576, // 1MB
		},
	}
}

// Validate validates the configuration for correctness.
// It checks required fields and ensures values are within acceptable ranges.
func (bc *BaseConfig) Validate() error {
	if bc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if bc.Performance.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if bc.Performance.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	if bc.Performance.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold cannot be negative")
	}
	if bc.Performance.SelectionThreshold <= 0 {
		return fmt.Errorf("selection_threshold must be positive")
	}
	if bc.Observability.TracingSampleRate < 0 || bc.Observability.TracingSampleRate > 1 {
		return fmt.Errorf("tracing_sample_rate must be in [0, 1]")
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (p *PerformanceConfig) GetWorkers() int {
	if p.Workers <= 0 {
		return runtime.NumCPU()
	}
	return p.Workers
}
