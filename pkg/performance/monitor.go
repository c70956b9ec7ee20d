// Package performance provides process resource monitoring for Strata
package performance

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot captures process and runtime resource usage at a point in time.
type Snapshot struct {
	// Process metrics
	RSSBytes   uint64
	CPUPercent float64

	// Go runtime metrics
	Goroutines     int
	HeapAllocBytes uint64
	GCCount        uint32

	// Host metrics
	SystemMemoryPercent float64
}

// ResourceMonitor samples resource usage for the current process.
type ResourceMonitor struct {
	proc *process.Process
}

// NewResourceMonitor creates a monitor bound to the current process.
// Process-level metrics degrade to zero values on platforms where they
// are unavailable.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PIDs fit in int32
	if err != nil {
		return nil, fmt.Errorf("failed to open process handle: %w", err)
	}
	return &ResourceMonitor{proc: proc}, nil
}

// Snapshot returns current resource usage. Individual probes are
// best-effort so a partial snapshot is still returned on probe failure.
func (rm *ResourceMonitor) Snapshot() Snapshot {
	var snap Snapshot

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	snap.Goroutines = runtime.NumGoroutine()
	snap.HeapAllocBytes = ms.HeapAlloc
	snap.GCCount = ms.NumGC

	if info, err := rm.proc.MemoryInfo(); err == nil {
		snap.RSSBytes = info.RSS
	}
	if cpu, err := rm.proc.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.SystemMemoryPercent = vm.UsedPercent
	}

	return snap
}

// String formats the snapshot for human-readable benchmark output.
func (s Snapshot) String() string {
	return fmt.Sprintf("rss: %.1f MB, cpu: %.1f%%, heap: %.1f MB, goroutines: %d, gc: %d",
		float64(s.RSSBytes)/(1024*1024),
		s.CPUPercent,
		float64(s.HeapAllocBytes)/(1024*1024),
		s.Goroutines,
		s.GCCount)
}
