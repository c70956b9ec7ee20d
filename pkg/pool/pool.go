// Package pool provides object pooling for Strata's compute kernels.
// It offers type-safe pooling with automatic object recycling to reduce
// garbage collection pressure during repeated frame transforms.
//
// The package provides:
//   - Generic type-safe object pooling with Pool[T]
//   - Float64 slice pooling for kernel scratch buffers
//
// Example usage:
//
//	vals := pool.GetFloat64Slice(n)
//	defer pool.PutFloat64Slice(vals)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, if non-nil, is called before returning an object to
// the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the total number of objects created and the number
// currently checked out.
func (p *Pool[T]) Stats() (allocated, inUse int64) {
	return atomic.LoadInt64(&p.stats.allocated), atomic.LoadInt64(&p.stats.inUse)
}

// float64SlicePool pools kernel scratch slices by capacity bucket.
var float64SlicePool = New(
	func() []float64 {
		return make([]float64, 0, 1024)
	},
	nil,
)

// GetFloat64Slice returns a float64 slice with the requested length.
// Contents are zeroed.
func GetFloat64Slice(n int) []float64 {
	s := float64SlicePool.Get()
	if cap(s) < n {
		float64SlicePool.Put(s)
		return make([]float64, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

// PutFloat64Slice returns a slice obtained from GetFloat64Slice.
func PutFloat64Slice(s []float64) {
	float64SlicePool.Put(s[:0])
}
