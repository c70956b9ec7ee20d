// Package frame provides columnar frames and series transforms for Strata
package frame

import (
	"math"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ajitpratap0/strata/pkg/errors"
)

// Series is a named float64 column with a bit-packed validity bitmap.
// Missing values are tracked out-of-band so that NaN payloads produced by
// arithmetic are preserved independently of missingness. All transforms
// return a fresh Series and never mutate the receiver.
type Series struct {
	name     string
	values   []float64
	validity []uint64 // Bit-packed: 64 slots per uint64, 1 = present
}

// NewSeries creates a series from values with every slot marked present.
func NewSeries(name string, values []float64) *Series {
	s := &Series{
		name:     name,
		values:   values,
		validity: make([]uint64, (len(values)+63)/64),
	}
	for i := range values {
		s.setValid(i)
	}
	return s
}

// RangeSeries creates a series holding the integers 1..n as floats.
func RangeSeries(name string, n int) (*Series, error) {
	if n <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "row count must be positive, got %d", n)
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i) + 1.0
	}
	return NewSeries(name, values), nil
}

// RandomSeries creates a series of n values drawn independently and
// uniformly from [0, 1). The same seed yields the same sequence.
func RandomSeries(name string, n int, seed int64) (*Series, error) {
	if n <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "row count must be positive, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // G404: Statistical data generation, not cryptographic
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.Float64()
	}
	return NewSeries(name, values), nil
}

// NewMaskedSeries creates a series from values with per-slot presence.
// values and valid must have the same length; slots where valid is false
// are missing regardless of their payload.
func NewMaskedSeries(name string, values []float64, valid []bool) (*Series, error) {
	if len(values) != len(valid) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"values have %d rows, mask has %d", len(values), len(valid))
	}

	s := &Series{
		name:     name,
		values:   values,
		validity: make([]uint64, (len(values)+63)/64),
	}
	for i, ok := range valid {
		if ok {
			s.setValid(i)
		}
	}
	return s, nil
}

// newEmptyLike allocates a same-length series with every slot missing.
func newEmptyLike(name string, n int) *Series {
	return &Series{
		name:     name,
		values:   make([]float64, n),
		validity: make([]uint64, (n+63)/64),
	}
}

// Name returns the series name
func (s *Series) Name() string { return s.name }

// WithName returns a copy of the series under a new name, sharing storage
func (s *Series) WithName(name string) *Series {
	return &Series{
		name:     name,
		values:   s.values,
		validity: s.validity,
	}
}

// Len returns the number of rows
func (s *Series) Len() int { return len(s.values) }

// Get returns the value at index i and whether it is present.
func (s *Series) Get(i int) (float64, bool) {
	if s.IsMissing(i) {
		return 0, false
	}
	return s.values[i], true
}

// IsMissing reports whether the slot at index i holds no value.
func (s *Series) IsMissing(i int) bool {
	return s.validity[i/64]&(1<<(i%64)) == 0
}

// Values returns the underlying value slice. Missing slots hold
// unspecified payloads; consult IsMissing before trusting an element.
func (s *Series) Values() []float64 {
	return s.values
}

func (s *Series) setValid(i int) {
	s.validity[i/64] |= 1 << (i % 64)
}

func (s *Series) set(i int, v float64) {
	s.values[i] = v
	s.setValid(i)
}

// Count returns the number of present values
func (s *Series) Count() int {
	count := 0
	for _, word := range s.validity {
		count += bits.OnesCount64(word)
	}
	// Trailing bits past Len are never set, so no correction needed
	return count
}

// Shift returns a series lagged by periods rows. A positive periods moves
// values toward higher indices, leaving the first periods slots missing;
// a negative periods moves values toward lower indices. Missing inputs
// stay missing in the output.
func (s *Series) Shift(periods int) *Series {
	n := s.Len()
	out := newEmptyLike(s.name, n)

	for i := 0; i < n; i++ {
		src := i - periods
		if src < 0 || src >= n {
			continue
		}
		if v, ok := s.Get(src); ok {
			out.set(i, v)
		}
	}
	return out
}

// Diff returns the first difference of the series. The first element is
// missing, as is any element whose operand is missing.
func (s *Series) Diff() *Series {
	n := s.Len()
	out := newEmptyLike(s.name, n)

	for i := 1; i < n; i++ {
		cur, okCur := s.Get(i)
		prev, okPrev := s.Get(i - 1)
		if okCur && okPrev {
			out.set(i, cur-prev)
		}
	}
	return out
}

// PctChange returns the relative change between consecutive values,
// (v[i]-v[i-1])/v[i-1]. The first element is missing, as is any element
// whose operand is missing. A zero predecessor yields an IEEE infinity
// or NaN rather than a missing slot.
func (s *Series) PctChange() *Series {
	n := s.Len()
	out := newEmptyLike(s.name, n)

	for i := 1; i < n; i++ {
		cur, okCur := s.Get(i)
		prev, okPrev := s.Get(i - 1)
		if okCur && okPrev {
			out.set(i, (cur-prev)/prev)
		}
	}
	return out
}

// Sum returns the sum of present values. Missing slots are skipped; a
// series with no present values sums to 0.
func (s *Series) Sum() float64 {
	var total float64
	for i, v := range s.values {
		if !s.IsMissing(i) {
			total += v
		}
	}
	return total
}

// Mean returns the mean of present values, or NaN when none are present.
func (s *Series) Mean() float64 {
	count := s.Count()
	if count == 0 {
		return math.NaN()
	}
	return s.Sum() / float64(count)
}

// Min returns the smallest present value, or NaN when none are present.
func (s *Series) Min() float64 {
	min := math.NaN()
	for i, v := range s.values {
		if s.IsMissing(i) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest present value, or NaN when none are present.
func (s *Series) Max() float64 {
	max := math.NaN()
	for i, v := range s.values {
		if s.IsMissing(i) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// MemoryUsage returns the series footprint in bytes
func (s *Series) MemoryUsage() int64 {
	return int64(len(s.values)*8 + len(s.validity)*8)
}

// String renders the series one row per line with NaN for missing slots
func (s *Series) String() string {
	var b strings.Builder
	for i, v := range s.values {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('\t')
		if s.IsMissing(i) {
			b.WriteString("NaN")
		} else {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
