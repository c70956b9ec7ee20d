package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/errors"
)

func TestRangeSeries(t *testing.T) {
	s, err := RangeSeries("A", 10)
	require.NoError(t, err)

	assert.Equal(t, "A", s.Name())
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 10, s.Count())

	first, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, first)

	last, ok := s.Get(9)
	require.True(t, ok)
	assert.Equal(t, 10.0, last)
}

func TestRangeSeriesInvalidSize(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"zero rows", 0},
		{"negative rows", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RangeSeries("A", tt.n)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestRandomSeriesDeterminism(t *testing.T) {
	s1, err := RandomSeries("B", 100, 7)
	require.NoError(t, err)
	s2, err := RandomSeries("B", 100, 7)
	require.NoError(t, err)

	assert.Equal(t, s1.Values(), s2.Values())

	for _, v := range s1.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestShift(t *testing.T) {
	s, err := RangeSeries("A", 10)
	require.NoError(t, err)

	shifted := s.Shift(1)
	assert.Equal(t, 10, shifted.Len())
	assert.True(t, shifted.IsMissing(0))

	for i := 1; i < 10; i++ {
		v, ok := shifted.Get(i)
		require.True(t, ok, "row %d should be present", i)
		assert.Equal(t, float64(i), v)
	}
}

func TestShiftVariants(t *testing.T) {
	s := NewSeries("A", []float64{1, 2, 3, 4})

	tests := []struct {
		name    string
		periods int
		want    []float64 // NaN marks missing
	}{
		{"lag two", 2, []float64{math.NaN(), math.NaN(), 1, 2}},
		{"lead one", -1, []float64{2, 3, 4, math.NaN()}},
		{"no shift", 0, []float64{1, 2, 3, 4}},
		{"lag past end", 5, []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Shift(tt.periods)
			require.Equal(t, len(tt.want), got.Len())
			for i, want := range tt.want {
				if math.IsNaN(want) {
					assert.True(t, got.IsMissing(i), "row %d should be missing", i)
				} else {
					v, ok := got.Get(i)
					require.True(t, ok, "row %d should be present", i)
					assert.Equal(t, want, v)
				}
			}
		})
	}
}

func TestShiftPropagatesMissing(t *testing.T) {
	s, err := NewMaskedSeries("A", []float64{1, 0, 3}, []bool{true, false, true})
	require.NoError(t, err)

	shifted := s.Shift(1)
	assert.True(t, shifted.IsMissing(0))
	v, ok := shifted.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	assert.True(t, shifted.IsMissing(2), "missing input should stay missing after shift")
}

func TestShiftSumMissingSkipped(t *testing.T) {
	s, err := RangeSeries("A", 10)
	require.NoError(t, err)

	// Shifted range column sums to 1+2+...+9 with the missing slot skipped
	assert.Equal(t, 45.0, s.Shift(1).Sum())
}

func TestPctChange(t *testing.T) {
	s, err := RangeSeries("A", 10)
	require.NoError(t, err)

	pct := s.PctChange()
	require.Equal(t, 10, pct.Len())
	assert.True(t, pct.IsMissing(0))

	for i := 1; i < 10; i++ {
		v, ok := pct.Get(i)
		require.True(t, ok, "row %d should be present", i)
		assert.InDelta(t, 1.0/float64(i), v, 1e-12)
	}
}

func TestPctChangeZeroPredecessor(t *testing.T) {
	s := NewSeries("A", []float64{0, 5})

	pct := s.PctChange()
	v, ok := pct.Get(1)
	require.True(t, ok, "IEEE result should be present, not missing")
	assert.True(t, math.IsInf(v, 1))
}

func TestDiff(t *testing.T) {
	s := NewSeries("A", []float64{1, 4, 9, 16})

	d := s.Diff()
	assert.True(t, d.IsMissing(0))
	for i, want := range []float64{3, 5, 7} {
		v, ok := d.Get(i + 1)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestAggregations(t *testing.T) {
	s, err := NewMaskedSeries("A", []float64{1, 99, 3, 5}, []bool{true, false, true, true})
	require.NoError(t, err)

	assert.Equal(t, 9.0, s.Sum())
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 3.0, s.Mean())
	assert.Equal(t, 1.0, s.Min())
	assert.Equal(t, 5.0, s.Max())
}

func TestAggregationsAllMissing(t *testing.T) {
	s, err := NewMaskedSeries("A", []float64{1, 2}, []bool{false, false})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Sum())
	assert.True(t, math.IsNaN(s.Mean()))
	assert.True(t, math.IsNaN(s.Min()))
	assert.True(t, math.IsNaN(s.Max()))
}

func TestNewMaskedSeriesLengthMismatch(t *testing.T) {
	_, err := NewMaskedSeries("A", []float64{1, 2}, []bool{true})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestWithName(t *testing.T) {
	s := NewSeries("A", []float64{1, 2})
	renamed := s.WithName("A_copy")

	assert.Equal(t, "A_copy", renamed.Name())
	assert.Equal(t, "A", s.Name())
	assert.Equal(t, s.Values(), renamed.Values())
}

func TestSeriesString(t *testing.T) {
	s, err := NewMaskedSeries("A", []float64{0, 2.5}, []bool{false, true})
	require.NoError(t, err)

	assert.Equal(t, "0\tNaN\n1\t2.5\n", s.String())
}

func TestCountSpansValidityWords(t *testing.T) {
	// 130 rows occupy three validity words
	values := make([]float64, 130)
	valid := make([]bool, 130)
	present := 0
	for i := range valid {
		if i%3 == 0 {
			valid[i] = true
			present++
		}
	}

	s, err := NewMaskedSeries("A", values, valid)
	require.NoError(t, err)
	assert.Equal(t, present, s.Count())
}
