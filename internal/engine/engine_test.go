package engine

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/frame"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func newTestEngine() *Engine {
	return New(DefaultConfig(), zap.NewNop())
}

func TestShiftSum(t *testing.T) {
	eng := newTestEngine()

	tests := []struct {
		name string
		n    int
		want float64
	}{
		{"single row", 1, 0.0},
		{"two rows", 2, 1.0},
		{"ten rows", 10, 45.0},
		{"hundred rows", 100, 4950.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.ShiftSum(context.Background(), tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftSumInvalidSize(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.ShiftSum(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = eng.ShiftSum(context.Background(), -3)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestPctChange(t *testing.T) {
	eng := newTestEngine()

	pct, err := eng.PctChange(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 10, pct.Len())

	assert.True(t, pct.IsMissing(0))
	for i := 1; i < 10; i++ {
		v, ok := pct.Get(i)
		require.True(t, ok, "row %d should be present", i)
		assert.InDelta(t, 1.0/float64(i), v, 1e-12)
	}
}

func TestPctChangeIdempotent(t *testing.T) {
	eng := newTestEngine()

	first, err := eng.PctChange(context.Background(), 50)
	require.NoError(t, err)
	second, err := eng.PctChange(context.Background(), 50)
	require.NoError(t, err)

	assert.Equal(t, first.Values(), second.Values())
}

func TestParallelKernelsMatchSerial(t *testing.T) {
	// Force the parallel path with tiny chunks
	cfg := DefaultConfig()
	cfg.ParallelThreshold = 8
	cfg.ChunkSize = 16
	cfg.Workers = 4
	parallel := New(cfg, testutil.TestLogger(t))

	serial := newTestEngine()

	const n = 1000

	wantSum, err := serial.ShiftSum(context.Background(), n)
	require.NoError(t, err)
	gotSum, err := parallel.ShiftSum(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, wantSum, gotSum)

	wantPct, err := serial.PctChange(context.Background(), n)
	require.NoError(t, err)
	gotPct, err := parallel.PctChange(context.Background(), n)
	require.NoError(t, err)

	assert.True(t, gotPct.IsMissing(0))
	testutil.RequireSeriesEqual(t, wantPct, gotPct)
}

func TestShiftSumCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParallelThreshold = 8
	cfg.ChunkSize = 16
	eng := New(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.ShiftSum(ctx, 1000)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}

func TestQuantile(t *testing.T) {
	eng := newTestEngine()

	s, err := frame.RandomSeries("B", 5000, 11)
	require.NoError(t, err)

	values := make([]float64, s.Len())
	copy(values, s.Values())
	sort.Float64s(values)

	tests := []struct {
		name string
		q    float64
	}{
		{"min", 0.0},
		{"lower quartile", 0.25},
		{"median", 0.5},
		{"upper quartile", 0.75},
		{"max", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.Quantile(context.Background(), s, tt.q)
			require.NoError(t, err)

			k := int(tt.q * float64(len(values)))
			if k >= len(values) {
				k = len(values) - 1
			}
			assert.Equal(t, values[k], got)
		})
	}
}

func TestQuantileInvalidInput(t *testing.T) {
	eng := newTestEngine()

	s, err := frame.RangeSeries("A", 10)
	require.NoError(t, err)

	_, err = eng.Quantile(context.Background(), s, -0.1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = eng.Quantile(context.Background(), s, 1.5)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	empty, err := frame.NewMaskedSeries("A", []float64{1, 2}, []bool{false, false})
	require.NoError(t, err)
	_, err = eng.Quantile(context.Background(), empty, 0.5)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestQuantileSkipsMissing(t *testing.T) {
	eng := newTestEngine()

	s, err := frame.NewMaskedSeries("A",
		[]float64{100, 1, 2, 3, 200},
		[]bool{false, true, true, true, false})
	require.NoError(t, err)

	// Median of the present values {1, 2, 3}
	got, err := eng.Quantile(context.Background(), s, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestBuildFrame(t *testing.T) {
	eng := newTestEngine()

	f, err := eng.BuildFrame(100)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, f.Columns())
	assert.Equal(t, 100, f.NumRows())

	a, _ := f.Column("A")
	v, ok := a.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	b, _ := f.Column("B")
	for i := 0; i < b.Len(); i++ {
		v, ok := b.Get(i)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
