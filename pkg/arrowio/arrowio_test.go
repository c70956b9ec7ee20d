package arrowio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/frame"
)

func TestRoundTrip(t *testing.T) {
	a, err := frame.RangeSeries("A", 100)
	require.NoError(t, err)
	b, err := frame.RandomSeries("B", 100, 42)
	require.NoError(t, err)

	f, err := frame.New(a, b)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, got.Columns())
	assert.Equal(t, 100, got.NumRows())

	for _, name := range f.Columns() {
		want, _ := f.Column(name)
		col, ok := got.Column(name)
		require.True(t, ok)
		assert.Equal(t, want.Values(), col.Values(), "column %s", name)
	}
}

func TestRoundTripMissing(t *testing.T) {
	s, err := frame.NewMaskedSeries("pct",
		[]float64{0, 1.0, 0.5, 0, 0.25},
		[]bool{false, true, true, false, true})
	require.NoError(t, err)

	f, err := frame.New(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, 5, got.NumRows())

	col, ok := got.Column("pct")
	require.True(t, ok)

	assert.True(t, col.IsMissing(0))
	assert.True(t, col.IsMissing(3))
	for _, i := range []int{1, 2, 4} {
		v, present := col.Get(i)
		require.True(t, present, "row %d should be present", i)
		want, _ := s.Get(i)
		assert.Equal(t, want, v)
	}
}

func TestRoundTripMultipleBatches(t *testing.T) {
	const rows = batchSize + 100

	a, err := frame.RangeSeries("A", rows)
	require.NoError(t, err)
	f, err := frame.New(a)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, rows, got.NumRows())

	col, _ := got.Column("A")
	first, _ := col.Get(0)
	last, _ := col.Get(rows - 1)
	assert.Equal(t, 1.0, first)
	assert.Equal(t, float64(rows), last)
}

func TestReadFrameGarbage(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte("not arrow data")))
	require.Error(t, err)
}
