package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewTimer("test")
	time.Sleep(time.Millisecond)

	first := timer.Stop()
	assert.Greater(t, first, time.Duration(0))

	// Repeated stops keep measuring from creation
	second := timer.Stop()
	assert.GreaterOrEqual(t, second, first)
}

func TestCollectorRecordOperation(t *testing.T) {
	c := NewCollector("test")
	c.RecordOperation("shift_sum", 10, time.Millisecond, nil)
	c.RecordOperation("shift_sum", 0, time.Millisecond, assert.AnError)
	c.RecordMemory(1024)
}

func TestThroughputTracker(t *testing.T) {
	tracker := NewThroughputTracker("test_op")
	tracker.Increment(500)
	tracker.Increment(500)

	time.Sleep(10 * time.Millisecond)
	rps := tracker.GetAndReset()
	assert.Greater(t, rps, 0.0)

	// Counter resets after a read
	time.Sleep(time.Millisecond)
	assert.Zero(t, tracker.GetAndReset())
}
