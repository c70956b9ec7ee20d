// Package testutil provides testing utilities for Strata
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/strata/pkg/frame"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RequireSeriesEqual fails the test immediately unless the two series have
// the same length and agree slot by slot, missing slots included.
func RequireSeriesEqual(t *testing.T, expected, actual *frame.Series) {
	t.Helper()

	if expected.Len() != actual.Len() {
		t.Fatalf("series length mismatch: expected %d, got %d", expected.Len(), actual.Len())
	}

	for i := 0; i < expected.Len(); i++ {
		want, wantOK := expected.Get(i)
		got, gotOK := actual.Get(i)
		if wantOK != gotOK {
			t.Fatalf("slot %d: expected present=%v, got present=%v", i, wantOK, gotOK)
		}
		if wantOK && want != got {
			t.Fatalf("slot %d: expected %v, got %v", i, want, got)
		}
	}
}
