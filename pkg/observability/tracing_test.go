package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestShutdownBeforeInit(t *testing.T) {
	// Shutdown must be safe for commands that never enabled tracing
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInitAndShutdown(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.SamplingRate = 0 // Keep test output free of exported spans

	require.NoError(t, Init(cfg))
	require.NotNil(t, provider)
	require.NotNil(t, GetTracer())

	ctx, span := StartSpan(context.Background(), "test.op", attribute.Int("rows", 1))
	require.NotNil(t, ctx)
	span.End()

	// Shutdown flushes the batch exporter so short-lived processes do
	// not drop spans
	assert.NoError(t, Shutdown(context.Background()))
}

func TestRecordError(t *testing.T) {
	_, span := StartSpan(context.Background(), "test.op")
	defer span.End()

	RecordError(span, nil)
	RecordError(span, assert.AnError)
}
