package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeValidation, "size must be positive")

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "validation: size must be positive", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeData, "column %q not found", "A")
	assert.Equal(t, `data: column "A" not found`, err.Error())
}

func TestWrap(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorTypeFile, "failed to read frame")

	assert.Equal(t, ErrorTypeFile, err.Type)
	assert.Contains(t, err.Error(), "failed to read frame")
	assert.Contains(t, err.Error(), io.ErrUnexpectedEOF.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeCompute, "kernel failed")
	outer := Wrap(inner, ErrorTypeInternal, "operation failed")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, errors.Is(outer, inner))
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeTimeout, "deadline exceeded")

	assert.True(t, IsType(err, ErrorTypeTimeout))
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(io.EOF, ErrorTypeTimeout))
	assert.False(t, IsType(nil, ErrorTypeTimeout))

	wrapped := Wrap(err, ErrorTypeInternal, "outer")
	assert.True(t, IsType(wrapped, ErrorTypeInternal))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "bad input").
		WithDetail("rows", 0).
		WithDetail("column", "A")

	assert.Equal(t, 0, err.Details["rows"])
	assert.Equal(t, "A", err.Details["column"])
}
