package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayload = bytes.Repeat([]byte(`{"A":1,"A_pct_change":null,"B":0.37}`), 256)

func TestRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		t.Run(string(alg), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
			require.NoError(t, err)
			assert.Equal(t, alg, comp.Algorithm())

			compressed, err := comp.Compress(testPayload)
			require.NoError(t, err)
			if alg != None {
				assert.Less(t, len(compressed), len(testPayload))
			}

			decompressed, err := comp.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, testPayload, decompressed)
		})
	}
}

func TestStreamRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Gzip, Zstd, LZ4} {
		t.Run(string(alg), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: alg, Level: Fastest})
			require.NoError(t, err)

			var compressed bytes.Buffer
			require.NoError(t, comp.CompressStream(&compressed, bytes.NewReader(testPayload)))

			var decompressed bytes.Buffer
			require.NoError(t, comp.DecompressStream(&decompressed, bytes.NewReader(compressed.Bytes())))
			assert.Equal(t, testPayload, decompressed.Bytes())
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	comp, err := NewCompressor(nil)
	require.NoError(t, err)

	compressed, err := comp.Compress(nil)
	require.NoError(t, err)

	decompressed, err := comp.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestConcurrentCompress(t *testing.T) {
	comp, err := NewCompressor(&Config{Algorithm: Zstd, Level: Default})
	require.NoError(t, err)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				compressed, err := comp.Compress(testPayload)
				if err != nil {
					done <- err
					return
				}
				decompressed, err := comp.Decompress(compressed)
				if err != nil {
					done <- err
					return
				}
				if !bytes.Equal(testPayload, decompressed) {
					done <- assert.AnError
					return
				}
			}
			done <- nil
		}()
	}

	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("zstd")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	_, err = ParseAlgorithm("brotli")
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Zstd, cfg.Algorithm)
	assert.Equal(t, Default, cfg.Level)
}
