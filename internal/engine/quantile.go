package engine

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/pool"
)

// sampleTotal bounds the number of elements drawn when estimating
// selection bounds for large inputs.
const sampleTotal = 100_000

// selectKth returns the k-th smallest element of data (0-based). Inputs
// below SelectionThreshold are selected directly; larger inputs are
// narrowed by sampled lower/upper bounds: the data is partitioned around
// the bounds, partition sizes are counted across workers, and selection
// recurses into the partition that holds k.
func (e *Engine) selectKth(ctx context.Context, data []float64, k int64) (float64, error) {
	for {
		total := int64(len(data))
		if k < 0 || k >= total {
			return 0, errors.Newf(errors.ErrorTypeValidation, "rank %d out of range for %d values", k, total)
		}

		if total < e.config.SelectionThreshold {
			buf := pool.GetFloat64Slice(len(data))
			copy(buf, data)
			v := quickselect(buf, int(k))
			pool.PutFloat64Slice(buf)
			return v, nil
		}

		k1Val, k2Val := e.kthBounds(data, k)

		l0, l1, l2, err := e.partitionCounts(ctx, data, k1Val, k2Val)
		if err != nil {
			return 0, err
		}

		// If the last set holds more elements than remain past k,
		// the upper bound already is the k-th value.
		if l2 > total-k {
			return k2Val, nil
		}

		var next []float64
		switch {
		case k < l0:
			next = filterLess(data, k1Val)
		case k < l0+l1:
			next = filterBetween(data, k1Val, k2Val)
			k -= l0
		default:
			next = filterGreaterEq(data, k2Val)
			k -= l0 + l1
		}

		// Duplicate-heavy data can collapse the sampled bounds onto a
		// single value, leaving the working set unchanged. Select
		// directly instead of looping forever.
		if int64(len(next)) == total {
			buf := pool.GetFloat64Slice(len(next))
			copy(buf, next)
			v := quickselect(buf, int(k))
			pool.PutFloat64Slice(buf)
			return v, nil
		}
		data = next
	}
}

// kthBounds estimates values bracketing the k-th element from a random
// sample. The bracket width grows with sqrt(sampleSize * ln(total)) so
// the true k-th value falls inside with high probability.
func (e *Engine) kthBounds(data []float64, k int64) (float64, float64) {
	total := int64(len(data))

	sampleSize := int64(sampleTotal)
	if sampleSize > total {
		sampleSize = total
	}

	rng := rand.New(rand.NewSource(e.config.Seed)) //nolint:gosec // G404: Sampling for bound estimation, not cryptographic
	sample := make([]float64, sampleSize)
	for i := range sample {
		sample[i] = data[rng.Int63n(total)]
	}

	localK := int64(float64(k) * (float64(sampleSize) / float64(total)))
	width := int64(math.Sqrt(float64(sampleSize) * math.Log(float64(total))))

	k1 := localK - width
	if k1 < 0 {
		k1 = 0
	}
	k2 := localK + width
	if k2 > sampleSize-1 {
		k2 = sampleSize - 1
	}

	k1Val := quickselect(sample, int(k1))
	k2Val := quickselect(sample, int(k2))
	return k1Val, k2Val
}

// partitionCounts counts, across workers, how many elements fall below
// the lower bound, between the bounds, and at or above the upper bound.
func (e *Engine) partitionCounts(ctx context.Context, data []float64, k1Val, k2Val float64) (int64, int64, int64, error) {
	chunks := e.chunks(len(data))

	type counts struct{ l0, l1, l2 int64 }
	partials := make([]counts, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for ci, ch := range chunks {
		ci, ch := ci, ch
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeTimeout, "quantile cancelled")
			}

			var c counts
			for _, v := range data[ch[0]:ch[1]] {
				switch {
				case v < k1Val:
					c.l0++
				case v < k2Val:
					c.l1++
				default:
					c.l2++
				}
			}
			partials[ci] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, 0, err
	}

	var l0, l1, l2 int64
	for _, c := range partials {
		l0 += c.l0
		l1 += c.l1
		l2 += c.l2
	}
	return l0, l1, l2, nil
}

func filterLess(data []float64, bound float64) []float64 {
	out := make([]float64, 0, len(data)/2)
	for _, v := range data {
		if v < bound {
			out = append(out, v)
		}
	}
	return out
}

func filterBetween(data []float64, lo, hi float64) []float64 {
	out := make([]float64, 0, len(data)/2)
	for _, v := range data {
		if v >= lo && v < hi {
			out = append(out, v)
		}
	}
	return out
}

func filterGreaterEq(data []float64, bound float64) []float64 {
	out := make([]float64, 0, len(data)/2)
	for _, v := range data {
		if v >= bound {
			out = append(out, v)
		}
	}
	return out
}

// quickselect partially orders a in place and returns its k-th smallest
// element using Hoare partitioning with median-of-three pivots.
func quickselect(a []float64, k int) float64 {
	lo, hi := 0, len(a)-1
	for lo < hi {
		pivot := medianOfThree(a, lo, hi)

		i, j := lo, hi
		for i <= j {
			for a[i] < pivot {
				i++
			}
			for a[j] > pivot {
				j--
			}
			if i <= j {
				a[i], a[j] = a[j], a[i]
				i++
				j--
			}
		}

		if k <= j {
			hi = j
		} else if k >= i {
			lo = i
		} else {
			break
		}
	}
	return a[k]
}

func medianOfThree(a []float64, lo, hi int) float64 {
	mid := lo + (hi-lo)/2
	x, y, z := a[lo], a[mid], a[hi]
	if x > y {
		x, y = y, x
	}
	if y > z {
		y = z
	}
	if x > y {
		y = x
	}
	return y
}
