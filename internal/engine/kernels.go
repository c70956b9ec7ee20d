package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/frame"
)

// chunks splits [0, n) into ChunkSize-sized ranges
func (e *Engine) chunks(n int) [][2]int {
	size := e.config.ChunkSize
	if size <= 0 {
		size = 65536
	}

	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// shiftSum computes the sum of the lag-1 shift of s with missing slots
// skipped. Small inputs run serially through the series transform; large
// inputs accumulate per-chunk partial sums across workers.
func (e *Engine) shiftSum(ctx context.Context, s *frame.Series) (float64, error) {
	n := s.Len()
	if n <= e.config.ParallelThreshold {
		return s.Shift(1).Sum(), nil
	}

	chunks := e.chunks(n)
	partials := make([]float64, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for ci, ch := range chunks {
		ci, ch := ci, ch
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeTimeout, "shift sum cancelled")
			}

			lo, hi := ch[0], ch[1]
			if lo == 0 {
				lo = 1 // slot 0 of the shifted series is missing
			}

			var sum float64
			for i := lo; i < hi; i++ {
				if v, ok := s.Get(i - 1); ok {
					sum += v
				}
			}
			partials[ci] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total float64
	for _, p := range partials {
		total += p
	}
	return total, nil
}

// pctChange computes the period-over-period relative change of s. Small
// inputs run serially through the series transform; large inputs fill a
// shared output in disjoint chunks across workers.
func (e *Engine) pctChange(ctx context.Context, s *frame.Series) (*frame.Series, error) {
	n := s.Len()
	if n <= e.config.ParallelThreshold {
		return s.PctChange(), nil
	}

	values := make([]float64, n)
	valid := make([]bool, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for _, ch := range e.chunks(n) {
		ch := ch
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeTimeout, "pct change cancelled")
			}

			lo, hi := ch[0], ch[1]
			if lo == 0 {
				lo = 1 // slot 0 has no predecessor
			}

			for i := lo; i < hi; i++ {
				cur, okCur := s.Get(i)
				prev, okPrev := s.Get(i - 1)
				if okCur && okPrev {
					values[i] = (cur - prev) / prev
					valid[i] = true
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := frame.NewMaskedSeries(s.Name(), values, valid)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCompute, "failed to assemble pct change result")
	}
	return out, nil
}
