package transform

import (
	"golang.org/x/sync/errgroup"

	"factorframe/internal/frame"
)

// Option configures a transform call.
type Option func(*options)

type options struct {
	parallelism int
	fill        frame.Cell
}

// WithParallelism spreads the work over n goroutines: rows for the row-wise
// transforms, columns for the window transforms. Values below 2 run
// sequentially. Results do not depend on n.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithFill sets the value Shift writes into vacated rows. The default is
// the missing marker.
func WithFill(c frame.Cell) Option {
	return func(o *options) {
		o.fill = c
	}
}

func buildOptions(opts []Option) options {
	o := options{parallelism: 1, fill: frame.Missing()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// forEachChunk calls fn over contiguous [lo, hi) ranges covering [0, n).
// Each range is handled by exactly one goroutine, so fn may write to
// per-index output slots without locking.
func forEachChunk(n, parallelism int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	if parallelism < 2 || n == 1 {
		fn(0, n)
		return
	}
	if parallelism > n {
		parallelism = n
	}

	size := (n + parallelism - 1) / parallelism
	var g errgroup.Group
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// chunks never fail
	_ = g.Wait()
}

// newColumns allocates an all-missing rows x cols output buffer.
func newColumns(rows, cols int) [][]frame.Cell {
	out := make([][]frame.Cell, cols)
	for j := range out {
		out[j] = make([]frame.Cell, rows)
	}
	return out
}

// build wraps engine output. The names come from a valid table and every
// column has its row count, so construction cannot fail.
func build(names []string, cols [][]frame.Cell) *frame.Table {
	t, err := frame.FromColumns(names, cols)
	if err != nil {
		panic("transform: output table invariant violated: " + err.Error())
	}
	return t
}
