package transform

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// PercentileRank replaces every present cell with its rank among the
// present cells of its row, divided by their count k. Ranks are distinct
// integers 1..k: equal values are ordered by column position, so the first
// of two ties gets the lower rank. Rows with no present cells come back
// entirely missing.
func PercentileRank(t *frame.Table, opts ...Option) *frame.Table {
	o := buildOptions(opts)
	rows, cols := t.Shape()
	out := newColumns(rows, cols)

	forEachChunk(rows, o.parallelism, func(lo, hi int) {
		vals := make([]float64, 0, cols)
		idx := make([]int, 0, cols)
		order := make([]int, 0, cols)

		for i := lo; i < hi; i++ {
			vals, idx = gatherRow(t, i, vals[:0], idx[:0])
			k := len(vals)
			if k == 0 {
				continue
			}

			order = order[:0]
			for p := range vals {
				order = append(order, p)
			}
			slices.SortStableFunc(order, func(a, b int) int {
				return cmp.Compare(vals[a], vals[b])
			})

			for r, p := range order {
				out[idx[p]][i] = frame.Value(float64(r+1) / float64(k))
			}
		}
	})

	return build(t.Names(), out)
}

// ZScore standardizes each row over its present cells using the row mean
// and the sample standard deviation. Every row needs at least two present
// cells; the first row that does not fails the whole call. A row of equal
// values has zero deviation and yields NaN cells.
func ZScore(t *frame.Table, opts ...Option) (*frame.Table, error) {
	o := buildOptions(opts)
	rows, cols := t.Shape()

	for i := 0; i < rows; i++ {
		if k := presentInRow(t, i); k < 2 {
			return nil, apperrors.NewInsufficientDataError(
				"z-score needs at least 2 values per row, row %d has %d", i, k,
			).WithContext("row", i)
		}
	}

	out := newColumns(rows, cols)
	forEachChunk(rows, o.parallelism, func(lo, hi int) {
		vals := make([]float64, 0, cols)
		idx := make([]int, 0, cols)

		for i := lo; i < hi; i++ {
			vals, idx = gatherRow(t, i, vals[:0], idx[:0])
			mean, std := stat.MeanStdDev(vals, nil)
			for p, v := range vals {
				out[idx[p]][i] = frame.Value((v - mean) / std)
			}
		}
	})

	return build(t.Names(), out), nil
}

// RowAverage returns the mean of the present cells of each row, or missing
// for rows without any.
func RowAverage(t *frame.Table, opts ...Option) []frame.Cell {
	o := buildOptions(opts)
	rows, cols := t.Shape()
	out := make([]frame.Cell, rows)

	forEachChunk(rows, o.parallelism, func(lo, hi int) {
		vals := make([]float64, 0, cols)
		idx := make([]int, 0, cols)

		for i := lo; i < hi; i++ {
			vals, idx = gatherRow(t, i, vals[:0], idx[:0])
			if len(vals) == 0 {
				continue
			}
			out[i] = frame.Value(stat.Mean(vals, nil))
		}
	})

	return out
}
