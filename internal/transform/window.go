package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// mapColumns runs fn on every column. fn reads in and writes out, which
// starts all missing and has the same length.
func mapColumns(t *frame.Table, o options, fn func(in, out []frame.Cell)) *frame.Table {
	rows, cols := t.Shape()
	out := newColumns(rows, cols)

	forEachChunk(cols, o.parallelism, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			fn(t.ColumnAt(j), out[j])
		}
	})

	return build(t.Names(), out)
}

func checkWindow(op string, w int) error {
	if w < 1 {
		return apperrors.NewInvalidArgumentError("%s window must be at least 1, got %d", op, w).
			WithContext("window", w)
	}
	return nil
}

// rolling applies agg to every full trailing window of w present values.
// Positions before the first full window, and windows holding a missing
// cell, stay missing.
func rolling(t *frame.Table, w int, o options, agg func([]float64) float64) *frame.Table {
	return mapColumns(t, o, func(in, out []frame.Cell) {
		if w > len(in) {
			return
		}
		buf := make([]float64, 0, w)
		for i := w - 1; i < len(in); i++ {
			vals, ok := fullWindow(in, i-w+1, i+1, buf)
			if ok {
				out[i] = frame.Value(agg(vals))
			}
		}
	})
}

// RollingMax computes the maximum over each trailing window of w rows.
func RollingMax(t *frame.Table, w int, opts ...Option) (*frame.Table, error) {
	if err := checkWindow("rolling max", w); err != nil {
		return nil, err
	}
	return rolling(t, w, buildOptions(opts), floats.Max), nil
}

// RollingStd computes the sample standard deviation over each trailing
// window of w rows. A window of one row has no sample deviation, so w must
// be at least 2.
func RollingStd(t *frame.Table, w int, opts ...Option) (*frame.Table, error) {
	if err := checkWindow("rolling std", w); err != nil {
		return nil, err
	}
	if w == 1 {
		return nil, apperrors.NewInsufficientDataError("rolling std needs a window of at least 2 rows").
			WithContext("window", w)
	}
	return rolling(t, w, buildOptions(opts), func(vals []float64) float64 {
		return stat.StdDev(vals, nil)
	}), nil
}

// PctChange computes the relative change against the value w rows earlier.
// The first w rows are missing, as is any row whose base value is missing
// or zero.
func PctChange(t *frame.Table, w int, opts ...Option) (*frame.Table, error) {
	if err := checkWindow("pct change", w); err != nil {
		return nil, err
	}
	return mapColumns(t, buildOptions(opts), func(in, out []frame.Cell) {
		for i := w; i < len(in); i++ {
			prev := in[i-w]
			if p, ok := prev.Float(); !ok || p == 0 {
				continue
			}
			out[i] = in[i].Sub(prev).Div(prev)
		}
	}), nil
}

// Shift moves every column down by s rows (a lag) or up by -s rows (a
// lead). Rows with no source take the fill value, see WithFill.
func Shift(t *frame.Table, s int, opts ...Option) *frame.Table {
	o := buildOptions(opts)
	return mapColumns(t, o, func(in, out []frame.Cell) {
		for i := range out {
			src := i - s
			if src < 0 || src >= len(in) {
				out[i] = o.fill
				continue
			}
			out[i] = in[src]
		}
	})
}
