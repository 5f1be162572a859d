package transform

import (
	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// Mask keeps the cells of data where mask is true and blanks the rest.
// Column names are taken from data.
func Mask(data *frame.Table, mask *frame.BoolTable) (*frame.Table, error) {
	if !data.SameShape(mask) {
		dr, dc := data.Shape()
		mr, mc := mask.Shape()
		return nil, apperrors.NewDimensionMismatchError(
			"mask shape %dx%d does not match data shape %dx%d", mr, mc, dr, dc,
		)
	}

	rows, cols := data.Shape()
	out := newColumns(rows, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if mask.At(i, j) {
				out[j][i] = data.At(i, j)
			}
		}
	}
	return build(data.Names(), out), nil
}

// Between reports whether a present cell lies in [lo, hi]. Missing cells
// never match.
func Between(lo, hi float64) func(frame.Cell) bool {
	return func(c frame.Cell) bool {
		v, ok := c.Float()
		return ok && v >= lo && v <= hi
	}
}
