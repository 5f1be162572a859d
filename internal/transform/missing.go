package transform

import "factorframe/internal/frame"

// gatherRow appends the present values of row i to vals and their column
// positions to idx.
func gatherRow(t *frame.Table, i int, vals []float64, idx []int) ([]float64, []int) {
	for j := 0; j < t.NumCols(); j++ {
		if v, ok := t.At(i, j).Float(); ok {
			vals = append(vals, v)
			idx = append(idx, j)
		}
	}
	return vals, idx
}

// presentInRow counts the present cells of row i.
func presentInRow(t *frame.Table, i int) int {
	k := 0
	for j := 0; j < t.NumCols(); j++ {
		if !t.At(i, j).IsMissing() {
			k++
		}
	}
	return k
}

// fullWindow copies col[start:end] into buf. ok is false when any cell in
// the window is missing, in which case buf holds partial data.
func fullWindow(col []frame.Cell, start, end int, buf []float64) (vals []float64, ok bool) {
	buf = buf[:0]
	for _, c := range col[start:end] {
		v, present := c.Float()
		if !present {
			return buf, false
		}
		buf = append(buf, v)
	}
	return buf, true
}
