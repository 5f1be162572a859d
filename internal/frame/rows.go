package frame

import "iter"

// Row returns a fresh slice with the cells of row i across all columns.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.cols))
	for j, col := range t.cols {
		row[j] = col[i]
	}
	return row
}

// Rows yields each row index with its cells. The yielded slice is reused
// between iterations and must not be retained.
func (t *Table) Rows() iter.Seq2[int, []Cell] {
	return func(yield func(int, []Cell) bool) {
		buf := make([]Cell, len(t.cols))
		for i := 0; i < t.rows; i++ {
			for j, col := range t.cols {
				buf[j] = col[i]
			}
			if !yield(i, buf) {
				return
			}
		}
	}
}
