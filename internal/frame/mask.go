package frame

import (
	"slices"

	apperrors "factorframe/internal/errors"
)

// BoolTable is a rectangular table of booleans used to select cells.
// It has no missing marker.
type BoolTable struct {
	names []string
	cols  [][]bool
	rows  int
}

// NewBoolTable builds a boolean table, copying cols.
func NewBoolTable(names []string, cols [][]bool) (*BoolTable, error) {
	if len(names) != len(cols) {
		return nil, apperrors.NewDimensionMismatchError("%d names for %d mask columns", len(names), len(cols))
	}
	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	out := make([][]bool, len(cols))
	for j, c := range cols {
		if len(c) != rows {
			return nil, apperrors.NewDimensionMismatchError(
				"mask column %q has %d rows, expected %d", names[j], len(c), rows)
		}
		out[j] = slices.Clone(c)
	}
	return &BoolTable{names: slices.Clone(names), cols: out, rows: rows}, nil
}

// Fill returns a rows x len(names) boolean table with every cell set to v.
func Fill(names []string, rows int, v bool) *BoolTable {
	cols := make([][]bool, len(names))
	for j := range cols {
		cols[j] = make([]bool, rows)
		if v {
			for i := range cols[j] {
				cols[j][i] = true
			}
		}
	}
	return &BoolTable{names: slices.Clone(names), cols: cols, rows: rows}
}

// MaskWhere evaluates pred on every cell of t.
func MaskWhere(t *Table, pred func(Cell) bool) *BoolTable {
	cols := make([][]bool, len(t.cols))
	for j, col := range t.cols {
		cols[j] = make([]bool, len(col))
		for i, c := range col {
			cols[j][i] = pred(c)
		}
	}
	return &BoolTable{names: t.Names(), cols: cols, rows: t.rows}
}

// Names returns the column names in order.
func (b *BoolTable) Names() []string { return slices.Clone(b.names) }

// Shape returns (rows, columns).
func (b *BoolTable) Shape() (int, int) { return b.rows, len(b.names) }

// At returns the flag at row i, column j.
func (b *BoolTable) At(i, j int) bool { return b.cols[j][i] }

// ColumnAt returns a copy of the j-th column.
func (b *BoolTable) ColumnAt(j int) []bool { return slices.Clone(b.cols[j]) }
