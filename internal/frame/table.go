package frame

import (
	"fmt"
	"slices"

	apperrors "factorframe/internal/errors"
)

// Column is a named sequence of cells used to construct a Table.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an immutable, rectangular set of uniquely named columns.
type Table struct {
	names []string
	index map[string]int
	cols  [][]Cell
	rows  int
}

// New builds a table from columns, copying their cells.
func New(cols ...Column) (*Table, error) {
	names := make([]string, len(cols))
	data := make([][]Cell, len(cols))
	for j, c := range cols {
		names[j] = c.Name
		data[j] = slices.Clone(c.Cells)
	}
	return FromColumns(names, data)
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromColumns builds a table taking ownership of cols; callers must not
// modify the slices afterwards.
func FromColumns(names []string, cols [][]Cell) (*Table, error) {
	if len(names) != len(cols) {
		return nil, apperrors.NewDimensionMismatchError("%d names for %d columns", len(names), len(cols))
	}

	index := make(map[string]int, len(names))
	for j, name := range names {
		if name == "" {
			return nil, apperrors.NewInvalidArgumentError("column %d has an empty name", j)
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.NewInvalidArgumentError("duplicate column name %q", name)
		}
		index[name] = j
	}

	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	for j, c := range cols {
		if len(c) != rows {
			return nil, apperrors.NewDimensionMismatchError(
				"column %q has %d rows, expected %d", names[j], len(c), rows)
		}
	}

	return &Table{
		names: slices.Clone(names),
		index: index,
		cols:  cols,
		rows:  rows,
	}, nil
}

// FromRows builds a table from row-major cells.
func FromRows(names []string, rows [][]Cell) (*Table, error) {
	cols := make([][]Cell, len(names))
	for j := range cols {
		cols[j] = make([]Cell, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, apperrors.NewDimensionMismatchError(
				"row %d has %d cells, expected %d", i, len(row), len(names))
		}
		for j, c := range row {
			cols[j][i] = c
		}
	}
	return FromColumns(names, cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.names) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.names) }

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]Cell, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
	}
	return slices.Clone(t.cols[j]), nil
}

// ColumnAt returns a copy of the j-th column.
func (t *Table) ColumnAt(j int) []Cell {
	return slices.Clone(t.cols[j])
}

// At returns the cell at row i, column j.
func (t *Table) At(i, j int) Cell {
	return t.cols[j][i]
}

// Columns returns copies of all columns, in order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.names))
	for j, name := range t.names {
		out[j] = Column{Name: name, Cells: slices.Clone(t.cols[j])}
	}
	return out
}

// Select returns a table holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([][]Cell, len(names))
	for k, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
		}
		cols[k] = slices.Clone(t.cols[j])
	}
	return FromColumns(names, cols)
}

// SameShape reports whether o has the same row and column counts.
func (t *Table) SameShape(o interface{ Shape() (int, int) }) bool {
	r1, c1 := t.Shape()
	r2, c2 := o.Shape()
	return r1 == r2 && c1 == c2
}

// Equal reports whether o has the same names and cells, using Cell.Equal.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.rows != o.rows || !slices.Equal(t.names, o.names) {
		return false
	}
	for j := range t.cols {
		if !slices.EqualFunc(t.cols[j], o.cols[j], Cell.Equal) {
			return false
		}
	}
	return true
}

// MissingCount returns the number of missing cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, col := range t.cols {
		for _, c := range col {
			if c.IsMissing() {
				n++
			}
		}
	}
	return n
}
