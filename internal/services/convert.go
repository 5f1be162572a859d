package services

import (
	"factorframe/internal/frame"
	api "factorframe/pkg/contracts/api/v1"
)

// TableFromContract builds a frame table from its JSON form.
func TableFromContract(in api.Table) (*frame.Table, error) {
	names := make([]string, len(in.Columns))
	cols := make([][]frame.Cell, len(in.Columns))
	for j, c := range in.Columns {
		names[j] = c.Name
		cells := make([]frame.Cell, len(c.Values))
		for i, v := range c.Values {
			if v.Valid {
				cells[i] = frame.Value(v.Value)
			}
		}
		cols[j] = cells
	}
	return frame.FromColumns(names, cols)
}

// TableToContract is the inverse of TableFromContract.
func TableToContract(t *frame.Table) api.Table {
	out := api.Table{Columns: make([]api.Column, t.NumCols())}
	for j, name := range t.Names() {
		out.Columns[j] = api.Column{Name: name, Values: cellsToContract(t.ColumnAt(j))}
	}
	return out
}

// BoolTableFromContract builds a mask from its JSON form.
func BoolTableFromContract(in api.BoolTable) (*frame.BoolTable, error) {
	names := make([]string, len(in.Columns))
	cols := make([][]bool, len(in.Columns))
	for j, c := range in.Columns {
		names[j] = c.Name
		cols[j] = c.Values
	}
	return frame.NewBoolTable(names, cols)
}

func cellsToContract(cells []frame.Cell) []api.Cell {
	out := make([]api.Cell, len(cells))
	for i, c := range cells {
		if v, ok := c.Float(); ok {
			out[i] = api.Number(v)
		}
	}
	return out
}
