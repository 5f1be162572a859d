package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorframe/internal/frame"
)

// Cells converts literals into cells. nil is missing; ints and floats are
// present values.
func Cells(vals ...any) []frame.Cell {
	out := make([]frame.Cell, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = frame.Missing()
		case int:
			out[i] = frame.Value(float64(x))
		case float64:
			out[i] = frame.Value(x)
		case frame.Cell:
			out[i] = x
		default:
			panic(fmt.Sprintf("testutil: unsupported cell literal %T", v))
		}
	}
	return out
}

// Col builds a named column from literals, see Cells.
func Col(name string, vals ...any) frame.Column {
	return frame.Column{Name: name, Cells: Cells(vals...)}
}

// Table builds a table and fails the test on error.
func Table(t testing.TB, cols ...frame.Column) *frame.Table {
	t.Helper()
	tbl, err := frame.New(cols...)
	require.NoError(t, err)
	return tbl
}

// AssertCells compares cells against literals within tol. NaN matches NaN
// and infinities must match exactly.
func AssertCells(t testing.TB, got []frame.Cell, tol float64, want ...any) {
	t.Helper()
	exp := Cells(want...)
	if !assert.Len(t, got, len(exp)) {
		return
	}
	for i := range exp {
		w, wok := exp[i].Float()
		g, gok := got[i].Float()
		if !wok {
			assert.True(t, got[i].IsMissing(), "row %d: want missing, got %s", i, got[i])
			continue
		}
		if !gok {
			t.Errorf("row %d: want %v, got missing", i, w)
			continue
		}
		switch {
		case math.IsNaN(w):
			assert.True(t, math.IsNaN(g), "row %d: want NaN, got %v", i, g)
		case math.IsInf(w, 0):
			assert.Equal(t, w, g, "row %d", i)
		default:
			assert.InDelta(t, w, g, tol, "row %d", i)
		}
	}
}

// AssertColumn compares the named column of tbl against literals.
func AssertColumn(t testing.TB, tbl *frame.Table, name string, tol float64, want ...any) {
	t.Helper()
	got, err := tbl.Column(name)
	require.NoError(t, err)
	AssertCells(t, got, tol, want...)
}

// Random builds a rows x cols table of values in [-50, 50) with roughly
// missingRate of the cells missing. The same seed gives the same table.
func Random(t testing.TB, rows, cols int, missingRate float64, seed uint64) *frame.Table {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	next := rng.Float64

	columns := make([]frame.Column, cols)
	for j := range columns {
		cells := make([]frame.Cell, rows)
		for i := range cells {
			if next() < missingRate {
				continue
			}
			cells[i] = frame.Value(next()*100 - 50)
		}
		columns[j] = frame.Column{Name: fmt.Sprintf("c%03d", j), Cells: cells}
	}
	return Table(t, columns...)
}
