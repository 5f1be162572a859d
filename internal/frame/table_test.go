package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		Column{Name: "a", Cells: []Cell{Value(1), Value(2), Missing()}},
		Column{Name: "b", Cells: []Cell{Value(4), Missing(), Value(6)}},
		Column{Name: "c", Cells: []Cell{Value(7), Value(8), Value(9)}},
	)
	require.NoError(t, err)
	return tbl
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr *apperrors.AppError
	}{
		{
			name: "ragged columns",
			cols: []Column{
				{Name: "a", Cells: []Cell{Value(1)}},
				{Name: "b", Cells: []Cell{Value(1), Value(2)}},
			},
			wantErr: apperrors.ErrDimensionMismatch,
		},
		{
			name: "duplicate name",
			cols: []Column{
				{Name: "a", Cells: []Cell{Value(1)}},
				{Name: "a", Cells: []Cell{Value(2)}},
			},
			wantErr: apperrors.ErrInvalidArgument,
		},
		{
			name:    "empty name",
			cols:    []Column{{Name: "", Cells: []Cell{Value(1)}}},
			wantErr: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cols...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	cells := []Cell{Value(1), Value(2)}
	tbl, err := New(Column{Name: "a", Cells: cells})
	require.NoError(t, err)

	cells[0] = Value(100)
	assert.True(t, tbl.At(0, 0).Equal(Value(1)))

	col, err := tbl.Column("a")
	require.NoError(t, err)
	col[1] = Missing()
	assert.True(t, tbl.At(1, 0).Equal(Value(2)))
}

func TestTable_Accessors(t *testing.T) {
	tbl := sampleTable(t)

	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	assert.True(t, tbl.Has("b"))
	assert.False(t, tbl.Has("z"))
	assert.Equal(t, 2, tbl.MissingCount())

	_, err := tbl.Column("z")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	row := tbl.Row(1)
	assert.True(t, row[0].Equal(Value(2)))
	assert.True(t, row[1].IsMissing())
	assert.True(t, row[2].Equal(Value(8)))
}

func TestTable_Rows(t *testing.T) {
	tbl := sampleTable(t)

	var sums []float64
	for i, row := range tbl.Rows() {
		assert.Len(t, row, 3)
		s := 0.0
		for _, c := range row {
			s += c.Or(0)
		}
		sums = append(sums, s)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []float64{12, 10}, sums)
}

func TestFromRows(t *testing.T) {
	tbl, err := FromRows([]string{"x", "y"}, [][]Cell{
		{Value(1), Value(2)},
		{Missing(), Value(4)},
	})
	require.NoError(t, err)
	assert.True(t, tbl.At(1, 0).IsMissing())
	assert.True(t, tbl.At(1, 1).Equal(Value(4)))

	_, err = FromRows([]string{"x", "y"}, [][]Cell{{Value(1)}})
	assert.True(t, errors.Is(err, apperrors.ErrDimensionMismatch))
}

func TestTable_SelectAndEqual(t *testing.T) {
	tbl := sampleTable(t)

	sub, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Names())

	want := MustNew(
		Column{Name: "c", Cells: []Cell{Value(7), Value(8), Value(9)}},
		Column{Name: "a", Cells: []Cell{Value(1), Value(2), Missing()}},
	)
	assert.True(t, want.Equal(sub))
	assert.False(t, want.Equal(tbl))

	_, err = tbl.Select("nope")
	assert.Error(t, err)
}

func TestEmptyTable(t *testing.T) {
	tbl, err := New()
	require.NoError(t, err)
	rows, cols := tbl.Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.True(t, tbl.Equal(MustNew()))
}
