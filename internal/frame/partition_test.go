package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
)

func TestPartition(t *testing.T) {
	tbl := sampleTable(t)

	parts := Partition(tbl, map[string]string{
		"a":     "banks",
		"c":     "banks",
		"b":     "telecom",
		"ghost": "energy",
	})

	require.Len(t, parts, 2)
	assert.Equal(t, []string{"a", "c"}, parts["banks"].Names())
	assert.Equal(t, []string{"b"}, parts["telecom"].Names())
	assert.NotContains(t, parts, "energy")

	col, err := parts["banks"].Column("c")
	require.NoError(t, err)
	assert.True(t, col[2].Equal(Value(9)))
}

func TestPartition_UnmappedColumnsDropped(t *testing.T) {
	tbl := sampleTable(t)
	parts := Partition(tbl, map[string]string{"b": "only"})
	require.Len(t, parts, 1)
	assert.Equal(t, 1, parts["only"].NumCols())
	assert.Equal(t, 3, parts["only"].NumRows())
}

func TestBoolTable(t *testing.T) {
	b, err := NewBoolTable([]string{"a", "b"}, [][]bool{{true, false}, {false, false}})
	require.NoError(t, err)
	assert.True(t, b.At(0, 0))
	assert.False(t, b.At(1, 0))

	_, err = NewBoolTable([]string{"a", "b"}, [][]bool{{true}, {true, false}})
	assert.True(t, errors.Is(err, apperrors.ErrDimensionMismatch))

	all := Fill([]string{"x"}, 3, true)
	rows, cols := all.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 1, cols)
	assert.Equal(t, []bool{true, true, true}, all.ColumnAt(0))
}

func TestMaskWhere(t *testing.T) {
	tbl := sampleTable(t)
	present := MaskWhere(tbl, func(c Cell) bool { return !c.IsMissing() })

	assert.Equal(t, tbl.Names(), present.Names())
	assert.Equal(t, []bool{true, true, false}, present.ColumnAt(0))
	assert.Equal(t, []bool{true, false, true}, present.ColumnAt(1))
	assert.True(t, tbl.SameShape(present))
}
