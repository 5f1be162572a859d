// Package frame provides the table model shared by the transform engines.
//
// A Table is an ordered set of uniquely named columns of nullable numeric
// cells, all of the same length. Tables are immutable once built: accessors
// hand out copies, and every transform constructs a new Table instead of
// editing its input.
//
// # Cells
//
// Cell is a tagged value, either present or missing. Arithmetic helpers on
// Cell propagate missing operands, so callers never compare against a
// sentinel float:
//
//	x := frame.Value(3)
//	y := frame.Missing()
//	x.Add(y).IsMissing() // true
//
// # Construction
//
//	t, err := frame.New(
//	    frame.Column{Name: "BMFI", Cells: []frame.Cell{frame.Value(1.2), frame.Missing()}},
//	    frame.Column{Name: "TASC", Cells: []frame.Cell{frame.Value(0.8), frame.Value(0.9)}},
//	)
//
// Ragged columns fail with a DimensionMismatch error; empty or duplicate
// names fail with InvalidArgument.
package frame
