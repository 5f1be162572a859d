package frame

import (
	"math"
	"strconv"
)

// Cell is a nullable numeric value. The zero Cell is missing.
//
// A present Cell may hold NaN or an infinity; those are values, not the
// missing marker.
type Cell struct {
	value float64
	valid bool
}

// Value returns a present cell holding v.
func Value(v float64) Cell {
	return Cell{value: v, valid: true}
}

// Missing returns the missing marker.
func Missing() Cell {
	return Cell{}
}

// FromPtr returns Missing for nil and Value(*p) otherwise.
func FromPtr(p *float64) Cell {
	if p == nil {
		return Missing()
	}
	return Value(*p)
}

// IsMissing reports whether c is the missing marker.
func (c Cell) IsMissing() bool {
	return !c.valid
}

// Float returns the value and whether it is present.
func (c Cell) Float() (float64, bool) {
	return c.value, c.valid
}

// Or returns the value of c, or def when c is missing.
func (c Cell) Or(def float64) float64 {
	if !c.valid {
		return def
	}
	return c.value
}

// Ptr returns nil for a missing cell and a pointer to a copy of the value otherwise.
func (c Cell) Ptr() *float64 {
	if !c.valid {
		return nil
	}
	v := c.value
	return &v
}

// Equal treats two missing cells as equal and two NaN values as equal.
func (c Cell) Equal(o Cell) bool {
	if c.valid != o.valid {
		return false
	}
	if !c.valid {
		return true
	}
	if math.IsNaN(c.value) && math.IsNaN(o.value) {
		return true
	}
	return c.value == o.value
}

// Add returns c+o, missing if either operand is missing.
func (c Cell) Add(o Cell) Cell {
	if !c.valid || !o.valid {
		return Missing()
	}
	return Value(c.value + o.value)
}

// Sub returns c-o, missing if either operand is missing.
func (c Cell) Sub(o Cell) Cell {
	if !c.valid || !o.valid {
		return Missing()
	}
	return Value(c.value - o.value)
}

// Mul returns c*o, missing if either operand is missing.
func (c Cell) Mul(o Cell) Cell {
	if !c.valid || !o.valid {
		return Missing()
	}
	return Value(c.value * o.value)
}

// Div returns c/o, missing if either operand is missing. Division by a
// present zero follows IEEE 754.
func (c Cell) Div(o Cell) Cell {
	if !c.valid || !o.valid {
		return Missing()
	}
	return Value(c.value / o.value)
}

func (c Cell) String() string {
	if !c.valid {
		return "NA"
	}
	return strconv.FormatFloat(c.value, 'g', -1, 64)
}
