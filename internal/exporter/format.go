package exporter

import (
	"math"
	"strconv"

	"factorframe/internal/frame"
)

// formatCell renders a cell for text output. Present values use the
// shortest decimal form that parses back to the same float64.
func formatCell(c frame.Cell, missing string) string {
	v, ok := c.Float()
	if !ok {
		return missing
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
