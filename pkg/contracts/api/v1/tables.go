// Package api contains the JSON contracts of the factorframe HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Table is a column-major JSON table:
//
//	{"columns":[{"name":"a","values":[1.5,null,"NaN"]}]}
type Table struct {
	Columns []Column `json:"columns" validate:"required,min=1,dive"`
}

// Column is one named column of a Table.
type Column struct {
	Name   string `json:"name" validate:"required"`
	Values []Cell `json:"values"`
}

// BoolTable is the JSON form of a boolean mask.
type BoolTable struct {
	Columns []BoolColumn `json:"columns" validate:"required,min=1,dive"`
}

// BoolColumn is one named column of a BoolTable.
type BoolColumn struct {
	Name   string `json:"name" validate:"required"`
	Values []bool `json:"values"`
}

// Cell is a JSON table cell. null decodes to a missing cell; the strings
// "NaN", "+Inf" and "-Inf" carry non-finite values.
type Cell struct {
	Valid bool
	Value float64
}

// Number returns a present cell holding v.
func Number(v float64) Cell { return Cell{Valid: true, Value: v} }

// Null returns a missing cell.
func Null() Cell { return Cell{} }

// MarshalJSON implements json.Marshaler
func (c Cell) MarshalJSON() ([]byte, error) {
	switch {
	case !c.Valid:
		return []byte("null"), nil
	case math.IsNaN(c.Value):
		return []byte(`"NaN"`), nil
	case math.IsInf(c.Value, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(c.Value, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, c.Value, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Null()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*c = Number(math.NaN())
		case "+Inf", "Inf":
			*c = Number(math.Inf(1))
		case "-Inf":
			*c = Number(math.Inf(-1))
		default:
			return fmt.Errorf("invalid cell %q: want a number, null, \"NaN\", \"+Inf\" or \"-Inf\"", s)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid cell %s: %w", data, err)
	}
	*c = Number(v)
	return nil
}
