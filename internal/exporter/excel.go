package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"factorframe/internal/frame"
)

// DefaultSheet is the worksheet written when WriteOptions.Sheet is empty.
const DefaultSheet = "Sheet1"

// WriteXLSX writes ds as a single-sheet workbook. Missing cells are left
// empty; non-finite values are written as text.
func WriteXLSX(w io.Writer, ds *frame.Dataset, opts WriteOptions) error {
	f, err := buildWorkbook(ds, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(ds *frame.Dataset, opts WriteOptions) (*excelize.File, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	names := header(ds)
	row := make([]interface{}, len(names))
	for j, name := range names {
		row[j] = name
	}
	if err := sw.SetRow("A1", row); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	offset := 0
	if ds.HasIndex() {
		offset = 1
	}
	rows, cols := ds.Table.Shape()
	for i := 0; i < rows; i++ {
		row := make([]interface{}, cols+offset)
		if ds.HasIndex() {
			row[0] = ds.Index[i]
		}
		for j := 0; j < cols; j++ {
			row[j+offset] = xlsxValue(ds.Table.At(i, j))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f, nil
}

func xlsxValue(c frame.Cell) interface{} {
	v, ok := c.Float()
	switch {
	case !ok:
		return nil
	case math.IsNaN(v) || math.IsInf(v, 0):
		return formatFloat(v)
	default:
		return v
	}
}
