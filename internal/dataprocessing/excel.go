package dataprocessing

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// ParseXLSX reads a worksheet of the workbook at path.
func ParseXLSX(path string, opts ParseOptions) (*frame.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook "+path, err)
	}
	defer f.Close()
	return parseWorkbook(f, opts)
}

// ReadXLSX reads a worksheet of a workbook streamed from r.
func ReadXLSX(r io.Reader, opts ParseOptions) (*frame.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()
	return parseWorkbook(f, opts)
}

func parseWorkbook(f *excelize.File, opts ParseOptions) (*frame.Dataset, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", sheet))
	}
	rows = trimEmptyTail(rows)
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q is empty", sheet), nil)
	}
	return buildDataset(rows[0], rows[1:], opts, func(i int) int { return i + 2 })
}
