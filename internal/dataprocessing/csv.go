package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// ParseCSV reads a header row and data rows from r.
func ParseCSV(r io.Reader, opts ParseOptions) (*frame.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("CSV input is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV header", err)
	}

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := len(records) + 2
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read CSV line %d", line), err).
				WithContext("line", line)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	return buildDataset(header, trimEmptyTail(records), opts, func(i int) int { return lines[i] })
}
