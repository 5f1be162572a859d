package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"factorframe/internal/frame"
)

// WriteOptions configures text output.
type WriteOptions struct {
	// MissingToken is written for missing cells. Default empty.
	MissingToken string
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
	// Sheet names the worksheet for Excel output. Default "Sheet1".
	Sheet string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes ds as CSV with a header row.
func WriteCSV(w io.Writer, ds *frame.Dataset, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header(ds)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	rows, cols := ds.Table.Shape()
	offset := 0
	if ds.HasIndex() {
		offset = 1
	}
	record := make([]string, cols+offset)

	for i := 0; i < rows; i++ {
		if ds.HasIndex() {
			record[0] = ds.Index[i]
		}
		for j := 0; j < cols; j++ {
			record[j+offset] = formatCell(ds.Table.At(i, j), opts.MissingToken)
		}
		if err := writeRecord(w, writer, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func header(ds *frame.Dataset) []string {
	names := ds.Table.Names()
	if !ds.HasIndex() {
		return names
	}
	indexName := ds.IndexName
	if indexName == "" {
		indexName = "index"
	}
	return append([]string{indexName}, names...)
}

// writeRecord writes one record. encoding/csv renders a lone empty field
// as a blank line, which readers skip, so that case is quoted by hand.
func writeRecord(w io.Writer, writer *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}
