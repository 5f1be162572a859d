package dataprocessing

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// DefaultMissingTokens are the cell texts read as missing.
var DefaultMissingTokens = []string{"", "na", "nan", "null", "none", "-"}

// ParseOptions controls how cells are read.
type ParseOptions struct {
	// IndexColumn names the column holding row labels. Empty means none.
	IndexColumn string

	// MissingTokens overrides DefaultMissingTokens when non-nil.
	MissingTokens []string

	// Sheet selects the worksheet for Excel files. Empty means the first.
	Sheet string

	// StripThousands removes ',' separators before parsing, as in
	// exchange reports that print "1,250,000".
	StripThousands bool
}

type cellParser struct {
	missing        map[string]struct{}
	stripThousands bool
}

func newCellParser(opts ParseOptions) *cellParser {
	tokens := opts.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	missing := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		missing[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return &cellParser{missing: missing, stripThousands: opts.StripThousands}
}

// parse reads one cell. "NaN" is only a present NaN when the missing
// tokens do not claim it.
func (p *cellParser) parse(raw string) (frame.Cell, error) {
	s := strings.TrimSpace(raw)
	if _, ok := p.missing[strings.ToLower(s)]; ok {
		return frame.Missing(), nil
	}
	if p.stripThousands {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return frame.Missing(), err
	}
	return frame.Value(v), nil
}

// buildDataset turns a header and data rows into a dataset. line maps a
// record index to its 1-based source line for error messages. Short rows
// are padded with empty cells.
func buildDataset(header []string, records [][]string, opts ParseOptions, line func(i int) int) (*frame.Dataset, error) {
	header = slices.Clone(header)
	for j := range header {
		header[j] = strings.TrimSpace(header[j])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	indexCol := -1
	if opts.IndexColumn != "" {
		indexCol = slices.Index(header, opts.IndexColumn)
		if indexCol < 0 {
			return nil, apperrors.NewNotFoundError("index column " + strconv.Quote(opts.IndexColumn))
		}
	}

	names := make([]string, 0, len(header))
	srcCol := make([]int, 0, len(header))
	for j, name := range header {
		if j == indexCol {
			continue
		}
		names = append(names, name)
		srcCol = append(srcCol, j)
	}

	p := newCellParser(opts)
	cols := make([][]frame.Cell, len(names))
	for k := range cols {
		cols[k] = make([]frame.Cell, len(records))
	}
	var index []string
	if indexCol >= 0 {
		index = make([]string, len(records))
	}

	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("line %d has %d fields, header has %d", line(i), len(rec), len(header)), nil,
			).WithContext("line", line(i))
		}
		if indexCol >= 0 && indexCol < len(rec) {
			index[i] = strings.TrimSpace(rec[indexCol])
		}
		for k, j := range srcCol {
			if j >= len(rec) {
				continue
			}
			c, err := p.parse(rec[j])
			if err != nil {
				return nil, apperrors.NewParsingError(
					fmt.Sprintf("line %d column %q: cannot parse %q as a number", line(i), names[k], rec[j]), err,
				).WithContext("line", line(i)).WithContext("column", names[k])
			}
			cols[k][i] = c
		}
	}

	t, err := frame.FromColumns(names, cols)
	if err != nil {
		return nil, err
	}
	return frame.NewDataset(opts.IndexColumn, index, t)
}

// trimEmptyTail drops trailing rows whose cells are all blank.
func trimEmptyTail(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && blank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
