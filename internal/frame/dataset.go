package frame

import (
	"slices"
	"strconv"

	apperrors "factorframe/internal/errors"
)

// Dataset is a table plus optional row labels, typically dates, as read
// from or written to a file. Transforms operate on Table only.
type Dataset struct {
	IndexName string
	Index     []string
	Table     *Table
}

// NewDataset pairs t with index. A nil index means unlabeled rows;
// otherwise it needs one label per row.
func NewDataset(indexName string, index []string, t *Table) (*Dataset, error) {
	if index != nil && len(index) != t.NumRows() {
		return nil, apperrors.NewDimensionMismatchError(
			"index has %d labels, table has %d rows", len(index), t.NumRows(),
		)
	}
	return &Dataset{IndexName: indexName, Index: slices.Clone(index), Table: t}, nil
}

// WithTable returns a dataset holding t under the same index.
func (d *Dataset) WithTable(t *Table) (*Dataset, error) {
	return NewDataset(d.IndexName, d.Index, t)
}

// HasIndex reports whether rows carry labels.
func (d *Dataset) HasIndex() bool { return d.Index != nil }

// Label returns the label of row i, or its position when unlabeled.
func (d *Dataset) Label(i int) string {
	if d.Index == nil {
		return strconv.Itoa(i)
	}
	return d.Index[i]
}
