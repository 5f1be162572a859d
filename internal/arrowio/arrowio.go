// Package arrowio converts frame datasets to and from Apache Arrow records
// and the Arrow IPC stream format.
//
// Every table column becomes a nullable float64 field. Row labels, when
// present, travel as a leading utf8 field named in the schema metadata
// under IndexMetadataKey.
package arrowio

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// IndexMetadataKey marks the schema field holding row labels.
const IndexMetadataKey = "factorframe.index"

// DefaultIndexName is used when a dataset has labels but no index name.
const DefaultIndexName = "index"

// Schema returns the Arrow schema for ds.
func Schema(ds *frame.Dataset) *arrow.Schema {
	names := ds.Table.Names()
	fields := make([]arrow.Field, 0, len(names)+1)

	var md *arrow.Metadata
	if ds.HasIndex() {
		name := indexName(ds)
		fields = append(fields, arrow.Field{Name: name, Type: arrow.BinaryTypes.String})
		m := arrow.NewMetadata([]string{IndexMetadataKey}, []string{name})
		md = &m
	}
	for _, name := range names {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	return arrow.NewSchema(fields, md)
}

func indexName(ds *frame.Dataset) string {
	if ds.IndexName == "" {
		return DefaultIndexName
	}
	return ds.IndexName
}

// ToRecord converts a table into a single record. The caller releases it.
func ToRecord(t *frame.Table, mem memory.Allocator) arrow.Record {
	return DatasetRecord(&frame.Dataset{Table: t}, mem)
}

// DatasetRecord converts ds into a single record. The caller releases it.
func DatasetRecord(ds *frame.Dataset, mem memory.Allocator) arrow.Record {
	return sliceRecord(ds, Schema(ds), mem, 0, ds.Table.NumRows())
}

// sliceRecord builds a record from rows [lo, hi) of ds.
func sliceRecord(ds *frame.Dataset, schema *arrow.Schema, mem memory.Allocator, lo, hi int) arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	offset := 0
	if ds.HasIndex() {
		sb := b.Field(0).(*array.StringBuilder)
		sb.Reserve(hi - lo)
		for i := lo; i < hi; i++ {
			sb.Append(ds.Index[i])
		}
		offset = 1
	}

	for j := 0; j < ds.Table.NumCols(); j++ {
		fb := b.Field(j + offset).(*array.Float64Builder)
		fb.Reserve(hi - lo)
		for i := lo; i < hi; i++ {
			if v, ok := ds.Table.At(i, j).Float(); ok {
				fb.Append(v)
			} else {
				fb.AppendNull()
			}
		}
	}
	return b.NewRecord()
}

// FromRecord converts a record into a table, dropping any index field.
func FromRecord(rec arrow.Record) (*frame.Table, error) {
	ds, err := DatasetFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return ds.Table, nil
}

// DatasetFromRecord converts a record into a dataset. Numeric fields
// (float64, float32, int64, int32) become columns with nulls as missing
// cells. The index field named in the metadata becomes row labels. Any
// other field type is rejected.
func DatasetFromRecord(rec arrow.Record) (*frame.Dataset, error) {
	acc, err := newAccumulator(rec.Schema())
	if err != nil {
		return nil, err
	}
	if err := acc.append(rec); err != nil {
		return nil, err
	}
	return acc.dataset()
}

// accumulator gathers the columns of one or more records sharing a schema.
type accumulator struct {
	indexField int
	indexName  string
	index      []string
	names      []string
	fieldOf    []int
	cols       [][]frame.Cell
}

func newAccumulator(schema *arrow.Schema) (*accumulator, error) {
	acc := &accumulator{indexField: -1}
	if md := schema.Metadata(); md.Len() > 0 {
		if k := md.FindKey(IndexMetadataKey); k >= 0 {
			acc.indexName = md.Values()[k]
		}
	}

	for f, field := range schema.Fields() {
		if acc.indexName != "" && field.Name == acc.indexName && acc.indexField < 0 {
			if field.Type.ID() != arrow.STRING && field.Type.ID() != arrow.LARGE_STRING {
				return nil, apperrors.NewInvalidArgumentError("index field %q must be a string, got %s", field.Name, field.Type)
			}
			acc.indexField = f
			continue
		}
		switch field.Type.ID() {
		case arrow.FLOAT64, arrow.FLOAT32, arrow.INT64, arrow.INT32:
		default:
			return nil, apperrors.NewInvalidArgumentError("field %q has unsupported type %s", field.Name, field.Type).
				WithContext("field", field.Name)
		}
		acc.names = append(acc.names, field.Name)
		acc.fieldOf = append(acc.fieldOf, f)
	}
	acc.cols = make([][]frame.Cell, len(acc.names))
	return acc, nil
}

func (a *accumulator) append(rec arrow.Record) error {
	if a.indexField >= 0 {
		switch arr := rec.Column(a.indexField).(type) {
		case *array.String:
			for i := 0; i < arr.Len(); i++ {
				a.index = append(a.index, arr.Value(i))
			}
		case *array.LargeString:
			for i := 0; i < arr.Len(); i++ {
				a.index = append(a.index, arr.Value(i))
			}
		}
	}

	for j, f := range a.fieldOf {
		cells, err := appendCells(a.cols[j], rec.Column(f))
		if err != nil {
			return fmt.Errorf("field %q: %w", a.names[j], err)
		}
		a.cols[j] = cells
	}
	return nil
}

func (a *accumulator) dataset() (*frame.Dataset, error) {
	t, err := frame.FromColumns(a.names, a.cols)
	if err != nil {
		return nil, err
	}
	if a.indexField < 0 {
		return frame.NewDataset("", nil, t)
	}
	if a.index == nil {
		a.index = []string{}
	}
	return frame.NewDataset(a.indexName, a.index, t)
}

// appendCells coerces one numeric array into cells.
func appendCells(dst []frame.Cell, col arrow.Array) ([]frame.Cell, error) {
	n := col.Len()
	switch arr := col.(type) {
	case *array.Float64:
		for i := 0; i < n; i++ {
			dst = append(dst, cellAt(arr.IsNull(i), arr.Value(i)))
		}
	case *array.Float32:
		for i := 0; i < n; i++ {
			dst = append(dst, cellAt(arr.IsNull(i), float64(arr.Value(i))))
		}
	case *array.Int64:
		for i := 0; i < n; i++ {
			dst = append(dst, cellAt(arr.IsNull(i), float64(arr.Value(i))))
		}
	case *array.Int32:
		for i := 0; i < n; i++ {
			dst = append(dst, cellAt(arr.IsNull(i), float64(arr.Value(i))))
		}
	default:
		return nil, apperrors.NewInvalidArgumentError("unsupported array type %s", col.DataType())
	}
	return dst, nil
}

func cellAt(null bool, v float64) frame.Cell {
	if null {
		return frame.Missing()
	}
	return frame.Value(v)
}
