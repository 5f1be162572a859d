package arrowio

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// DefaultBatchRows is the number of rows per record batch written by
// WriteIPC.
const DefaultBatchRows = 64 * 1024

// WriteIPC writes ds to w in the Arrow IPC stream format.
func WriteIPC(w io.Writer, ds *frame.Dataset, mem memory.Allocator) error {
	return writeIPC(w, ds, mem, DefaultBatchRows)
}

func writeIPC(w io.Writer, ds *frame.Dataset, mem memory.Allocator, batchRows int) error {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema := Schema(ds)
	writer := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	defer writer.Close()

	write := func(lo, hi int) error {
		rec := sliceRecord(ds, schema, mem, lo, hi)
		defer rec.Release()
		if err := writer.Write(rec); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record batch at row %d", lo), err)
		}
		return nil
	}

	rows := ds.Table.NumRows()
	if rows == 0 {
		if err := write(0, 0); err != nil {
			return err
		}
	}
	for lo := 0; lo < rows; lo += batchRows {
		if err := write(lo, min(lo+batchRows, rows)); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return apperrors.NewStorageError("failed to close IPC writer", err)
	}
	return nil
}

// ReadIPC reads an Arrow IPC stream. All record batches are concatenated
// into one dataset.
func ReadIPC(r io.Reader, mem memory.Allocator) (*frame.Dataset, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	reader, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open IPC stream", err)
	}
	defer reader.Release()

	acc, err := newAccumulator(reader.Schema())
	if err != nil {
		return nil, err
	}
	for reader.Next() {
		if err := acc.append(reader.Record()); err != nil {
			return nil, err
		}
	}
	if err := reader.Err(); err != nil {
		return nil, apperrors.NewParsingError("failed to read IPC stream", err)
	}
	return acc.dataset()
}
