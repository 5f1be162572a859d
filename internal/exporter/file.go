package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"factorframe/internal/arrowio"
	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// SaveFile writes ds to path, choosing the format from the extension:
// .csv, .xlsx, or .arrow/.ipc. Parent directories are created as needed
// and a partially written file is removed on failure.
func SaveFile(path string, ds *frame.Dataset, opts WriteOptions) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".xlsx", ".arrow", ".ipc":
	default:
		return apperrors.NewInvalidArgumentError("unsupported output format %q", ext).
			WithContext("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.NewStorageError("failed to close "+path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	rows, cols := ds.Table.Shape()
	slog.Debug("writing dataset",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("cols", cols))

	switch ext {
	case ".csv":
		return WriteCSV(f, ds, opts)
	case ".xlsx":
		return WriteXLSX(f, ds, opts)
	default:
		return arrowio.WriteIPC(f, ds, nil)
	}
}
