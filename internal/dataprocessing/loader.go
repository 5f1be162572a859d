package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"

	"factorframe/internal/arrowio"
	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
)

// LoadFile reads path, choosing the format from its extension: .csv,
// .xlsx, or .arrow/.ipc (Arrow IPC stream). Arrow files carry their own
// index, so opts only applies to CSV and Excel.
func LoadFile(path string, opts ParseOptions) (*frame.Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open "+path, err)
		}
		defer f.Close()
		return ParseCSV(f, opts)
	case ".xlsx":
		return ParseXLSX(path, opts)
	case ".arrow", ".ipc":
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to open "+path, err)
		}
		defer f.Close()
		return arrowio.ReadIPC(f, nil)
	default:
		return nil, apperrors.NewInvalidArgumentError("unsupported input format %q", ext).
			WithContext("path", path)
	}
}
