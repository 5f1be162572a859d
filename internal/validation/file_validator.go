package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions accepted for table files.
var (
	InputExtensions  = []string{".csv", ".xlsx", ".arrow", ".ipc"}
	OutputExtensions = []string{".csv", ".xlsx", ".arrow", ".ipc"}
)

// FileValidator checks CLI input and output paths before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator. A nil logger uses slog.Default.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "file_validator"))}
}

// ValidateFile checks that path is an existing, readable regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("file does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("file is not readable", slog.String("file", path), slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("file validated", slog.String("file", path), slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputTable checks that path is a readable table file with a
// supported extension. Office lock files (~$name.xlsx) are rejected.
func (v *FileValidator) ValidateInputTable(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if err := checkExtension(path, InputExtensions); err != nil {
		v.logger.Error("unsupported input format", slog.String("file", path))
		return err
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	return nil
}

// ValidateOutputTable checks the extension of path and makes sure its
// directory exists and is writable.
func (v *FileValidator) ValidateOutputTable(path string) error {
	if err := checkExtension(path, OutputExtensions); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory creates dir when needed and probes it with a
// temporary file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("failed to create output directory", slog.String("directory", dir), slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("output directory is not writable", slog.String("directory", dir), slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

func checkExtension(path string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(allowed, ext) {
		return fmt.Errorf("file %s has unsupported extension %q (want one of %s)", path, ext, strings.Join(allowed, ", "))
	}
	return nil
}
