package files

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// TableExtensions are the file extensions FindTableFiles picks up.
var TableExtensions = []string{".csv", ".xlsx", ".arrow", ".ipc"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Ext returns the lower-cased extension of the file.
func (f FileInfo) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath. Relative
// directories passed to its methods resolve against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindTableFiles lists the table files directly inside dir, sorted by
// name so dated file names come out in date order. Subdirectories, Office
// lock files (~$name.xlsx) and hidden files are skipped.
func (d *Discovery) FindTableFiles(dir string) ([]FileInfo, error) {
	return d.find(dir, func(name string) bool {
		return slices.Contains(TableExtensions, strings.ToLower(filepath.Ext(name)))
	})
}

// FindFilesByPattern lists the files in dir whose name matches a
// filepath.Match pattern, sorted by name.
func (d *Discovery) FindFilesByPattern(dir, pattern string) ([]FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}
	return d.find(dir, func(name string) bool {
		ok, _ := filepath.Match(pattern, name)
		return ok
	})
}

func (d *Discovery) find(dir string, keep func(name string) bool) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") || !keep(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// ReadDir already sorts by name
	return files, nil
}

// OutputPath places the result for in under outDir, swapping the
// extension for ext (".csv", "xlsx", ...). An empty ext keeps the input's.
func OutputPath(in FileInfo, outDir, ext string) string {
	switch {
	case ext == "":
		ext = filepath.Ext(in.Name)
	case !strings.HasPrefix(ext, "."):
		ext = "." + ext
	}
	base := strings.TrimSuffix(in.Name, filepath.Ext(in.Name))
	return filepath.Join(outDir, base+ext)
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// FilterFilesByDateRange keeps files modified strictly between start and
// end.
func FilterFilesByDateRange(files []FileInfo, start, end time.Time) []FileInfo {
	var filtered []FileInfo
	for _, file := range files {
		if file.ModTime.After(start) && file.ModTime.Before(end) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}
