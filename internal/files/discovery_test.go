package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestFindTableFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "table formats sorted by name",
			files: []string{"2025_01_15.xlsx", "2025_01_10.csv", "prices.ARROW", "stream.ipc"},
			want:  []string{"2025_01_10.csv", "2025_01_15.xlsx", "prices.ARROW", "stream.ipc"},
		},
		{
			name:  "other files ignored",
			files: []string{"report.xlsx", "notes.txt", "doc.pdf", "old.xls"},
			want:  []string{"report.xlsx"},
		},
		{
			name:  "lock and hidden files skipped",
			files: []string{"~$report.xlsx", ".hidden.csv", "report.xlsx"},
			want:  []string{"report.xlsx"},
		},
		{
			name: "empty directory",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

			got, err := NewDiscovery("").FindTableFiles(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			for _, f := range got {
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.EqualValues(t, 1, f.Size)
			}
		})
	}
}

func TestFindTableFiles_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "reports"), 0o755))
	touch(t, filepath.Join(base, "reports"), "a.csv")

	got, err := NewDiscovery(base).FindTableFiles("reports")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(base, "reports", "a.csv"), got[0].Path)

	_, err = NewDiscovery(base).FindTableFiles("missing")
	assert.ErrorContains(t, err, "failed to read directory")
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "prices_2025_01_01.csv", "prices_2025_01_02.csv", "index.csv")

	got, err := NewDiscovery("").FindFilesByPattern(dir, "prices_*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"prices_2025_01_01.csv", "prices_2025_01_02.csv"}, names(got))

	_, err = NewDiscovery("").FindFilesByPattern(dir, "[")
	assert.ErrorContains(t, err, "invalid pattern")
}

func TestOutputPath(t *testing.T) {
	in := FileInfo{Name: "2025_01_10.xlsx", Path: "/in/2025_01_10.xlsx"}

	assert.Equal(t, filepath.Join("out", "2025_01_10.csv"), OutputPath(in, "out", ".csv"))
	assert.Equal(t, filepath.Join("out", "2025_01_10.xlsx"), OutputPath(in, "out", ""))
	assert.Equal(t, filepath.Join("out", "2025_01_10.arrow"), OutputPath(in, "out", "arrow"))
	assert.Equal(t, ".xlsx", in.Ext())
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "a", ModTime: now.Add(-time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-2 * time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}

func TestFilterFilesByDateRange(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	files := []FileInfo{
		{Name: "before", ModTime: day.AddDate(0, 0, -5)},
		{Name: "inside", ModTime: day},
		{Name: "after", ModTime: day.AddDate(0, 0, 5)},
	}

	got := FilterFilesByDateRange(files, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	assert.Equal(t, []string{"inside"}, names(got))
}
