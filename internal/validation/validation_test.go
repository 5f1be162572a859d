package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
)

type sample struct {
	Name  string   `json:"name" validate:"required"`
	Items []string `json:"items" validate:"min=1"`
	Level string   `yaml:"level" validate:"omitempty,oneof=debug info"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "x", Items: []string{"a"}}))

	err := Struct(sample{Level: "loud"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	details, ok := appErr.Context["errors"].([]apperrors.ValidationError)
	require.True(t, ok)
	require.Len(t, details, 3)

	assert.Equal(t, "name", details[0].Field)
	assert.Equal(t, "name is required", details[0].Message)
	assert.Equal(t, "items must contain at least 1 items", details[1].Message)
	assert.Equal(t, "level must be one of: debug, info", details[2].Message)
}

func TestFileValidator(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a\n1\n"), 0o644))
	txtPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))

	v := NewFileValidator(nil)

	tests := []struct {
		name    string
		check   func() error
		wantErr string
	}{
		{"valid csv", func() error { return v.ValidateInputTable(csvPath) }, ""},
		{"missing file", func() error { return v.ValidateInputTable(filepath.Join(dir, "nope.csv")) }, "does not exist"},
		{"directory", func() error { return v.ValidateFile(dir) }, "is a directory"},
		{"bad extension", func() error { return v.ValidateInputTable(txtPath) }, "unsupported extension"},
		{"output creates dir", func() error { return v.ValidateOutputTable(filepath.Join(dir, "out", "r.xlsx")) }, ""},
		{"output bad extension", func() error { return v.ValidateOutputTable(filepath.Join(dir, "r.json")) }, "unsupported extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.DirExists(t, filepath.Join(dir, "out"))
}
