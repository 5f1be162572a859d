package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "momentum.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "momentum", def.Name)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, OpPctChange, def.Steps[0].Op)
	assert.Equal(t, 1, def.Steps[0].PeriodsOr(5))
	require.NotNil(t, def.Steps[1].Min)
	assert.Equal(t, -0.5, *def.Steps[1].Min)
	assert.Equal(t, 0.5, *def.Steps[1].Max)
	assert.Nil(t, def.Steps[2].Periods)
}

func TestLoadDefinition_Errors(t *testing.T) {
	_, err := LoadDefinition(filepath.Join("testdata", "unknown_field.yaml"))
	assert.True(t, errors.Is(err, apperrors.ErrParsing), "got %v", err)

	_, err = LoadDefinition(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDefinition_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no steps", "name: empty\nsteps: []\n"},
		{"missing op", "steps:\n  - window: 3\n"},
		{"negative window", "steps:\n  - op: rolling_max\n    window: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func TestStepConfig_PeriodsOr(t *testing.T) {
	assert.Equal(t, 3, StepConfig{}.PeriodsOr(3))
	assert.Equal(t, -2, StepConfig{Periods: intPtr(-2)}.PeriodsOr(3))
}
