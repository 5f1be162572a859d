package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
	"factorframe/internal/transform"
)

type negate struct{}

func (negate) ID() string             { return "negate" }
func (negate) Description() string    { return "flip signs" }
func (negate) Check(StepConfig) error { return nil }
func (negate) Apply(t *frame.Table, _ StepConfig, _ ...transform.Option) (*frame.Table, error) {
	cols := t.Columns()
	for _, c := range cols {
		for i := range c.Cells {
			c.Cells[i] = c.Cells[i].Mul(frame.Value(-1))
		}
	}
	return frame.New(cols...)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(negate{}))

	assert.Error(t, r.Register(negate{}))
	assert.Error(t, r.Register(nil))
	assert.True(t, r.Has("negate"))
	assert.Equal(t, 1, r.Count())

	step, err := r.Get("negate")
	require.NoError(t, err)
	assert.Equal(t, "flip signs", step.Description())

	_, err = r.Get("nope")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{
		OpPercentileRank, OpZScore, OpRowMean,
		OpRollingMax, OpRollingStd, OpPctChange,
		OpShift, OpMaskBetween,
	}, r.IDs())
	assert.Len(t, r.List(), r.Count())
}

func TestBuiltinChecks(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		cfg  StepConfig
		want *apperrors.AppError
	}{
		{"rolling max needs window", StepConfig{Op: OpRollingMax}, apperrors.ErrInvalidArgument},
		{"rolling std window one", StepConfig{Op: OpRollingStd, Window: 1}, apperrors.ErrInsufficientData},
		{"pct change zero periods", StepConfig{Op: OpPctChange, Periods: intPtr(0)}, apperrors.ErrInvalidArgument},
		{"shift needs periods", StepConfig{Op: OpShift}, apperrors.ErrInvalidArgument},
		{"mask needs a bound", StepConfig{Op: OpMaskBetween}, apperrors.ErrInvalidArgument},
		{"mask inverted bounds", StepConfig{Op: OpMaskBetween, Min: floatPtr(2), Max: floatPtr(1)}, apperrors.ErrInvalidArgument},
		{"pct change default", StepConfig{Op: OpPctChange}, nil},
		{"shift lead", StepConfig{Op: OpShift, Periods: intPtr(-1)}, nil},
		{"mask lower bound only", StepConfig{Op: OpMaskBetween, Min: floatPtr(0)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := r.Get(tt.cfg.Op)
			require.NoError(t, err)
			err = step.Check(tt.cfg)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
