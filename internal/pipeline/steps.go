package pipeline

import (
	"math"
	"slices"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
	"factorframe/internal/transform"
)

// Op names of the built-in steps.
const (
	OpPercentileRank = "percentile_rank"
	OpZScore         = "zscore"
	OpRowMean        = "row_mean"
	OpRollingMax     = "rolling_max"
	OpRollingStd     = "rolling_std"
	OpPctChange      = "pct_change"
	OpShift          = "shift"
	OpMaskBetween    = "mask_between"
)

// DefaultRowMeanColumn names the row_mean output when StepConfig.Output is
// empty.
const DefaultRowMeanColumn = "row_mean"

// Step is one table-to-table operation.
type Step interface {
	ID() string
	Description() string
	// Check validates op-specific parameters without touching data.
	Check(cfg StepConfig) error
	Apply(t *frame.Table, cfg StepConfig, opts ...transform.Option) (*frame.Table, error)
}

type builtin struct {
	id    string
	desc  string
	check func(StepConfig) error
	apply func(*frame.Table, StepConfig, []transform.Option) (*frame.Table, error)
}

func (b *builtin) ID() string          { return b.id }
func (b *builtin) Description() string { return b.desc }

func (b *builtin) Check(cfg StepConfig) error {
	if b.check == nil {
		return nil
	}
	return b.check(cfg)
}

func (b *builtin) Apply(t *frame.Table, cfg StepConfig, opts ...transform.Option) (*frame.Table, error) {
	if err := b.Check(cfg); err != nil {
		return nil, err
	}
	return b.apply(t, cfg, opts)
}

func needWindow(min int) func(StepConfig) error {
	return func(cfg StepConfig) error {
		if cfg.Window < min {
			return apperrors.NewInvalidArgumentError("window must be at least %d, got %d", min, cfg.Window).
				WithContext("window", cfg.Window)
		}
		return nil
	}
}

// Builtins returns fresh instances of every built-in step, in the order
// they are listed by the API.
func Builtins() []Step {
	return []Step{
		&builtin{
			id:   OpPercentileRank,
			desc: "cross-sectional percentile rank per row",
			apply: func(t *frame.Table, _ StepConfig, opts []transform.Option) (*frame.Table, error) {
				return transform.PercentileRank(t, opts...), nil
			},
		},
		&builtin{
			id:   OpZScore,
			desc: "cross-sectional z-score per row (sample standard deviation)",
			apply: func(t *frame.Table, _ StepConfig, opts []transform.Option) (*frame.Table, error) {
				return transform.ZScore(t, opts...)
			},
		},
		&builtin{
			id:   OpRowMean,
			desc: "mean of present cells per row, as a single column",
			apply: func(t *frame.Table, cfg StepConfig, opts []transform.Option) (*frame.Table, error) {
				name := cfg.Output
				if name == "" {
					name = DefaultRowMeanColumn
				}
				return frame.New(frame.Column{Name: name, Cells: transform.RowAverage(t, opts...)})
			},
		},
		&builtin{
			id:    OpRollingMax,
			desc:  "maximum over a trailing window",
			check: needWindow(1),
			apply: func(t *frame.Table, cfg StepConfig, opts []transform.Option) (*frame.Table, error) {
				return transform.RollingMax(t, cfg.Window, opts...)
			},
		},
		&builtin{
			id:   OpRollingStd,
			desc: "sample standard deviation over a trailing window",
			check: func(cfg StepConfig) error {
				if err := needWindow(1)(cfg); err != nil {
					return err
				}
				if cfg.Window == 1 {
					return apperrors.NewInsufficientDataError("rolling std needs a window of at least 2 rows").
						WithContext("window", cfg.Window)
				}
				return nil
			},
			apply: func(t *frame.Table, cfg StepConfig, opts []transform.Option) (*frame.Table, error) {
				return transform.RollingStd(t, cfg.Window, opts...)
			},
		},
		&builtin{
			id:   OpPctChange,
			desc: "relative change against the value periods rows earlier",
			check: func(cfg StepConfig) error {
				if p := cfg.PeriodsOr(1); p < 1 {
					return apperrors.NewInvalidArgumentError("periods must be at least 1, got %d", p).
						WithContext("periods", p)
				}
				return nil
			},
			apply: func(t *frame.Table, cfg StepConfig, opts []transform.Option) (*frame.Table, error) {
				return transform.PctChange(t, cfg.PeriodsOr(1), opts...)
			},
		},
		&builtin{
			id:   OpShift,
			desc: "lag (positive periods) or lead (negative periods) every column",
			check: func(cfg StepConfig) error {
				if cfg.Periods == nil {
					return apperrors.NewInvalidArgumentError("shift requires periods")
				}
				return nil
			},
			apply: func(t *frame.Table, cfg StepConfig, opts []transform.Option) (*frame.Table, error) {
				if cfg.Fill != nil {
					opts = append(slices.Clip(opts), transform.WithFill(frame.Value(*cfg.Fill)))
				}
				return transform.Shift(t, *cfg.Periods, opts...), nil
			},
		},
		&builtin{
			id:   OpMaskBetween,
			desc: "blank cells outside [min, max]",
			check: func(cfg StepConfig) error {
				if cfg.Min == nil && cfg.Max == nil {
					return apperrors.NewInvalidArgumentError("mask_between requires min or max")
				}
				lo, hi := bounds(cfg)
				if lo > hi {
					return apperrors.NewInvalidArgumentError("mask_between min %g exceeds max %g", lo, hi)
				}
				return nil
			},
			apply: func(t *frame.Table, cfg StepConfig, _ []transform.Option) (*frame.Table, error) {
				lo, hi := bounds(cfg)
				return transform.Mask(t, frame.MaskWhere(t, transform.Between(lo, hi)))
			},
		},
	}
}

func bounds(cfg StepConfig) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if cfg.Min != nil {
		lo = *cfg.Min
	}
	if cfg.Max != nil {
		hi = *cfg.Max
	}
	return lo, hi
}
