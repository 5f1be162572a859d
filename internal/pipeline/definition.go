package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/validation"
)

// Definition is an ordered list of steps, usually loaded from YAML:
//
//	name: momentum
//	steps:
//	  - op: pct_change
//	    periods: 20
//	  - op: percentile_rank
type Definition struct {
	Name  string       `yaml:"name" json:"name"`
	Steps []StepConfig `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
}

// StepConfig parameterizes one step. Which fields apply depends on Op.
type StepConfig struct {
	Op string `yaml:"op" json:"op" validate:"required"`

	// Window is the trailing window length for rolling_max and rolling_std.
	Window int `yaml:"window,omitempty" json:"window,omitempty" validate:"gte=0"`

	// Periods is the lag for pct_change (default 1) and the shift amount
	// for shift (required, may be negative).
	Periods *int `yaml:"periods,omitempty" json:"periods,omitempty"`

	// Fill replaces vacated rows in shift.
	Fill *float64 `yaml:"fill,omitempty" json:"fill,omitempty"`

	// Min and Max bound mask_between. Either may be omitted.
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`

	// Output names the column produced by row_mean.
	Output string `yaml:"output,omitempty" json:"output,omitempty" validate:"omitempty,max=128"`
}

// ParseDefinition decodes and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, apperrors.NewParsingError("invalid pipeline definition", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition reads a YAML definition from path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline definition: %w", err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = path
	}
	return def, nil
}

// Validate checks the struct tags. Op-specific parameters are checked by
// the registered step, see Runner.Check.
func (d *Definition) Validate() error {
	return validation.Struct(d)
}

// PeriodsOr returns Periods or def when unset.
func (c StepConfig) PeriodsOr(def int) int {
	if c.Periods == nil {
		return def
	}
	return *c.Periods
}
