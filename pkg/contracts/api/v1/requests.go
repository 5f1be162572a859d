package api

// StepParams are the knobs shared by single transforms and pipeline steps.
// Which ones apply depends on the operation.
type StepParams struct {
	Window  int      `json:"window,omitempty" validate:"gte=0"`
	Periods *int     `json:"periods,omitempty"`
	Fill    *float64 `json:"fill,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Output  string   `json:"output,omitempty" validate:"omitempty,max=128"`
}

// TransformRequest applies the operation named in the URL to Table.
type TransformRequest struct {
	Table Table `json:"table"`
	StepParams
}

// Step is one pipeline step.
type Step struct {
	Op string `json:"op" validate:"required"`
	StepParams
}

// PipelineRunRequest runs Steps in order over Table.
type PipelineRunRequest struct {
	Name  string `json:"name,omitempty"`
	Table Table  `json:"table"`
	Steps []Step `json:"steps" validate:"required,min=1,dive"`
}

// MaskRequest keeps the cells of Table where Mask is true.
type MaskRequest struct {
	Table Table     `json:"table"`
	Mask  BoolTable `json:"mask"`
}

// PartitionRequest splits Table into one table per category. Categories
// maps column name to category label.
type PartitionRequest struct {
	Table      Table             `json:"table"`
	Categories map[string]string `json:"categories" validate:"required,min=1"`
}
