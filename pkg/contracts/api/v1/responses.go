package api

import "time"

// TableResponse carries a transformed table.
type TableResponse struct {
	Table Table `json:"table"`
}

// ValuesResponse carries a single result column, such as a row average.
type ValuesResponse struct {
	Name   string `json:"name"`
	Values []Cell `json:"values"`
}

// StepSummary describes one executed pipeline step.
type StepSummary struct {
	Index      int     `json:"index"`
	Op         string  `json:"op"`
	Rows       int     `json:"rows"`
	Columns    int     `json:"columns"`
	Missing    int     `json:"missing"`
	DurationMS float64 `json:"duration_ms"`
}

// PipelineRunResponse is the result of a pipeline run.
type PipelineRunResponse struct {
	Name  string        `json:"name,omitempty"`
	Table Table         `json:"table"`
	Steps []StepSummary `json:"steps"`
}

// PartitionResponse maps category label to the columns in that category.
type PartitionResponse struct {
	Partitions map[string]Table `json:"partitions"`
}

// Operation describes a registered transform.
type Operation struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// OperationsResponse lists the available operations.
type OperationsResponse struct {
	Operations []Operation `json:"operations"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
