package pipeline

import (
	"go.opentelemetry.io/otel/metric"
)

// Instrumentation scope for the runner's spans and metrics.
const InstrumentationName = "factorframe/pipeline"

type stepMetrics struct {
	duration metric.Float64Histogram
	cells    metric.Int64Counter
	missing  metric.Int64Counter
	failures metric.Int64Counter
}

func newStepMetrics(meter metric.Meter) (*stepMetrics, error) {
	duration, err := meter.Float64Histogram("factorframe.step.duration",
		metric.WithDescription("Time spent in one pipeline step"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	cells, err := meter.Int64Counter("factorframe.step.cells",
		metric.WithDescription("Cells produced by pipeline steps"),
		metric.WithUnit("{cell}"))
	if err != nil {
		return nil, err
	}
	missing, err := meter.Int64Counter("factorframe.step.missing",
		metric.WithDescription("Missing cells in pipeline step output"),
		metric.WithUnit("{cell}"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("factorframe.step.failures",
		metric.WithDescription("Pipeline steps that returned an error"))
	if err != nil {
		return nil, err
	}

	return &stepMetrics{
		duration: duration,
		cells:    cells,
		missing:  missing,
		failures: failures,
	}, nil
}
