package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
	"factorframe/internal/transform"
)

// Result is the output of a pipeline run.
type Result struct {
	Name  string
	Table *frame.Table
	Steps []StepSummary
}

// StepSummary describes the table produced by one step.
type StepSummary struct {
	Index    int
	Op       string
	Rows     int
	Cols     int
	Missing  int
	Duration time.Duration
}

// Runner executes definitions against tables.
type Runner struct {
	registry    *Registry
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *stepMetrics
	parallelism int
}

type runnerConfig struct {
	parallelism    int
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

// WithParallelism is passed to every step as transform.WithParallelism.
func WithParallelism(n int) RunnerOption {
	return func(c *runnerConfig) { c.parallelism = n }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) RunnerOption {
	return func(c *runnerConfig) { c.tracerProvider = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) RunnerOption {
	return func(c *runnerConfig) { c.meterProvider = mp }
}

// NewRunner creates a runner over registry. A nil registry uses
// DefaultRegistry and a nil logger uses slog.Default.
func NewRunner(registry *Registry, logger *slog.Logger, opts ...RunnerOption) (*Runner, error) {
	cfg := runnerConfig{
		parallelism:    1,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := newStepMetrics(cfg.meterProvider.Meter(InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &Runner{
		registry:    registry,
		logger:      logger.With(slog.String("component", "pipeline_runner")),
		tracer:      cfg.tracerProvider.Tracer(InstrumentationName),
		metrics:     metrics,
		parallelism: cfg.parallelism,
	}, nil
}

// Registry returns the runner's step registry.
func (r *Runner) Registry() *Registry { return r.registry }

// Check validates def and the parameters of every step without running
// anything.
func (r *Runner) Check(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	for i, cfg := range def.Steps {
		step, err := r.registry.Get(cfg.Op)
		if err != nil {
			return stepError(i, cfg.Op, err)
		}
		if err := step.Check(cfg); err != nil {
			return stepError(i, cfg.Op, err)
		}
	}
	return nil
}

// Run checks def, then applies its steps in order, feeding each step the
// previous output. The first failing step aborts the run; no partial
// result is returned.
func (r *Runner) Run(ctx context.Context, t *frame.Table, def *Definition) (*Result, error) {
	if err := r.Check(def); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.name", def.Name),
			attribute.Int("pipeline.steps", len(def.Steps)),
		),
	)
	defer span.End()

	rows, cols := t.Shape()
	r.logger.InfoContext(ctx, "pipeline_start",
		slog.String("pipeline", def.Name),
		slog.Int("steps", len(def.Steps)),
		slog.Int("rows", rows),
		slog.Int("cols", cols))

	start := time.Now()
	res := &Result{Name: def.Name, Steps: make([]StepSummary, 0, len(def.Steps))}
	current := t

	for i, cfg := range def.Steps {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, stepError(i, cfg.Op, err)
		}

		out, summary, err := r.runStep(ctx, i, cfg, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		res.Steps = append(res.Steps, summary)
		current = out
	}

	res.Table = current
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "pipeline_complete",
		slog.String("pipeline", def.Name),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, i int, cfg StepConfig, in *frame.Table) (*frame.Table, StepSummary, error) {
	step, err := r.registry.Get(cfg.Op)
	if err != nil {
		return nil, StepSummary{}, stepError(i, cfg.Op, err)
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.step."+cfg.Op,
		trace.WithAttributes(
			attribute.Int("step.index", i),
			attribute.String("step.op", cfg.Op),
		),
	)
	defer span.End()

	opAttr := metric.WithAttributes(attribute.String("op", cfg.Op))
	start := time.Now()
	out, err := step.Apply(in, cfg, transform.WithParallelism(r.parallelism))
	elapsed := time.Since(start)
	r.metrics.duration.Record(ctx, elapsed.Seconds(), opAttr)

	if err != nil {
		r.metrics.failures.Add(ctx, 1, opAttr)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(ctx, "step_error",
			slog.Int("step", i),
			slog.String("op", cfg.Op),
			slog.String("error", err.Error()))
		return nil, StepSummary{}, stepError(i, cfg.Op, err)
	}

	rows, cols := out.Shape()
	summary := StepSummary{
		Index:    i,
		Op:       cfg.Op,
		Rows:     rows,
		Cols:     cols,
		Missing:  out.MissingCount(),
		Duration: elapsed,
	}

	r.metrics.cells.Add(ctx, int64(rows*cols), opAttr)
	r.metrics.missing.Add(ctx, int64(summary.Missing), opAttr)
	span.SetAttributes(
		attribute.Int("step.rows", rows),
		attribute.Int("step.cols", cols),
		attribute.Int("step.missing", summary.Missing),
	)
	r.logger.DebugContext(ctx, "step_complete",
		slog.Int("step", i),
		slog.String("op", cfg.Op),
		slog.Int("missing", summary.Missing),
		slog.Duration("duration", elapsed))

	return out, summary, nil
}

// stepError prefixes err with the step position. AppErrors also record it
// in their context so API clients can see which step failed.
func stepError(i int, op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		appErr.WithContext("step", i).WithContext("op", op)
	}
	return fmt.Errorf("step %d (%s): %w", i, op, err)
}
