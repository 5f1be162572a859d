package services

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"factorframe/internal/config"
	apperrors "factorframe/internal/errors"
	"factorframe/internal/frame"
	"factorframe/internal/pipeline"
	"factorframe/internal/transform"
	"factorframe/internal/validation"
	api "factorframe/pkg/contracts/api/v1"
)

// TransformService applies operations to tables submitted over the API.
type TransformService struct {
	runner *pipeline.Runner
	limits config.EngineConfig
	logger *slog.Logger
}

// NewTransformService creates a transform service. Zero limits disable
// the corresponding size check.
func NewTransformService(runner *pipeline.Runner, limits config.EngineConfig, logger *slog.Logger) *TransformService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformService{
		runner: runner,
		limits: limits,
		logger: logger.With(slog.String("component", "transform_service")),
	}
}

// Operations lists the registered operations in registration order.
func (s *TransformService) Operations() []api.Operation {
	steps := s.runner.Registry().List()
	out := make([]api.Operation, len(steps))
	for i, step := range steps {
		out[i] = api.Operation{ID: step.ID(), Description: step.Description()}
	}
	return out
}

// HasOperation reports whether op is registered.
func (s *TransformService) HasOperation(op string) bool {
	return s.runner.Registry().Has(op)
}

// Transform applies a single operation. It returns *api.ValuesResponse
// for row_mean and *api.TableResponse for everything else.
func (s *TransformService) Transform(ctx context.Context, op string, req api.TransformRequest) (any, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	t, err := s.table(req.Table)
	if err != nil {
		return nil, err
	}

	def := &pipeline.Definition{Name: op, Steps: []pipeline.StepConfig{stepConfig(op, req.StepParams)}}
	res, err := s.runner.Run(ctx, t, def)
	if err != nil {
		return nil, err
	}

	if op == pipeline.OpRowMean {
		name := res.Table.Names()[0]
		return &api.ValuesResponse{Name: name, Values: cellsToContract(res.Table.ColumnAt(0))}, nil
	}
	return &api.TableResponse{Table: TableToContract(res.Table)}, nil
}

// RunPipeline runs req.Steps in order and reports a summary per step.
func (s *TransformService) RunPipeline(ctx context.Context, req api.PipelineRunRequest) (*api.PipelineRunResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	t, err := s.table(req.Table)
	if err != nil {
		return nil, err
	}

	def := &pipeline.Definition{Name: req.Name, Steps: make([]pipeline.StepConfig, len(req.Steps))}
	for i, step := range req.Steps {
		def.Steps[i] = stepConfig(step.Op, step.StepParams)
	}

	res, err := s.runner.Run(ctx, t, def)
	if err != nil {
		return nil, err
	}

	resp := &api.PipelineRunResponse{
		Name:  res.Name,
		Table: TableToContract(res.Table),
		Steps: make([]api.StepSummary, len(res.Steps)),
	}
	for i, st := range res.Steps {
		resp.Steps[i] = api.StepSummary{
			Index:      st.Index,
			Op:         st.Op,
			Rows:       st.Rows,
			Columns:    st.Cols,
			Missing:    st.Missing,
			DurationMS: float64(st.Duration.Microseconds()) / 1000,
		}
	}
	return resp, nil
}

// Mask keeps the cells of req.Table where req.Mask is true.
func (s *TransformService) Mask(ctx context.Context, req api.MaskRequest) (*api.TableResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	t, err := s.table(req.Table)
	if err != nil {
		return nil, err
	}
	mask, err := BoolTableFromContract(req.Mask)
	if err != nil {
		return nil, err
	}

	out, err := transform.Mask(t, mask)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "mask applied",
		slog.Int("rows", out.NumRows()),
		slog.Int("missing", out.MissingCount()))
	return &api.TableResponse{Table: TableToContract(out)}, nil
}

// Partition splits req.Table by column category.
func (s *TransformService) Partition(ctx context.Context, req api.PartitionRequest) (*api.PartitionResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	t, err := s.table(req.Table)
	if err != nil {
		return nil, err
	}

	groups := frame.Partition(t, req.Categories)
	resp := &api.PartitionResponse{Partitions: make(map[string]api.Table, len(groups))}
	for cat, sub := range groups {
		resp.Partitions[cat] = TableToContract(sub)
	}
	s.logger.DebugContext(ctx, "table partitioned",
		slog.Any("categories", slices.Sorted(maps.Keys(groups))))
	return resp, nil
}

func (s *TransformService) table(in api.Table) (*frame.Table, error) {
	t, err := TableFromContract(in)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	if s.limits.MaxRows > 0 && rows > s.limits.MaxRows {
		return nil, apperrors.NewInvalidArgumentError("table has %d rows, limit is %d", rows, s.limits.MaxRows).
			WithContext("rows", rows)
	}
	if s.limits.MaxColumns > 0 && cols > s.limits.MaxColumns {
		return nil, apperrors.NewInvalidArgumentError("table has %d columns, limit is %d", cols, s.limits.MaxColumns).
			WithContext("columns", cols)
	}
	return t, nil
}

func stepConfig(op string, p api.StepParams) pipeline.StepConfig {
	return pipeline.StepConfig{
		Op:      op,
		Window:  p.Window,
		Periods: p.Periods,
		Fill:    p.Fill,
		Min:     p.Min,
		Max:     p.Max,
		Output:  p.Output,
	}
}
