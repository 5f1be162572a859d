package http

import (
	"context"

	api "factorframe/pkg/contracts/api/v1"
)

// TransformServiceInterface is the part of services.TransformService used
// by TransformHandler.
type TransformServiceInterface interface {
	Operations() []api.Operation
	HasOperation(op string) bool
	Transform(ctx context.Context, op string, req api.TransformRequest) (any, error)
	RunPipeline(ctx context.Context, req api.PipelineRunRequest) (*api.PipelineRunResponse, error)
	Mask(ctx context.Context, req api.MaskRequest) (*api.TableResponse, error)
	Partition(ctx context.Context, req api.PartitionRequest) (*api.PartitionResponse, error)
}
