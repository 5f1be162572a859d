// Package services sits between the HTTP handlers and the engines. It
// converts API contracts into frame tables, enforces engine limits, runs
// operations through the pipeline runner and converts the results back.
//
// Services take their dependencies through constructors:
//
//	runner, _ := pipeline.NewRunner(nil, logger)
//	svc := services.NewTransformService(runner, cfg.Engine, logger)
//	resp, err := svc.RunPipeline(ctx, req)
//
// Errors are returned as *errors.AppError values so the transport layer
// can map them to problem details.
package services
