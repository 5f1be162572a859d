package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"factorframe/internal/pipeline"
	"factorframe/pkg/contracts"
	api "factorframe/pkg/contracts/api/v1"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	registry  *pipeline.Registry
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service reporting on registry.
func NewHealthService(version string, registry *pipeline.Registry, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		registry:  registry,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status. The service is degraded when
// no operations are registered.
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	status := api.HealthResponse{
		Status:    "ok",
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]string),
	}

	if n := hs.registry.Count(); n > 0 {
		status.Checks["operations"] = fmt.Sprintf("%d registered", n)
	} else {
		status.Status = "degraded"
		status.Checks["operations"] = "none registered"
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	info := contracts.GetVersionInfo()
	if hs.version != "" {
		info.Version = hs.version
	}
	return info
}
