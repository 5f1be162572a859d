package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "factorframe/internal/errors"
	api "factorframe/pkg/contracts/api/v1"
)

// TransformHandler serves the transform, pipeline, mask and partition
// endpoints.
type TransformHandler struct {
	service      TransformServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTransformHandler creates a new transform handler
func NewTransformHandler(service TransformServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TransformHandler {
	return &TransformHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "transform_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the v1 routes, mounted under /api/v1.
func (h *TransformHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/operations", h.ListOperations)
	r.Route("/transforms/{op}", func(r chi.Router) {
		r.Use(h.OperationCtx)
		r.Post("/", h.Transform)
	})
	r.Post("/pipelines/run", h.RunPipeline)
	r.Post("/mask", h.Mask)
	r.Post("/partition", h.Partition)
	return r
}

// OperationCtx rejects operations that are not registered.
func (h *TransformHandler) OperationCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := chi.URLParam(r, "op")
		if !h.service.HasOperation(op) {
			h.errorHandler.HandleError(w, r, apierrors.UnknownOperationError(op))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListOperations handles GET /api/v1/operations
func (h *TransformHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.OperationsResponse{Operations: h.service.Operations()})
}

// Transform handles POST /api/v1/transforms/{op}
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	var req api.TransformRequest
	if !h.decode(w, r, &req) {
		return
	}

	op := chi.URLParam(r, "op")
	resp, err := h.service.Transform(r.Context(), op, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// RunPipeline handles POST /api/v1/pipelines/run
func (h *TransformHandler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	var req api.PipelineRunRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.RunPipeline(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "pipeline run served",
		slog.String("pipeline", resp.Name),
		slog.Int("steps", len(resp.Steps)))
	render.JSON(w, r, resp)
}

// Mask handles POST /api/v1/mask
func (h *TransformHandler) Mask(w http.ResponseWriter, r *http.Request) {
	var req api.MaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Mask(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// Partition handles POST /api/v1/partition
func (h *TransformHandler) Partition(w http.ResponseWriter, r *http.Request) {
	var req api.PartitionRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Partition(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// decode reads a JSON body into v and reports failures itself.
func (h *TransformHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := render.DecodeJSON(r.Body, v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
	case errors.Is(err, io.EOF):
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("request body is empty"))
	default:
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
	}
	return false
}
