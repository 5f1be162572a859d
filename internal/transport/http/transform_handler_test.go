package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorframe/internal/config"
	apierrors "factorframe/internal/errors"
	"factorframe/internal/middleware"
	"factorframe/internal/pipeline"
	"factorframe/internal/services"
	"factorframe/internal/shared/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errHandler := apierrors.NewErrorHandler(logger, false)

	runner, err := pipeline.NewRunner(nil, logger)
	require.NoError(t, err)
	transforms := services.NewTransformService(runner, config.EngineConfig{MaxRows: 100, MaxColumns: 10}, logger)
	health := services.NewHealthService("test", runner.Registry(), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.BodyLimit(1<<16, errHandler))
	r.Mount("/api/v1", NewTransformHandler(transforms, logger, errHandler).Routes())
	r.Mount("/api", NewHealthHandler(health, logger).Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

const priceTable = `{"columns":[
	{"name":"a","values":[10,11,null,12]},
	{"name":"b","values":[20,18,19,"NaN"]}
]}`

func TestTransformHandler_Transform(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "rolling max",
			path:       "/api/v1/transforms/rolling_max",
			body:       `{"table":` + priceTable + `,"window":2}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				cols := body["table"].(map[string]any)["columns"].([]any)
				a := cols[0].(map[string]any)
				assert.Equal(t, "a", a["name"])
				assert.Equal(t, []any{nil, 11.0, nil, nil}, a["values"])
			},
		},
		{
			name:       "row mean returns values",
			path:       "/api/v1/transforms/row_mean",
			body:       `{"table":{"columns":[{"name":"a","values":[1,null]},{"name":"b","values":[3,4]}]},"output":"avg"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "avg", body["name"])
				assert.Equal(t, []any{2.0, 4.0}, body["values"])
			},
		},
		{
			name:       "non-finite values are encoded as strings",
			path:       "/api/v1/transforms/zscore",
			body:       `{"table":{"columns":[{"name":"a","values":[1]},{"name":"b","values":[1]}]}}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				cols := body["table"].(map[string]any)["columns"].([]any)
				assert.Equal(t, []any{"NaN"}, cols[0].(map[string]any)["values"])
			},
		},
		{
			name:       "unknown operation",
			path:       "/api/v1/transforms/median",
			body:       `{"table":` + priceTable + `}`,
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "UNKNOWN_OPERATION", body["error_code"])
			},
		},
		{
			name:       "insufficient data",
			path:       "/api/v1/transforms/zscore",
			body:       `{"table":` + priceTable + `}`,
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apierrors.TypeInsufficientData, body["type"])
				assert.Equal(t, "INSUFFICIENT_DATA", body["error_code"])
				assert.NotEmpty(t, body["trace_id"])
				ctx := body["context"].(map[string]any)
				assert.Equal(t, 2.0, ctx["row"])
			},
		},
		{
			name:       "invalid window",
			path:       "/api/v1/transforms/rolling_std",
			body:       `{"table":` + priceTable + `}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apierrors.TypeInvalidArgument, body["type"])
			},
		},
		{
			name:       "ragged table",
			path:       "/api/v1/transforms/percentile_rank",
			body:       `{"table":{"columns":[{"name":"a","values":[1,2]},{"name":"b","values":[1]}]}}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing table",
			path:       "/api/v1/transforms/percentile_rank",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, apierrors.TypeValidation, body["type"])
			},
		},
		{
			name:       "malformed json",
			path:       "/api/v1/transforms/percentile_rank",
			body:       `{"table":`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "INVALID_REQUEST", body["error_code"])
			},
		},
		{
			name:       "bad cell",
			path:       "/api/v1/transforms/percentile_rank",
			body:       `{"table":{"columns":[{"name":"a","values":["x"]}]}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			path:       "/api/v1/transforms/percentile_rank",
			body:       ``,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "body too large",
			path:       "/api/v1/transforms/percentile_rank",
			body:       `{"table":` + strings.Repeat(" ", 1<<16) + `}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestTransformHandler_RunPipeline(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"momentum","table":` + priceTable + `,"steps":[
		{"op":"pct_change"},
		{"op":"percentile_rank"}
	]}`
	rec, out := do(t, router, http.MethodPost, "/api/v1/pipelines/run", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "momentum", out["name"])
	steps := out["steps"].([]any)
	require.Len(t, steps, 2)
	assert.Equal(t, "pct_change", steps[0].(map[string]any)["op"])
	assert.Equal(t, 4.0, steps[1].(map[string]any)["rows"])

	// row 1: a +10%, b -10%. NaN is a value, so b ranks alone in row 3.
	cols := out["table"].(map[string]any)["columns"].([]any)
	assert.Equal(t, []any{nil, 1.0, nil, nil}, cols[0].(map[string]any)["values"])
	assert.Equal(t, []any{nil, 0.5, 1.0, 1.0}, cols[1].(map[string]any)["values"])

	rec, out = do(t, router, http.MethodPost, "/api/v1/pipelines/run",
		`{"table":`+priceTable+`,"steps":[{"op":"shift"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["detail"], "shift requires periods")
}

func TestTransformHandler_MaskAndPartition(t *testing.T) {
	router := newTestRouter(t)

	rec, out := do(t, router, http.MethodPost, "/api/v1/mask", `{
		"table":{"columns":[{"name":"a","values":[1,2]}]},
		"mask":{"columns":[{"name":"a","values":[false,true]}]}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cols := out["table"].(map[string]any)["columns"].([]any)
	assert.Equal(t, []any{nil, 2.0}, cols[0].(map[string]any)["values"])

	rec, _ = do(t, router, http.MethodPost, "/api/v1/mask", `{
		"table":{"columns":[{"name":"a","values":[1,2]}]},
		"mask":{"columns":[{"name":"a","values":[true]}]}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, out = do(t, router, http.MethodPost, "/api/v1/partition", `{
		"table":`+priceTable+`,
		"categories":{"a":"banks","b":"telecom"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	parts := out["partitions"].(map[string]any)
	assert.Len(t, parts, 2)
	assert.Contains(t, parts, "banks")
}

func TestTransformHandler_ListOperations(t *testing.T) {
	rec, out := do(t, newTestRouter(t), http.MethodGet, "/api/v1/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ops := out["operations"].([]any)
	assert.Len(t, ops, 8)
	assert.Equal(t, "percentile_rank", ops[0].(map[string]any)["id"])
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t)

	rec, out := do(t, router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "test", out["version"])

	rec, out = do(t, router, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", out["version"])
	assert.Equal(t, "v1", out["api_version"])
}
