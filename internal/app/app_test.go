package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorframe/internal/config"
	"factorframe/internal/shared/testutil"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.ShutdownTimeout = 5 * time.Second
	if mutate != nil {
		mutate(cfg)
	}

	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger, nil)
	require.NoError(t, err)
	return a
}

func serve(a *Application, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	a := newTestApp(t, nil)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Runner)
	assert.NotNil(t, a.Services.Transform)
	assert.NotNil(t, a.Services.Health)
	assert.Equal(t, "127.0.0.1:8080", a.Server.Addr)
	assert.Equal(t, config.DefaultReadTimeout, a.Server.ReadTimeout)
	assert.Equal(t, config.DefaultMaxHeaderBytes, a.Server.MaxHeaderBytes)

	_, err := New(&config.Config{Telemetry: config.TelemetryConfig{TraceExporter: "zipkin"}}, nil, nil)
	assert.Error(t, err)
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{
			name:       "health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ok"`,
		},
		{
			name:       "version",
			method:     http.MethodGet,
			path:       "/api/version",
			wantStatus: http.StatusOK,
			wantBody:   `"api_version":"v1"`,
		},
		{
			name:       "operations",
			method:     http.MethodGet,
			path:       "/api/v1/operations",
			wantStatus: http.StatusOK,
			wantBody:   `"id":"percentile_rank"`,
		},
		{
			name:        "transform",
			method:      http.MethodPost,
			path:        "/api/v1/transforms/percentile_rank",
			contentType: "application/json",
			body:        `{"table":{"columns":[{"name":"a","values":[1,2]},{"name":"b","values":[2,1]}]}}`,
			wantStatus:  http.StatusOK,
			wantBody:    `{"name":"a","values":[0.5,1]}`,
		},
		{
			name:        "wrong content type",
			method:      http.MethodPost,
			path:        "/api/v1/transforms/percentile_rank",
			contentType: "text/csv",
			body:        "a,b\n1,2\n",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantBody:    `"error_code":"UNSUPPORTED_MEDIA_TYPE"`,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/v2/nothing",
			wantStatus: http.StatusNotFound,
			wantBody:   `"type":"/errors/not-found"`,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			path:       "/api/v1/pipelines/run",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "metrics",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
			wantBody:   "go_goroutines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(a, tt.method, tt.path, tt.contentType, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplication_CORS(t *testing.T) {
	rec := serve(newTestApp(t, nil), http.MethodGet, "/api/health", "", "")
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(newTestApp(t, func(c *config.Config) { c.Security.EnableCORS = false }),
		http.MethodGet, "/api/health", "", "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_RateLimit(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Security.RateLimit.RPS = 0.001
		c.Security.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/api/health", "", "").Code)
	rec := serve(a, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// metrics stay reachable when the API is throttled
	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/metrics", "", "").Code)
}

func TestApplication_BodyLimit(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Server.MaxBodyBytes = 32 })

	rec := serve(a, http.MethodPost, "/api/v1/transforms/zscore", "application/json",
		`{"table":{"columns":[{"name":"a","values":[1,2,3,4,5,6,7,8]}]}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestApplication_MetricsDisabled(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Telemetry.MetricsEnabled = false })
	assert.Equal(t, http.StatusNotFound, serve(a, http.MethodGet, "/metrics", "", "").Code)
}

func TestApplication_Serve(t *testing.T) {
	a := newTestApp(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health["status"])

	cancel()
	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/api/health")
	assert.Error(t, err)
}

func TestApplication_RunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	a := newTestApp(t, nil)
	a.Server.Addr = net.JoinHostPort("127.0.0.1", port)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
