package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factorframe/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 1, cfg.Engine.Parallelism)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("FACTORFRAME_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
}

func TestLoadFrom_Layers(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  read_timeout: 5s
logging:
  level: debug
engine:
  parallelism: 4
security:
  allowed_origins: ["http://a.example"]
`)

	tests := []struct {
		name  string
		env   map[string]string
		check func(*testing.T, *Config)
	}{
		{
			name: "file overrides defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 4, cfg.Engine.Parallelism)
				assert.Equal(t, []string{"http://a.example"}, cfg.Security.AllowedOrigins)
				// untouched keys keep their defaults
				assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
				assert.Equal(t, "/metrics", cfg.Telemetry.MetricsPath)
			},
		},
		{
			name: "env overrides file",
			env: map[string]string{
				"FACTORFRAME_SERVER_PORT":              "9100",
				"FACTORFRAME_ENGINE_PARALLELISM":       "2",
				"FACTORFRAME_SECURITY_ALLOWED_ORIGINS": "http://b.example,http://c.example",
				"FACTORFRAME_SECURITY_RATE_LIMIT_RPS":  "7.5",
				"FACTORFRAME_TELEMETRY_TRACE_EXPORTER": "stdout",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, 2, cfg.Engine.Parallelism)
				assert.Equal(t, []string{"http://b.example", "http://c.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 7.5, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadFrom(path)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_FromEnvPath(t *testing.T) {
	t.Setenv(ConfigFileEnv, writeConfig(t, "server:\n  port: 7070\n"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			wantErr: "not found",
		},
		{
			name:    "unknown key",
			path:    func(t *testing.T) string { return writeConfig(t, "server:\n  prot: 1\n") },
			wantErr: "failed to parse config file",
		},
		{
			name:    "port out of range",
			path:    func(t *testing.T) string { return writeConfig(t, "server:\n  port: 70000\n") },
			wantErr: "port must be less than or equal to 65535",
		},
		{
			name:    "bad log level",
			path:    func(t *testing.T) string { return "" },
			env:     map[string]string{"FACTORFRAME_LOGGING_LEVEL": "loud"},
			wantErr: "level must be one of: debug, info, warn, error",
		},
		{
			name:    "bad env value",
			path:    func(t *testing.T) string { return "" },
			env:     map[string]string{"FACTORFRAME_ENGINE_PARALLELISM": "many"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "file output without path",
			path:    func(t *testing.T) string { return writeConfig(t, "logging:\n  output: file\n  file_path: \"\"\n") },
			wantErr: "file_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(tt.path(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
