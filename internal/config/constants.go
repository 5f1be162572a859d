package config

import "time"

const (
	AppName = "factorframe"

	// EnvPrefix namespaces every environment variable, e.g. FACTORFRAME_SERVER_PORT.
	EnvPrefix = "FACTORFRAME"

	// ConfigFileEnv names the variable holding the YAML config path.
	ConfigFileEnv     = "FACTORFRAME_CONFIG"
	DefaultConfigFile = "config.yaml"
)

// Server defaults
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultMaxBodyBytes    = 32 << 20
)

// Engine limits
const (
	DefaultMaxRows    = 1_000_000
	DefaultMaxColumns = 10_000
)
