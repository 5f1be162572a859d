// Package config loads the factorframe configuration.
//
// Values are resolved in three layers, later layers winning:
//
//	1. Defaults compiled into Default()
//	2. An optional YAML file, FACTORFRAME_CONFIG or ./config.yaml
//	3. Environment variables prefixed with FACTORFRAME_
//
// Nested sections map to underscore-joined names:
//
//	FACTORFRAME_SERVER_PORT=9090
//	FACTORFRAME_LOGGING_LEVEL=debug
//	FACTORFRAME_ENGINE_PARALLELISM=8
//	FACTORFRAME_SECURITY_ALLOWED_ORIGINS=http://a.example,http://b.example
//
// Load validates the merged result; tests usually start from Default().
package config
