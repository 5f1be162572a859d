// Command factorframe-server serves the factorframe HTTP API.
//
// Configuration is read from defaults, an optional YAML file (-config or
// FACTORFRAME_CONFIG) and FACTORFRAME_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"factorframe/internal/app"
	"factorframe/internal/config"
	"factorframe/internal/infrastructure"
	"factorframe/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (overrides "+config.ConfigFileEnv+")")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	tel, err := infrastructure.NewTelemetry(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	tel.SetGlobal()

	application, err := app.New(cfg, logger, tel)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}
