package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"factorframe/internal/config"
	apierrors "factorframe/internal/errors"
	"factorframe/internal/infrastructure"
	customMiddleware "factorframe/internal/middleware"
	"factorframe/internal/pipeline"
	"factorframe/internal/services"
	handlers "factorframe/internal/transport/http"
	"factorframe/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Runner    *pipeline.Runner
	Services  *ServiceContainer

	errHandler *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Transform *services.TransformService
	Health    *services.HealthService
}

// New wires an application from cfg. A nil tel builds telemetry from
// cfg.Telemetry; the application owns it either way and shuts it down in
// Stop.
func New(cfg *config.Config, logger *slog.Logger, tel *infrastructure.Telemetry) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		var err error
		tel, err = infrastructure.NewTelemetry(cfg.Telemetry, contracts.Version, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	a := &Application{
		Config:     cfg,
		Logger:     infrastructure.WithComponent(logger, "app"),
		Telemetry:  tel,
		errHandler: apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := a.initializeServices(logger); err != nil {
		return nil, err
	}
	a.setupRouter(logger)
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices(logger *slog.Logger) error {
	runner, err := pipeline.NewRunner(nil, logger,
		pipeline.WithParallelism(a.Config.Engine.Parallelism),
		pipeline.WithTracerProvider(a.Telemetry.TracerProvider),
		pipeline.WithMeterProvider(a.Telemetry.MeterProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline runner: %w", err)
	}
	a.Runner = runner

	a.Services = &ServiceContainer{
		Transform: services.NewTransformService(runner, a.Config.Engine, logger),
		Health:    services.NewHealthService(contracts.Version, runner.Registry(), logger),
	}

	a.Logger.Info("services initialized",
		slog.Int("operations", runner.Registry().Count()),
		slog.Int("parallelism", a.Config.Engine.Parallelism))
	return nil
}

// setupRouter orders middleware RequestID, RealIP, OTel, logger,
// recoverer, then the security layers. Metrics are served outside the
// rate-limited group.
func (a *Application) setupRouter(logger *slog.Logger) {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelhttp.NewMiddleware(a.Config.Telemetry.ServiceName,
		otelhttp.WithTracerProvider(a.Telemetry.TracerProvider),
		otelhttp.WithMeterProvider(a.Telemetry.MeterProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	))
	r.Use(customMiddleware.StructuredLogger(logger))
	r.Use(customMiddleware.Recoverer(a.errHandler))
	r.Use(customMiddleware.SecurityHeaders)

	sec := a.Config.Security
	if sec.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{AllowedOrigins: sec.AllowedOrigins}))
	}

	r.NotFound(a.errHandler.NotFound)
	r.MethodNotAllowed(a.errHandler.MethodNotAllowed)

	if a.Config.Telemetry.MetricsEnabled && a.Telemetry.MetricsHandler != nil {
		r.Handle(a.Config.Telemetry.MetricsPath, a.Telemetry.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if sec.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(sec.RateLimit.RPS, sec.RateLimit.Burst, a.errHandler, logger).Handler)
		}
		r.Use(customMiddleware.BodyLimit(a.Config.Server.MaxBodyBytes, a.errHandler))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.RequireJSON(a.errHandler))

		a.setupAPIRoutes(r, logger)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, logger *slog.Logger) {
	transformHandler := handlers.NewTransformHandler(a.Services.Transform, logger, a.errHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, logger)

	r.Mount("/api/v1", transformHandler.Routes())
	r.Mount("/api", healthHandler.Routes())
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	s := a.Config.Server
	a.Server = &http.Server{
		Addr:           s.Addr(),
		Handler:        a.Router,
		ReadTimeout:    s.ReadTimeout,
		WriteTimeout:   s.WriteTimeout,
		IdleTimeout:    s.IdleTimeout,
		MaxHeaderBytes: s.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.Server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()
	return a.Stop(shutdownCtx)
}

// Stop gracefully stops the server and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "error shutting down telemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}
