// Package app wires the factorframe HTTP server: pipeline runner, services,
// handlers, middleware and the http.Server around them.
//
// # Initialization Flow
//
//	1. Load configuration (config.Load)
//	2. Initialize logging and telemetry
//	3. Build the pipeline runner with the configured parallelism
//	4. Initialize services with their dependencies
//	5. Set up the router and middleware
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.New(cfg, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// When ctx is done, Run stops accepting connections, waits up to
// Server.ShutdownTimeout for in-flight requests, and flushes telemetry.
// Errors are returned to the caller; the package never calls os.Exit.
package app
