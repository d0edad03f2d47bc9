// main is the entry point of the persons app.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus env overrides)
//  2. Initialise the logger
//  3. Open the configured store (MongoDB, SQLite or in-memory)
//  4. Register the HTTP routes and /metrics
//  5. Start the HTTP server in a separate goroutine
//  6. Block until SIGINT/SIGTERM arrives
//  7. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/persons-app --config=config/local.yaml
//
// or:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/persons-app
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/persons-app/internal/config"
	"github.com/aanand-mishra/persons-app/internal/http/handlers/person"
	"github.com/aanand-mishra/persons-app/internal/http/middleware"
	"github.com/aanand-mishra/persons-app/internal/metrics"
	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/storage/memory"
	"github.com/aanand-mishra/persons-app/internal/storage/mongodb"
	"github.com/aanand-mishra/persons-app/internal/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting persons-app",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      newRouter(cfg, metrics.InstrumentStorage(store)),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}
	if err := store.Close(ctx); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the backend named by cfg.Storage.Driver.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		s, err := mongodb.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// newRouter wires the person routes, /metrics and the middleware chain.
func newRouter(cfg *config.Config, store storage.Storage) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	router := http.NewServeMux()
	person.Register(router, store)
	router.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	limiter := middleware.NewRateLimiter(cfg.HTTPServer.RateLimit, cfg.HTTPServer.RateBurst)
	return middleware.Chain(router,
		middleware.RequestID,
		middleware.AccessLog,
		middleware.Recover,
		limiter.Middleware,
	)
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev: human-readable text at DEBUG level.
// staging/prod: JSON, DEBUG and INFO level respectively.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
