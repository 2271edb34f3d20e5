package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/functions/internal/cache"
	"github.com/UnknownOlympus/functions/internal/config"
	"github.com/UnknownOlympus/functions/internal/dataset"
	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/UnknownOlympus/functions/internal/geocoding"
	"github.com/UnknownOlympus/functions/internal/metrics"
	"github.com/UnknownOlympus/functions/internal/repository"
	"github.com/UnknownOlympus/functions/internal/server"
	"github.com/UnknownOlympus/functions/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// healthCheck pings one backing resource.
type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

func main() {
	// Cancelled on SIGINT/SIGTERM; also the lifetime of background work started by functions.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	schools, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.InfoContext(ctx, "Dataset loaded", "schools", schools.Len())

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:   geocoding.ProviderType(cfg.GeocoderType),
		APIKey: cfg.GeocoderKey,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.GeocoderType)

	var checks []healthCheck

	// The postgres and redis functions stay registered without their backends and answer 503.
	var repo repository.Interface
	if dsn := cfg.Database.DSN(); dsn != "" {
		pool, errDB := repository.NewDatabase(ctx, dsn)
		if errDB != nil {
			log.Fatalf("Failed to connect to DB: %v", errDB)
		}
		defer pool.Close()

		pgRepo := repository.NewRepository(pool, logger)
		if errDB = pgRepo.EnsureSchema(ctx); errDB != nil {
			log.Fatalf("Failed to prepare DB schema: %v", errDB)
		}
		repo = pgRepo
		checks = append(checks, healthCheck{name: "postgres", ping: pool.Ping})
	}

	var store functions.InvocationStore
	if cfg.RedisURL != "" {
		client, errRedis := cache.NewRedisClient(ctx, cfg.RedisURL)
		if errRedis != nil {
			log.Fatalf("Failed to connect to Redis: %v", errRedis)
		}
		defer client.Close()

		store = cache.NewRedisStore(client, logger)
		checks = append(checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}

	loggerFn := functions.NewLogger(ctx, logger)
	registry := functions.NewRegistry(
		functions.NewProcessLargeData(schools, geoProvider, logger),
		functions.NewInvocationEvent(logger),
		loggerFn,
		functions.NewEnvironment(cfg.PasswordSalt, logger),
		functions.NewPostgres(repo, logger),
		functions.NewRedis(store, logger),
	)
	invoker := service.NewInvoker(logger, registry, appMetrics)

	readHeaderTimeout := 5
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.NewRouter(invoker, appMetrics, logger),
		ReadHeaderTimeout: time.Duration(readHeaderTimeout) * time.Second,
	}

	go startMonitoringServer(ctx, logger, reg, checks, cfg.HealthPort)

	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.Port, "functions", invoker.Functions())
		if errServe := apiServer.ListenAndServe(); !errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", errServe)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "API server shutdown failed", "error", err)
	}
	loggerFn.Wait()

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// startMonitoringServer serves /healthz and /metrics on port until ctx is cancelled.
// /healthz answers 503 as soon as one of the checks fails.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	checks []healthCheck,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(req.Context(), "Performing health checks...")
		status, body := http.StatusOK, "OK"
		for _, check := range checks {
			if err := check.ping(req.Context()); err != nil {
				log.WarnContext(req.Context(), "Health check failed", "check", check.name, "error", err)
				status, body = http.StatusServiceUnavailable, check.name+" ping failed"
				break
			}
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(req.Context(), "failed to write reply", "error", err)
		}

		log.DebugContext(req.Context(), "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readTimeout := 5
	writeTimeout := 10
	monitoring := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = monitoring.Close()
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := monitoring.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
