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

	"github.com/abdul-hamid-achik/qimage/internal/api"
	"github.com/abdul-hamid-achik/qimage/internal/config"
	"github.com/abdul-hamid-achik/qimage/internal/logger"
	"github.com/abdul-hamid-achik/qimage/internal/metrics"
	"github.com/abdul-hamid-achik/qimage/internal/qimage/version"
	"github.com/abdul-hamid-achik/qimage/internal/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Default()

	log.Info("configuration loaded",
		"upload_dir", cfg.UploadDir,
		"output_dir", cfg.OutputDir,
		"watermark", cfg.WatermarkPath,
	)

	ctx := context.Background()

	if cfg.TracingEnabled {
		shutdownTracing, err := tracing.Init(ctx, &tracing.Config{
			ServiceName:    tracing.DefaultServiceName,
			ServiceVersion: version.Short(),
			Environment:    cfg.Environment,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			Enabled:        true,
			SampleRate:     cfg.TraceSampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() { _ = shutdownTracing(ctx) }()
		log.Info("tracing enabled", "endpoint", cfg.OTLPEndpoint, "sample_rate", cfg.TraceSampleRate)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	metrics.SetAppInfo(version.Short(), cfg.Environment, "api")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	apiRouter := api.NewRouter(&api.Config{
		Processor:     cfg.Processor(),
		UploadDir:     cfg.UploadDir,
		OutputDir:     cfg.OutputDir,
		MaxUploadSize: cfg.MaxUploadSize,
		DevMode:       cfg.Environment == "development",
	})
	mux.Handle("/v1/", apiRouter)
	mux.Handle("/health", apiRouter)
	mux.Handle("/health/", apiRouter)

	handler := api.SecurityHeaders(metrics.HTTPMetricsMiddleware(api.Recovery(api.RequestID(api.RequestLogger(mux)))))
	if cfg.TracingEnabled {
		handler = tracing.HTTPMiddleware(tracing.DefaultServiceName)(handler)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      http.TimeoutHandler(handler, cfg.RequestTimeout, "request timed out"),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		log.Info("server starting", "port", cfg.Port, "url", cfg.BaseURL)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return fmt.Errorf("forced shutdown: %w", err)
		}
	}

	log.Info("server stopped gracefully")
	return nil
}
