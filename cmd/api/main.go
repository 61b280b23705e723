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

	"github.com/c2h5oh/datasize"
	"github.com/mockstack/mockstack/cmd/api/api"
	"github.com/mockstack/mockstack/cmd/api/config"
	"github.com/mockstack/mockstack/lib/attachments"
	"github.com/mockstack/mockstack/lib/identity"
	"github.com/mockstack/mockstack/lib/images"
	"github.com/mockstack/mockstack/lib/logger"
	mw "github.com/mockstack/mockstack/lib/middleware"
	"github.com/mockstack/mockstack/lib/otel"
	"github.com/mockstack/mockstack/lib/paths"
	"github.com/mockstack/mockstack/lib/servers"
	"github.com/mockstack/mockstack/lib/store"
	"github.com/mockstack/mockstack/lib/volumes"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application terminated", "error", err)
		os.Exit(1)
	}
	slog.Info("main() exiting normally")
}

func run() error {
	// Load config early for OTel initialization
	cfg := config.Load()

	otelCfg := otel.Config{
		Enabled:           cfg.OtelEnabled,
		Endpoint:          cfg.OtelEndpoint,
		ServiceName:       cfg.OtelServiceName,
		ServiceInstanceID: cfg.OtelServiceInstanceID,
		Insecure:          cfg.OtelInsecure,
		Version:           cfg.Version,
		Env:               cfg.Env,
	}

	otelProvider, otelShutdown, err := otel.Init(context.Background(), otelCfg)
	if err != nil {
		// Log warning but don't fail - graceful degradation
		slog.Warn("failed to initialize OpenTelemetry, continuing without telemetry", "error", err)
	}
	if otelShutdown != nil {
		defer func() {
			slog.Info("shutting down OpenTelemetry")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				slog.Warn("error shutting down OpenTelemetry", "error", err)
			}
			slog.Info("OpenTelemetry shutdown complete")
		}()
	}

	var otelLogHandler slog.Handler
	if otelProvider != nil {
		otelLogHandler = otelProvider.LogHandler
	}

	logCfg := logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
	log := logger.New(logCfg, otelLogHandler)
	slog.SetDefault(log)

	if cfg.OtelEnabled {
		log.Info("OpenTelemetry enabled", "endpoint", cfg.OtelEndpoint, "service", cfg.OtelServiceName)
	}

	// Validate request size limit
	var maxRequestSize datasize.ByteSize
	if err := maxRequestSize.UnmarshalText([]byte(cfg.MaxRequestSize)); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_SIZE %q: %w", cfg.MaxRequestSize, err)
	}

	// Open the store. This seeds missing collections and rewrites every
	// document, so the data directory is fully materialized before the
	// server accepts requests.
	st, err := store.Open(paths.New(cfg.DataDir), log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	log.Info("store ready", "data_dir", cfg.DataDir)

	identityManager := identity.NewManager(st)
	imageManager := images.NewManager(st)
	volumeManager := volumes.NewManager(st)
	serverManager := servers.NewManager(st)
	attachmentManager := attachments.NewManager(st)

	apiService := api.New(cfg, identityManager, imageManager, volumeManager, serverManager, attachmentManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer func() {
		slog.Info("stopping signal handler")
		stop()
		slog.Info("signal handler stopped")
	}()

	// Prepare HTTP metrics middleware (applied inside the API group, not globally)
	var httpMetricsMw func(http.Handler) http.Handler
	if otelProvider != nil && otelProvider.Meter != nil {
		httpMetrics, err := mw.NewHTTPMetrics(otelProvider.Meter)
		if err == nil {
			httpMetricsMw = httpMetrics.Middleware
		}
	}

	// Create access logger with OTel handler for HTTP request logging with trace correlation
	accessLogger := mw.NewAccessLogger(logCfg, otelLogHandler)

	r := api.NewRouter(apiService, api.RouterConfig{
		Logger:          log,
		AccessLogger:    accessLogger,
		Auth:            identityManager,
		MaxRequestBytes: int64(maxRequestSize),
		OtelEnabled:     cfg.OtelEnabled,
		OtelServiceName: cfg.OtelServiceName,
		HTTPMetrics:     httpMetricsMw,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Error group for coordinated shutdown
	grp, gctx := errgroup.WithContext(ctx)

	// Run the server
	grp.Go(func() error {
		log.Info("starting mockstack API", "port", cfg.Port, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			return err
		}
		return nil
	})

	// Shutdown handler
	grp.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		// Use WithoutCancel to preserve context values while preventing cancellation
		shutdownCtx := context.WithoutCancel(gctx)
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown http server", "error", err)
			return err
		}
		log.Info("http server shutdown complete")
		return nil
	})

	err = grp.Wait()
	slog.Info("all goroutines finished")
	return err
}
