package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/app"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/eventbus"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/config"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	logger.Info("starting approved premises server")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize the container
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Start outbox processor
	if cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
		logger.Info("outbox processor started",
			"poll_interval", cfg.OutboxPollInterval,
			"batch_size", cfg.OutboxBatchSize,
		)
	} else {
		logger.Info("outbox processor disabled")
	}

	// In distributed mode the timeline projector also consumes events
	// published by other instances through RabbitMQ. Locally the in-process
	// bus already dispatches to it.
	if cfg.RabbitMQURL != "" {
		registry := eventbus.NewConsumerRegistry(logger)
		registry.Register(container.TimelineProjector)

		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: "approved-premises.timeline",
			Logger:    logger,
		}, registry)
		if err != nil {
			if cfg.IsDevelopment() {
				logger.Warn("RabbitMQ consumer unavailable, in-process dispatch only", "error", err)
			} else {
				logger.Error("failed to create RabbitMQ consumer", "error", err)
				os.Exit(1)
			}
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Start(ctx); err != nil {
					logger.Error("RabbitMQ consumer stopped", "error", err)
				}
			}()
			logger.Info("RabbitMQ consumer started", "queue", "approved-premises.timeline")
		}
	}

	// Health endpoints
	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(container.DBConn.Ping))
	if container.RedisClient != nil {
		health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProcessor.GetStats()
		response := map[string]any{
			"status":             "ok",
			"outbox_running":     stats.IsRunning,
			"outbox_published":   stats.PublishedCount,
			"outbox_failed":      stats.FailedCount,
			"outbox_dead":        stats.DeadCount,
			"outbox_lag_seconds": stats.LagSeconds,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		overall := health.GetOverallHealth(checkCtx)
		body, err := overall.ToJSON()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if overall.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write(body)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", "error", err)
	}

	logger.Info("approved premises server stopped")
}
