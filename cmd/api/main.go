package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/therabot-ai/therabot-platform/internal/api/router"
	"github.com/therabot-ai/therabot-platform/internal/app/bootstrap"
	"github.com/therabot-ai/therabot-platform/internal/chat"
	appconfig "github.com/therabot-ai/therabot-platform/internal/config"
	"github.com/therabot-ai/therabot-platform/internal/observability/metrics"
	"github.com/therabot-ai/therabot-platform/internal/safety"
	"github.com/therabot-ai/therabot-platform/internal/therapist"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

func main() {
	// Load .env in development; missing file is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting therabot-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	classifier := safety.NewClassifier(safety.Config{
		CrisisConfidence: cfg.CrisisConfidence,
		DangerThreshold:  cfg.DangerThreshold,
		WarningThreshold: cfg.WarningThreshold,
	}, logger)

	engine, err := therapist.NewEngine(logger)
	if err != nil {
		logger.Error("failed to build response engine", "error", err)
		os.Exit(1)
	}

	store := bootstrap.BuildSessionStore(context.Background(), cfg, logger)
	if fs, ok := store.(interface{ SetOnDegrade(func()) }); ok {
		fs.SetOnDegrade(pipelineMetrics.ObserveStoreFallback)
	}

	service := chat.NewService(classifier, store, engine, logger, pipelineMetrics,
		chat.WithHistoryLimit(cfg.HistoryLimit))
	chatHandler := chat.NewHandler(service, classifier, store, logger,
		chat.WithMaxMessageLen(cfg.MaxMessageLen))

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRatePerSec:     5,
		ChatRateBurst:      10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
