// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/config"
	"github.com/unclebandit/campaign-manager/internal/db"
	"github.com/unclebandit/campaign-manager/internal/logger"
	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/queue"
	"github.com/unclebandit/campaign-manager/internal/repository"
	"github.com/unclebandit/campaign-manager/internal/server"
	"github.com/unclebandit/campaign-manager/internal/service"
)

func main() {
	cfg, envFound, err := config.Load(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if !envFound {
		zlog.Info("No .env file found, relying on OS environment variables")
	}

	sqlDB, err := db.Open(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := db.Migrate(context.Background(), sqlDB); err != nil {
		zlog.Fatal("Failed to apply schema", zap.Error(err))
	}

	campaignRepo := repository.NewCampaignRepository(sqlDB)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var q queue.Queue
	if cfg.AMQP.URL != "" {
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQP.URL, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpQueue.Close()
		q = amqpQueue
		zlog.Info("Publishing campaign events to RabbitMQ", zap.String("queue", cfg.AMQP.Queue))
	} else {
		q = queue.NewInMemoryQueue(zlog)
		// Without a broker the events are consumed in-process.
		if err := service.StartEventConsumer(consumerCtx, q, cfg.AMQP.Queue, campaignRepo, service.NewEventLogger(zlog), zlog); err != nil {
			zlog.Fatal("Failed to start event consumer", zap.Error(err))
		}
	}

	campaignService := service.NewCampaignService(campaignRepo, q, zlog)
	campaignService.Topic = cfg.AMQP.Queue

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(registry)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: server.NewRouter(server.Options{
			Service:     campaignService,
			Log:         zlog,
			ShowErrors:  !cfg.IsProduction(),
			CORSOrigins: cfg.HTTP.CORSOrigins,
			Gatherer:    registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("Server running", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.App.Env))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info("Signal received, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("HTTP server exited", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Warn("Graceful shutdown failed", zap.Error(err))
	}
}
