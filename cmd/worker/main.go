package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/config"
	"github.com/unclebandit/campaign-manager/internal/db"
	"github.com/unclebandit/campaign-manager/internal/logger"
	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/queue"
	"github.com/unclebandit/campaign-manager/internal/repository"
	"github.com/unclebandit/campaign-manager/internal/service"
)

var (
	envFile     string
	metricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "worker",
		Short: "Consume campaign change notifications from RabbitMQ",
		RunE:  run,
	}
	root.Flags().StringVar(&envFile, "env-file", ".env", "path to .env file")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", ":9101", "address serving /metrics")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.AMQP.URL == "" {
		return errors.New("AMQP_URL is required")
	}

	zlog, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	sqlDB, err := db.Open(cfg.DB, zlog)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	mq, err := queue.NewAMQPQueue(cfg.AMQP.URL, zlog)
	if err != nil {
		return err
	}
	defer mq.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan model.CampaignEvent, 64)
	if err := mq.Subscribe(cfg.AMQP.Queue, service.EventSink(ctx, events)); err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.AMQP.Queue, err)
	}

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Metrics server exited", zap.Error(err))
		}
	}()

	repo := repository.NewCampaignRepository(sqlDB)
	worker := service.NewEventWorker(repo, events, service.NewEventLogger(zlog), zlog)

	zlog.Info("Worker running, waiting for campaign events", zap.String("queue", cfg.AMQP.Queue))
	worker.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	zlog.Info("Worker stopped")
	return nil
}
