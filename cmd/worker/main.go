package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhilbhutani/dinehub/internal/config"
	"github.com/nikhilbhutani/dinehub/internal/database"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/queue"
	"github.com/nikhilbhutani/dinehub/internal/queue/workers"
	"github.com/nikhilbhutani/dinehub/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("invalid config", "error", "missing required env vars: DATABASE_URL")
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	if cfg.Worker.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv := &http.Server{Addr: cfg.Worker.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: &asynqLogger{logger: logger},
		},
	)

	handlers := queue.NewHandlersRegistry(logger)

	// Register workers
	store := webhook.NewPGStore(db)
	deliverer := webhook.NewDeliverer(store, &http.Client{Timeout: 10 * time.Second})
	handlers.Register(queue.TypeWebhookDeliver, workers.NewWebhookWorker(store, deliverer, m))

	slog.Info("starting worker", "concurrency", cfg.Worker.Concurrency)
	if err := srv.Run(handlers.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

type asynqLogger struct {
	logger *slog.Logger
}

func (l *asynqLogger) Debug(args ...any) { l.logger.Debug("asynq", "msg", args) }
func (l *asynqLogger) Info(args ...any)  { l.logger.Info("asynq", "msg", args) }
func (l *asynqLogger) Warn(args ...any)  { l.logger.Warn("asynq", "msg", args) }
func (l *asynqLogger) Error(args ...any) { l.logger.Error("asynq", "msg", args) }
func (l *asynqLogger) Fatal(args ...any) {
	l.logger.Error("asynq", "msg", args)
	os.Exit(1)
}
