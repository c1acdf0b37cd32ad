package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/dinehub/internal/api"
	"github.com/nikhilbhutani/dinehub/internal/api/handlers"
	"github.com/nikhilbhutani/dinehub/internal/audit"
	"github.com/nikhilbhutani/dinehub/internal/auth"
	"github.com/nikhilbhutani/dinehub/internal/cache"
	"github.com/nikhilbhutani/dinehub/internal/config"
	"github.com/nikhilbhutani/dinehub/internal/database"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/order"
	"github.com/nikhilbhutani/dinehub/internal/payment"
	"github.com/nikhilbhutani/dinehub/internal/queue"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
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
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Redis backs the restaurant cache and the webhook queue
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, restaurant lookups will hit the database", "error", err)
	}
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	auditSvc := audit.NewService(db)
	events := audit.NewRecorder(auditSvc, logger, m, 0)
	defer events.Close()

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	var provider payment.Provider
	if cfg.Payment.StripeSecretKey != "" {
		provider = payment.NewStripeProvider(cfg.Payment.StripeSecretKey)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, online payments disabled")
	}

	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Gatherer: registry,
		Checks:   []handlers.Check{handlers.DatabaseCheck(db), handlers.RedisCheck(rdb)},
		Tenants:  tenant.NewService(db, cache.NewCache(rdb, "dinehub"), cfg.Tenant.CacheTTL),
		Users:    auth.NewUserRepository(db),
		Orders:   order.NewRepository(db),
		Audit:    auditSvc,
		Events:   events,
		Webhooks: webhook.NewPGStore(db),
		Queue:    queueClient,
		Payments: provider,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
