// cmd/historian/main.go drains finished matches from the Redis queue into PostgreSQL.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/wordbattle/internal/cache"
	"github.com/jason-s-yu/wordbattle/internal/config"
	"github.com/jason-s-yu/wordbattle/internal/database"
	"github.com/jason-s-yu/wordbattle/internal/historian"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("historian exited: %v", err)
	}
	logger.Info("historian shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	rdb, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := database.NewMatchStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	svc := historian.New(cache.NewMatchQueue(rdb, cfg.QueueName), store, historian.Options{
		BatchSize:  cfg.BatchSize,
		FlushDelay: cfg.FlushDelay,
		Logger:     logger.WithField("component", "historian"),
	})
	return svc.Run(ctx)
}
