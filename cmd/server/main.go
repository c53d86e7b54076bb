// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/wordbattle/internal/broadcast"
	"github.com/jason-s-yu/wordbattle/internal/cache"
	"github.com/jason-s-yu/wordbattle/internal/config"
	"github.com/jason-s-yu/wordbattle/internal/handlers"
	"github.com/jason-s-yu/wordbattle/internal/room"
	"github.com/jason-s-yu/wordbattle/internal/words"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	opts := room.Options{
		Logger:        logger,
		Words:         words.Builtin(),
		StartDelay:    cfg.MatchStartDelay,
		DefaultMax:    cfg.DefaultMaxPlayers,
		IdleTTL:       cfg.RoomIdleTTL,
		MaxChatLength: cfg.MaxChatLength,
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("match history disabled")
		} else {
			defer rdb.Close()
			opts.Recorder = cache.NewMatchPublisher(rdb, cfg.QueueName)
			logger.Infof("publishing finished matches to %s/%s", cfg.RedisAddr, cfg.QueueName)
		}
	}

	gw := broadcast.NewGateway()
	coordinator := room.NewCoordinator(gw, opts)

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(logger, coordinator, handlers.Limits{
			Rate:  cfg.EventRate,
			Burst: cfg.EventBurst,
		}, cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
		// sockets are hijacked, so Shutdown alone would not end them
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		err := coordinator.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.RoomIdleTTL > 0 {
		sched, err := coordinator.StartReaper(gctx, cfg.RoomReapSchedule)
		if err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			<-sched.Stop().Done()
			return nil
		})
	}

	g.Go(func() error {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
