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

	"github.com/spf13/cobra"

	"github.com/iliyamo/fyyur/internal/app"
	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/metric"
	"github.com/iliyamo/fyyur/internal/queue"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and serve HTTP",
	RunE:  runServe,
}

// setup loads configuration and opens the store.  Both commands share it.
func setup() (config.Config, *slog.Logger, *sqlDB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.Env)
	slog.SetDefault(logger)

	db, dialect, err := database.Open(cfg)
	if err != nil {
		return cfg, logger, nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return cfg, logger, &sqlDB{DB: db, dialect: dialect}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, store.DB, store.dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	m := metric.New()
	m.WatchDatabase(ctx, store.DB, 15*time.Second)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled", "addr", cfg.Redis.Address())
	} else {
		defer rdb.Close()
	}

	var events queue.Publisher = queue.Nop{}
	if cfg.AMQP.Enabled {
		events = queue.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		if cfg.AMQP.Consume {
			consumer := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, cfg.AMQP.LogPath, logger)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("activity consumer stopped", "error", err)
				}
			}()
		}
	}

	e, err := app.New(app.Options{
		Config:  cfg,
		DB:      store.DB,
		Logger:  logger,
		Metrics: m,
		Redis:   rdb,
		Events:  events,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.DBDriver)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
