package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swagplan/internal/config"
	"swagplan/internal/logger"
	"swagplan/internal/reminders"
	"swagplan/internal/services"
	"swagplan/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "remind",
		Short:        "SwagPlan reminder tooling",
		SilenceUsage: true,
	}
	root.AddCommand(newSweepCmd(), newTestEmailCmd())
	return root
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, zlog, nil
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder sweep and print the summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zlog, err := setup()
			if err != nil {
				return err
			}
			defer zlog.Sync()
			ctx := cmd.Context()

			backing, closeStore, err := store.Open(cfg.StoreDriver, cfg.DataFile, cfg.DatabaseURL, zlog)
			if err != nil {
				return err
			}
			defer closeStore()

			notifier, err := services.NewNotifier(ctx, cfg)
			if err != nil {
				return err
			}

			lock, closeLock := sweepLock(ctx, cfg, zlog)
			defer closeLock()

			worker := services.NewReminderWorker(
				store.NewGuarded(backing),
				reminders.NewEngine(notifier, zlog.Named("engine")),
				reminders.Options{DebugMode: cfg.ReminderDebug, DebugAddress: cfg.DebugEmail},
				lock,
				zlog,
			)

			summary, err := worker.RunOnce(ctx)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
		},
	}
}

// sweepLock shares the server's redis lock when redis is reachable. The close
// func releases the redis client and must run after the sweep.
func sweepLock(ctx context.Context, cfg config.Config, zlog *zap.Logger) (services.SweepLock, func()) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err == nil {
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err = rdb.Ping(pingCtx).Err(); err == nil {
			return services.NewRedisLock(rdb, 10*time.Minute, zlog), func() {
				if err := rdb.Close(); err != nil {
					zlog.Warn("failed to close redis client", zap.Error(err))
				}
			}
		}
		rdb.Close()
	}
	zlog.Warn("redis unavailable, using process-local sweep lock", zap.Error(err))
	return &services.LocalLock{}, func() {}
}

func newTestEmailCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "test-email",
		Short: "Send a test message through the configured email provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if to == "" {
				return errors.New("--to is required")
			}
			cfg, zlog, err := setup()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			notifier, err := services.NewNotifier(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := services.SendDiagnostic(cmd.Context(), notifier, to, time.Now()); err != nil {
				return fmt.Errorf("test email failed: %w", err)
			}
			zlog.Info("test email sent", zap.String("provider", cfg.EmailProvider), zap.String("to", to))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	return cmd
}
