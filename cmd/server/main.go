package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"swagplan/internal/auth"
	"swagplan/internal/config"
	"swagplan/internal/handlers"
	"swagplan/internal/logger"
	"swagplan/internal/reminders"
	"swagplan/internal/services"
	"swagplan/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sweepLockTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backing, closeStore, err := store.Open(cfg.StoreDriver, cfg.DataFile, cfg.DatabaseURL, zlog)
	if err != nil {
		return err
	}
	defer closeStore()
	guarded := store.NewGuarded(backing)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	notifier, err := services.NewNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	engine := reminders.NewEngine(notifier, zlog.Named("engine"))
	opts := reminders.Options{DebugMode: cfg.ReminderDebug, DebugAddress: cfg.DebugEmail}
	worker := services.NewReminderWorker(guarded, engine, opts, services.NewRedisLock(rdb, sweepLockTTL, zlog), zlog)
	if err := worker.Start(cfg.ReminderSchedule); err != nil {
		return err
	}

	sessions := auth.NewSessionStore(rdb, cfg.SessionTTL)
	authn, err := auth.NewAuthenticator(cfg, sessions, guarded, zlog.Named("auth"))
	if errors.Is(err, auth.ErrOAuthNotConfigured) {
		zlog.Warn("google sign-in disabled", zap.Error(err))
		authn = nil
	} else if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetTrustedProxies([]string{"127.0.0.1"})

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders(auth.TriggerTokenHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.New(guarded, worker, zlog.Named("http"))
	h.Register(router,
		authn,
		auth.AuthMiddleware(sessions),
		auth.TriggerAccess(cfg.TriggerToken, sessions, cfg.IsAdmin))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	worker.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
