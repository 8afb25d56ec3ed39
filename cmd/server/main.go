package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	docs "github.com/mallikarjuna-sindiri/sendy/docs"
	"github.com/mallikarjuna-sindiri/sendy/internal/config"
	httpapi "github.com/mallikarjuna-sindiri/sendy/internal/http"
	"github.com/mallikarjuna-sindiri/sendy/internal/jobs"
	"github.com/mallikarjuna-sindiri/sendy/internal/limiter"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/metrics"
	"github.com/mallikarjuna-sindiri/sendy/internal/queue"
	"github.com/mallikarjuna-sindiri/sendy/internal/repo"
	"github.com/mallikarjuna-sindiri/sendy/internal/service"
	"github.com/mallikarjuna-sindiri/sendy/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const serviceName = "sendy"

// @title Sendy API
// @version 0.1.0
// @description Short-lived shared clipboards with optional password protection.
// @schemes http https
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := log.Init(cfg.Dev())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	l := log.L()

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService(serviceName), tracer.WithEnv(cfg.Env))
		defer tracer.Stop()
	}
	if !cfg.Dev() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = store.Close(closeCtx)
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		if pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange); err != nil {
			return err
		}
		l.Info("publishing events", zap.String("exchange", cfg.RabbitExchange))
	}
	defer func() { _ = pub.Close() }()

	svc := service.New(store, store, pub, service.OptionsFrom(cfg))
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			return err
		}
		svc.WithObjectStore(s3)
		l.Info("attachments enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	unlock, closeLimiter, err := newUnlockLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	sched := jobs.NewScheduler(store)
	if err := sched.Start(cfg.StatsCron); err != nil {
		return err
	}
	defer sched.Stop()

	docs.SwaggerInfo.BasePath = "/"

	opts := httpapi.RouterOptions{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Unlock:         unlock,
	}
	if cfg.DDEnabled {
		opts.Service = serviceName
	}
	h := httpapi.NewHandler(svc, store, cfg.DefaultDuration)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(h, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()
	l.Info("sendy listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		l.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		return err
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	return srv.Shutdown(shutdownCtx)
}

// newUnlockLimiter prefers the shared Redis window and falls back to a
// per-process limiter when REDIS_ADDR is unset.
func newUnlockLimiter(ctx context.Context, cfg config.Config) (limiter.Limiter, func(), error) {
	if cfg.UnlockRatePerMin <= 0 {
		return limiter.Noop{}, func() {}, nil
	}
	if cfg.RedisAddr == "" {
		return limiter.NewLocal(cfg.UnlockRatePerMin, time.Minute), func() {}, nil
	}
	rl := limiter.NewRedis(limiter.NewRedisClient(cfg.RedisAddr), cfg.UnlockRatePerMin, time.Minute)
	if err := rl.Ping(ctx); err != nil {
		_ = rl.Close()
		return nil, nil, err
	}
	return rl, func() { _ = rl.Close() }, nil
}
