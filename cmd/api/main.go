package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/config"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/logger"
	"github.com/emilythestrangee/social-blog/backend/internal/server"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns every connection so its deferred closes run before the process
// exits, including when the listener fails.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Error("failed to load config", zap.Error(err))
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Error("failed to build logger", zap.Error(err))
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database, log.Named("database"))
	if err != nil {
		log.Error("failed to initialize database", zap.Error(err))
		return err
	}
	defer db.Close()

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", zap.Error(err))
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info("redis connected, rate limiting enabled")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATS.URL != "" {
		nats, err := events.NewNATSPublisher(events.NATSConfig{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
			Prefix:        "blog.",
		}, log.Named("nats"))
		if err != nil {
			log.Error("failed to connect to nats", zap.Error(err))
			return err
		}
		publisher = nats
		log.Info("nats connected, publishing engagement events")
	}
	defer publisher.Close()

	srv := server.NewServer(cfg, server.Deps{
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
		Logger:    log,
	}).HTTPServer()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serve(srv, quit, log)
}

// serve runs srv until a signal arrives on quit or the listener fails, then
// shuts it down. A listener failure is returned so the caller's deferred
// closes still run before the process exits.
func serve(srv *http.Server, quit <-chan os.Signal, log *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var failed error
	select {
	case <-quit:
	case failed = <-serveErr:
		log.Error("server failed", zap.Error(failed))
	}

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shut down", zap.Error(err))
	}
	log.Info("server stopped")
	return failed
}

// newRedis returns nil when no Redis is configured. REDIS_URL may be a
// redis:// URL or a bare host:port.
func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts := &redis.Options{Addr: cfg.URL, Password: cfg.Password, DB: cfg.DB, PoolSize: 10}
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
