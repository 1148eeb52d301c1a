package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/diewo77/seeker/internal/config"
	"github.com/diewo77/seeker/internal/db"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/middleware"
	"github.com/diewo77/seeker/internal/notify"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB migrations and seed, then exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.App.Dev)
	ctx := context.Background()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer func() { _ = db.Close(gdb) }()

	if err := db.Migrate(ctx, gdb, logger); err != nil {
		fatal(logger, "migration failed", err)
	}
	if *migrateOnlyFlag {
		logger.Info(ctx, "migrations completed")
		return
	}

	if cfg.App.SeedJobs || *seedOnlyFlag {
		n, err := db.Seed(ctx, gdb)
		if err != nil {
			fatal(logger, "seeding failed", err)
		}
		logger.Info(ctx, "seed completed", "jobs_inserted", n)
	}
	if *seedOnlyFlag {
		return
	}

	limiter, closeLimiter := newLimiter(ctx, cfg.RateLimit, logger)
	defer closeLimiter()

	routerCfg := NewRouterConfig(Deps{
		DB:      gdb,
		Config:  cfg,
		Log:     logger,
		Mailer:  notify.NewGateway(cfg.Mail, logger),
		Limiter: limiter,
	})
	appHandler := NewApp(routerCfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      appHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev, "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "error during shutdown", "error", err)
	}
	logger.Info(ctx, "server stopped gracefully")
}

// newLimiter uses Redis when REDIS_URL is set and reachable, and process
// memory otherwise.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, log logging.Logger) (middleware.Limiter, func()) {
	if cfg.RedisURL == "" {
		return middleware.NewLocalLimiter(), func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn(ctx, "invalid REDIS_URL, using in-process rate limiter", "error", err)
		return middleware.NewLocalLimiter(), func() {}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis unreachable, using in-process rate limiter", "error", err)
		_ = client.Close()
		return middleware.NewLocalLimiter(), func() {}
	}
	log.Info(ctx, "rate limiter backed by redis", "addr", opts.Addr)
	return middleware.NewRedisLimiter(client, "seeker:rl"), func() { _ = client.Close() }
}

func fatal(log logging.Logger, msg string, err error) {
	log.Error(context.Background(), msg, "error", err)
	os.Exit(1)
}
