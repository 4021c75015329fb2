// Reelist is a small watchlist service: users save movies and tv shows
// to a per-user list and read it back with offset or cursor pagination,
// with pages served through a TTL cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"github.com/jharlow/reelist/internal/api"
	"github.com/jharlow/reelist/internal/cache"
	"github.com/jharlow/reelist/internal/migrations"
	"github.com/jharlow/reelist/internal/reelist"
	rlqlite "github.com/jharlow/reelist/internal/sqlite"
	"github.com/jharlow/reelist/logger"
)

type config struct {
	Port     int    `env:"PORT, default=4444"`
	Database string `env:"DATABASE, required"`

	CacheSize      int           `env:"CACHE_SIZE, default=1024"`
	CacheTTL       time.Duration `env:"CACHE_TTL, default=5m"`
	CacheNamespace string        `env:"CACHE_NAMESPACE, default=reelist"`

	CorsHeader string `env:"CORS_HEADER, default=*"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// A local .env is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(logger.NewCtxHandler(handler)))

	if err := runService(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func runService(ctx context.Context, cfg config) error {
	slog.Info("running", "port", cfg.Port, "database", cfg.Database)

	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Wait for the store to come up before migrating.
	if err := retry.Fibonacci(ctx, 250*time.Millisecond, func(ctx context.Context) error {
		if err := dbx.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("error reaching database: %s", err)
	}

	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	repo := rlqlite.New(dbx)
	pageCache := cache.New(cfg.CacheSize, cfg.CacheTTL, cfg.CacheNamespace)
	svc := reelist.NewService(repo, repo, pageCache, cfg.CacheNamespace)
	srvr := api.NewServer(api.ServerConfig{Port: cfg.Port, CorsHeader: cfg.CorsHeader}, svc)

	var g run.Group
	g.Add(func() error {
		if err := srvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}
		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		slog.Info("shutting down", "signal", sigErr.Signal)
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
