package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expense_tracker/internal/config"
	"expense_tracker/internal/handlers"
	"expense_tracker/internal/logger"
	"expense_tracker/internal/repository"
	"expense_tracker/internal/repository/db"
	"expense_tracker/internal/server"
	"expense_tracker/internal/service"
)

const (
	shutdownTimeout     = 10 * time.Second
	redisPingTimeout    = 5 * time.Second
	defaultConfigFolder = "configs"
)

// @title        Expense Tracker API
// @version      1.0
// @description  Personal expense tracking: HTML pages with cookie sessions and a JSON API with bearer tokens.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load(defaultConfigFolder)
	if err != nil {
		logger.Get(logger.ErrorLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.GetWithFormat(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("server stopped with error", "err", err)
		os.Exit(1)
	}
	log.Infow("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	store, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("failed to close db", "err", cerr)
		}
	}()
	log.Infow("db ready", "driver", cfg.DB.Driver)

	repos, closeSessions, err := newRepositories(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	services := service.NewService(repos, service.Config{
		SigningKey: cfg.JWT.SigningKey,
		TokenTTL:   cfg.JWT.TTL,
		SessionTTL: cfg.Session.TTL,
	})

	seeded, err := services.Expenses.SeedCategories(ctx, cfg.Categories)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if seeded > 0 {
		log.Infow("categories seeded", "count", seeded)
	}
	purgeSessions(ctx, services, log)

	h := handlers.NewHandler(services, log,
		handlers.WithSessionCookie(cfg.Session.CookieName, cfg.Session.SecureCookie),
		handlers.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handlers.WithTrustedProxies(cfg.TrustedProxies),
		// flash tokens must never verify as bearer tokens
		handlers.WithFlashKey([]byte("flash:"+cfg.JWT.SigningKey)),
	)
	srv := new(server.Server)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("http server starting", "port", cfg.Port)
		return srv.Run(cfg.Port, h.InitRoutes())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRepositories wires the SQL repositories and, when configured, swaps sessions to redis.
// The returned func releases the redis client.
func newRepositories(ctx context.Context, cfg *config.Config, store *sql.DB) (*repository.Repository, func(), error) {
	repos := repository.NewRepository(store)
	if cfg.Session.Backend != config.SessionBackendRedis {
		return repos, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	repos.Sessions = repository.NewSessionRedis(client, cfg.Redis.Prefix)
	return repos, func() { _ = client.Close() }, nil
}

func purgeSessions(ctx context.Context, services *service.Service, log *logger.Logger) {
	n, err := services.Sessions.PurgeExpired(ctx)
	if err != nil {
		log.Warnw("session_purge_failed", "err", err)
		return
	}
	if n > 0 {
		log.Infow("expired sessions purged", "count", n)
	}
}
