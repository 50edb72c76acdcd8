package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chiyaghar/pos-go/internal/config"
	"github.com/chiyaghar/pos-go/internal/floor"
	"github.com/chiyaghar/pos-go/internal/postgres"
	redisx "github.com/chiyaghar/pos-go/internal/redis"
	postgresrepo "github.com/chiyaghar/pos-go/internal/repository/postgres"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service"
	"github.com/chiyaghar/pos-go/internal/service/auth"
	"github.com/chiyaghar/pos-go/internal/service/reports"
	httpgin "github.com/chiyaghar/pos-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	if err := store.Users().Bootstrap(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	cache := redisrepo.New(rdb)
	pubsub := redisx.NewFloorPubSub(rdb)
	loginLimiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.PrefixRateLimit(), 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	services := service.NewServices(store, floor.Seeded(), cache, pubsub, service.Config{
		Auth: auth.Config{
			JWTSecret:        cfg.Auth.JWTSecret,
			JWTRefreshSecret: cfg.Auth.JWTRefreshSecret,
			AccessTTL:        cfg.Auth.AccessTTL,
			RefreshTTL:       cfg.Auth.RefreshTTL,
			BcryptCost:       cfg.Auth.BcryptCost,
		},
		Reports: reports.Config{},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, loginLimiter, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
