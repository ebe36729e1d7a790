package app

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

	"github.com/kcrown/partybus/internal/config"
	"github.com/kcrown/partybus/internal/postgres"
	redisx "github.com/kcrown/partybus/internal/redis"
	postgresrepo "github.com/kcrown/partybus/internal/repository/postgres"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/service"
	"github.com/kcrown/partybus/internal/service/booking"
	"github.com/kcrown/partybus/internal/service/pricing"
	"github.com/kcrown/partybus/internal/service/profits"
	httpgin "github.com/kcrown/partybus/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisx.DaysPubSub
	cache      *redisrepo.Cache
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

	rdb, err := redisx.New(context.Background(), redisx.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewDaysPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "rl", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Booking: booking.Config{
			TotalSeats:       cfg.Booking.TotalSeats,
			DefaultSeatPrice: cfg.Booking.DefaultSeatPrice,
		},
		Pricing: pricing.Config{DefaultSeatPrice: cfg.Booking.DefaultSeatPrice},
		Profits: profits.Config{DefaultSeatPrice: cfg.Booking.DefaultSeatPrice},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pubsub: pubsub,
		cache:  cache,
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

	// Drop cached day views when another instance changes a day.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, day string) {
			if err := a.cache.InvalidateDay(ctx, day); err != nil {
				a.logger.Warn("failed to invalidate day cache", "day", day, "error", err)
			}
			if err := a.cache.InvalidateProfits(ctx); err != nil {
				a.logger.Warn("failed to invalidate profit cache", "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("day change subscription stopped: %w", err)
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
