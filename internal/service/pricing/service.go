package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	redisx "github.com/kcrown/partybus/internal/redis"
	"github.com/kcrown/partybus/internal/repository"
	postgresrepo "github.com/kcrown/partybus/internal/repository/postgres"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/uow"
)

type Config struct {
	DefaultSeatPrice float64
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.DaysPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.DaysPubSub,
	cfg Config,
) *Service {
	if cfg.DefaultSeatPrice <= 0 {
		cfg.DefaultSeatPrice = 25.00
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// PriceForDay resolves the per-seat price for a calendar day: the stored
// override when one exists, the configured default otherwise.
func (s *Service) PriceForDay(ctx context.Context, day time.Time) (float64, error) {
	const op = "service.pricing.PriceForDay"

	price, err := s.store.Prices().GetByDay(ctx, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.cfg.DefaultSeatPrice, nil
		}

		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return price, nil
}

// SetPriceForDay upserts the day's price override. Already-booked seats keep
// their stamped prices; only future bookings see the new value.
func (s *Service) SetPriceForDay(ctx context.Context, day time.Time, price float64) error {
	const op = "service.pricing.SetPriceForDay"

	if err := ValidatePrice(price); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	dayKey := domain.DayKey(day)

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Prices().With(tx).Upsert(ctx, day, price); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateDay(ctx, dayKey)
			_ = s.cache.InvalidateProfits(ctx)
			_ = s.pubsub.PublishDayChanged(ctx, dayKey)
		})

		return nil
	})

	return err
}

// ListOverrides lists every stored price override.
func (s *Service) ListOverrides(ctx context.Context) ([]domain.DailyPrice, error) {
	const op = "service.pricing.ListOverrides"

	prices, err := s.store.Prices().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return prices, nil
}
