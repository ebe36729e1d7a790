package profits

import (
	"context"
	"fmt"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	redisx "github.com/kcrown/partybus/internal/redis"
	postgresrepo "github.com/kcrown/partybus/internal/repository/postgres"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
)

type Config struct {
	DefaultSeatPrice float64
	ReportTTL        time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.DefaultSeatPrice <= 0 {
		cfg.DefaultSeatPrice = 25.00
	}

	if cfg.ReportTTL <= 0 {
		cfg.ReportTTL = 60 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// Report loads the full snapshot of bookings, price overrides, and agents,
// and reduces it to the daily, monthly, and per-agent views. Served from a
// short-TTL cache that every write path invalidates.
func (s *Service) Report(ctx context.Context) (*domain.ProfitReport, error) {
	const op = "service.profits.Report"

	report, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyProfitReport(),
		s.cfg.ReportTTL,
		func(ctx context.Context) (domain.ProfitReport, error) {
			snap, err := s.loadSnapshot(ctx)
			if err != nil {
				return domain.ProfitReport{}, err
			}

			return Aggregate(*snap, s.cfg.DefaultSeatPrice), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &report, nil
}

func (s *Service) loadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	bookings, err := s.store.Bookings().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := s.store.Prices().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	agents, err := s.store.Agents().List(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		Bookings: bookings,
		Prices:   prices,
		Agents:   agents,
	}, nil
}
