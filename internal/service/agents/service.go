package agents

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kcrown/partybus/internal/domain"
	"github.com/kcrown/partybus/internal/repository"
	postgresrepo "github.com/kcrown/partybus/internal/repository/postgres"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/uow"
)

// Service manages commission agents. Their lifecycle is independent from
// bookings; the only coupling is through the profit report, whose cache every
// agent write invalidates.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	uow   *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
		uow:   uow.NewUoW(store),
	}
}

// List lists every commission agent.
func (s *Service) List(ctx context.Context) ([]domain.CommissionAgent, error) {
	const op = "service.agents.List"

	agents, err := s.store.Agents().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return agents, nil
}

// Create registers a new agent. A nil applicableDate makes the agent global:
// its percentage applies to every day's gross profit.
func (s *Service) Create(
	ctx context.Context,
	name string,
	percentage float64,
	applicableDate *time.Time,
) (*domain.CommissionAgent, error) {
	const op = "service.agents.Create"

	agent, err := buildAgent(uuid.NewString(), name, percentage, applicableDate)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Agents().With(tx).Insert(ctx, *agent); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateProfits(ctx)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return agent, nil
}

// Update overwrites an agent's name, percentage, and applicable day.
func (s *Service) Update(
	ctx context.Context,
	id string,
	name string,
	percentage float64,
	applicableDate *time.Time,
) (*domain.CommissionAgent, error) {
	const op = "service.agents.Update"

	agent, err := buildAgent(id, name, percentage, applicableDate)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Agents().With(tx).Update(ctx, *agent); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrAgentNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateProfits(ctx)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return agent, nil
}

// Delete removes an agent.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "service.agents.Delete"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Agents().With(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrAgentNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateProfits(ctx)
		})

		return nil
	})

	return err
}

func buildAgent(id, name string, percentage float64, applicableDate *time.Time) (*domain.CommissionAgent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return nil, InvalidPercentageError{Percentage: percentage}
	}

	if applicableDate != nil {
		day := domain.StartOfDay(*applicableDate)
		applicableDate = &day
	}

	return &domain.CommissionAgent{
		ID:             id,
		Name:           name,
		Percentage:     percentage,
		ApplicableDate: applicableDate,
	}, nil
}
