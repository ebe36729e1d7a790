package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kcrown/partybus/internal/domain"
	"github.com/kcrown/partybus/internal/repository"
)

type AgentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AgentRepo) With(db DB) *AgentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AgentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// List lists every commission agent.
func (r *AgentRepo) List(ctx context.Context) ([]domain.CommissionAgent, error) {
	const op = "postgres.AgentRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, percentage, applicable_on
		 FROM commission_agents
		 ORDER BY name, id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.CommissionAgent
	for rows.Next() {
		var a domain.CommissionAgent
		var applicable *time.Time

		if err := rows.Scan(&a.ID, &a.Name, &a.Percentage, &applicable); err != nil {
			return nil, wrapDBErr(op, err)
		}
		a.ApplicableDate = applicable

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Get retrieves an agent by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the agent does not exist.
func (r *AgentRepo) Get(ctx context.Context, id string) (*domain.CommissionAgent, error) {
	const op = "postgres.AgentRepo.Get"

	db := r.handle()

	var a domain.CommissionAgent
	err := db.QueryRow(ctx,
		`SELECT id, name, percentage, applicable_on
		 FROM commission_agents
		 WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Percentage, &a.ApplicableDate)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

// Insert stores a new commission agent.
func (r *AgentRepo) Insert(ctx context.Context, a domain.CommissionAgent) error {
	const op = "postgres.AgentRepo.Insert"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO commission_agents(id, name, percentage, applicable_on)
		 VALUES ($1, $2, $3, $4)`,
		a.ID, a.Name, a.Percentage, startOfDayOrNil(a.ApplicableDate),
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Update overwrites an existing agent's fields.
func (r *AgentRepo) Update(ctx context.Context, a domain.CommissionAgent) error {
	const op = "postgres.AgentRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE commission_agents
			SET name = $2, percentage = $3, applicable_on = $4
		 WHERE id = $1`,
		a.ID, a.Name, a.Percentage, startOfDayOrNil(a.ApplicableDate),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// Delete removes an agent. Agent lifecycle is independent from bookings.
func (r *AgentRepo) Delete(ctx context.Context, id string) error {
	const op = "postgres.AgentRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM commission_agents WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func startOfDayOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	day := domain.StartOfDay(*t)
	return &day
}
