package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kcrown/partybus/internal/domain"
)

type PriceRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PriceRepo) With(db DB) *PriceRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PriceRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetByDay retrieves the per-seat price override for a calendar day.
//
// Returns:
//   - error: repository.ErrNotFound when no override exists for the day.
func (r *PriceRepo) GetByDay(ctx context.Context, day time.Time) (float64, error) {
	const op = "postgres.PriceRepo.GetByDay"

	db := r.handle()

	var price float64
	err := db.QueryRow(ctx,
		`SELECT price FROM daily_prices WHERE day = $1`,
		domain.StartOfDay(day),
	).Scan(&price)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return price, nil
}

// Upsert sets the per-seat price override for a day, creating or replacing
// the day's entry. At most one entry exists per calendar day.
func (r *PriceRepo) Upsert(ctx context.Context, day time.Time, price float64) error {
	const op = "postgres.PriceRepo.Upsert"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO daily_prices(day, price)
		 VALUES ($1, $2)
		 ON CONFLICT (day) DO UPDATE SET price = EXCLUDED.price`,
		domain.StartOfDay(day), price,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// ListAll lists every price override.
func (r *PriceRepo) ListAll(ctx context.Context) ([]domain.DailyPrice, error) {
	const op = "postgres.PriceRepo.ListAll"

	db := r.handle()

	rows, err := db.Query(ctx, `SELECT day, price FROM daily_prices ORDER BY day`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.DailyPrice
	for rows.Next() {
		var dp domain.DailyPrice
		if err := rows.Scan(&dp.Date, &dp.Price); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, dp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
