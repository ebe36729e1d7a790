package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kcrown/partybus/internal/domain"
	"github.com/kcrown/partybus/internal/repository"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ListByDay lists every booking made for the given calendar day.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - day: calendar day, compared at day granularity.
//
// Returns:
//   - []domain.Booking: the day's bookings, possibly empty.
func (r *BookingRepo) ListByDay(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.ListByDay"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, booked_on, user_name, seats, seat_prices
		 FROM bookings
		 WHERE booked_on = $1
		 ORDER BY id`,
		domain.StartOfDay(day),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	return scanBookings(rows, op)
}

// ListAll lists every booking in the store. Used by the profit aggregator,
// which recomputes its report from the full record set on each evaluation.
func (r *BookingRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.ListAll"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, booked_on, user_name, seats, seat_prices
		 FROM bookings
		 ORDER BY booked_on, id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	return scanBookings(rows, op)
}

// Get retrieves a booking by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if no such booking exists.
func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	var prices []byte

	err := db.QueryRow(ctx,
		`SELECT id, booked_on, user_name, seats, seat_prices
		 FROM bookings
		 WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Date, &b.UserName, &b.Seats, &prices)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	b.SeatPrices, err = seatPricesFromJSON(prices)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// Insert stores a new booking.
//
// Returns:
//   - error: repository.ErrConflict if the ID is already taken.
func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) error {
	const op = "postgres.BookingRepo.Insert"

	db := r.handle()

	prices, err := seatPricesToJSON(b.SeatPrices)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO bookings(id, booked_on, user_name, seats, seat_prices)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, domain.StartOfDay(b.Date), b.UserName, b.Seats, prices,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// UpdateSeats overwrites a booking's seat set and price stamps.
func (r *BookingRepo) UpdateSeats(
	ctx context.Context,
	id string,
	seats []int,
	seatPrices map[int]float64,
) error {
	const op = "postgres.BookingRepo.UpdateSeats"

	db := r.handle()

	prices, err := seatPricesToJSON(seatPrices)
	if err != nil {
		return wrapDBErr(op, err)
	}

	tag, err := db.Exec(ctx,
		`UPDATE bookings
			SET seats = $2, seat_prices = $3
		 WHERE id = $1`,
		id, seats, prices,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// Delete removes a booking record entirely.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	const op = "postgres.BookingRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func scanBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var prices []byte

		if err := rows.Scan(&b.ID, &b.Date, &b.UserName, &b.Seats, &prices); err != nil {
			return nil, wrapDBErr(op, err)
		}

		sp, err := seatPricesFromJSON(prices)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		b.SeatPrices = sp

		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Seat prices live in a jsonb column keyed by stringified seat numbers.
// They are parsed back to numeric keys on read; a NULL column marks a
// legacy record with no stamped prices.

func seatPricesToJSON(prices map[int]float64) ([]byte, error) {
	if prices == nil {
		return nil, nil
	}

	keyed := make(map[string]float64, len(prices))
	for seat, price := range prices {
		keyed[strconv.Itoa(seat)] = price
	}

	return json.Marshal(keyed)
}

func seatPricesFromJSON(raw []byte) (map[int]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var keyed map[string]float64
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, err
	}

	prices := make(map[int]float64, len(keyed))
	for key, price := range keyed {
		seat, err := strconv.Atoi(key)
		if err != nil {
			return nil, err
		}
		prices[seat] = price
	}

	return prices, nil
}
