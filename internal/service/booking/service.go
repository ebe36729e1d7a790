package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kcrown/partybus/internal/domain"
	redisx "github.com/kcrown/partybus/internal/redis"
	"github.com/kcrown/partybus/internal/repository"
	postgresrepo "github.com/kcrown/partybus/internal/repository/postgres"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/service/pricing"
	"github.com/kcrown/partybus/internal/uow"
)

type Config struct {
	TotalSeats       int
	DefaultSeatPrice float64
	AvailabilityTTL  time.Duration
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.DaysPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.DaysPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.TotalSeats <= 0 {
		cfg.TotalSeats = 35
	}

	if cfg.DefaultSeatPrice <= 0 {
		cfg.DefaultSeatPrice = 25.00
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

func (s *Service) TotalSeats() int { return s.cfg.TotalSeats }

// Create books seats for the given day under the given name.
//
// The booking name is validated before any assignment is attempted. Seat
// assignment re-reads the day's bookings inside the transaction, so the
// availability check in AssignSeats runs against current state rather than
// whatever snapshot the caller rendered from; a stale explicit selection
// surfaces as SeatConflictError with the still-available subset.
//
// Parameters:
//   - ctx: request-scoped context.
//   - day: calendar day to book, truncated to day granularity.
//   - name: customer/booking name, trimmed; must be non-empty.
//   - req: explicit seats or auto-assign quantity.
//   - rlKey: rate-limit bucket key, empty to skip limiting.
//
// Returns:
//   - *domain.Booking: the stored booking with stamped per-seat prices.
//   - error: ErrMissingName, InvalidSeatsError, SeatConflictError,
//     InvalidQuantityError, or InsufficientCapacityError.
func (s *Service) Create(
	ctx context.Context,
	day time.Time,
	name string,
	req Request,
	rlKey string,
) (*domain.Booking, error) {
	const op = "service.booking.Create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrMissingName)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	day = domain.StartOfDay(day)
	dayKey := domain.DayKey(day)

	var created *domain.Booking

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		dayBookings, err := s.store.Bookings().With(tx).ListByDay(ctx, day)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		seats, err := AssignSeats(day, dayBookings, req, s.cfg.TotalSeats)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		price, err := s.priceForDay(ctx, tx, day)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		b := domain.Booking{
			ID:         uuid.NewString(),
			Date:       day,
			Seats:      seats,
			UserName:   name,
			SeatPrices: StampPrices(seats, price),
		}

		if err := s.store.Bookings().With(tx).Insert(ctx, b); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		created = &b

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateDay(ctx, dayKey)
			_ = s.cache.InvalidateProfits(ctx)
			_ = s.pubsub.PublishDayChanged(ctx, dayKey)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// RemoveSeat drops one seat and its stamped price from a booking. When the
// last seat goes, the booking record itself is deleted rather than left as
// an empty shell.
func (s *Service) RemoveSeat(ctx context.Context, bookingID string, seat int) error {
	const op = "service.booking.RemoveSeat"

	var dayKey string

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		b, err := s.store.Bookings().With(tx).Get(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrBookingNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		dayKey = domain.DayKey(b.Date)

		seats, ok := removeSeat(b.Seats, seat)
		if !ok {
			return fmt.Errorf("%s:%w", op, ErrSeatNotInBooking)
		}

		if len(seats) == 0 {
			if err := s.store.Bookings().With(tx).Delete(ctx, bookingID); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		} else {
			prices := b.SeatPrices
			if prices != nil {
				delete(prices, seat)
			}
			if err := s.store.Bookings().With(tx).UpdateSeats(ctx, bookingID, seats, prices); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
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

// EditSeatPrice overwrites the stamped price of one seat in a booking. For a
// legacy record with no stamps, every seat is first stamped at the day's
// resolved price so the other seats keep their effective value.
func (s *Service) EditSeatPrice(ctx context.Context, bookingID string, seat int, price float64) error {
	const op = "service.booking.EditSeatPrice"

	if err := pricing.ValidatePrice(price); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	var dayKey string

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		b, err := s.store.Bookings().With(tx).Get(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrBookingNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		dayKey = domain.DayKey(b.Date)

		if !containsSeat(b.Seats, seat) {
			return fmt.Errorf("%s:%w", op, ErrSeatNotInBooking)
		}

		prices := b.SeatPrices
		if prices == nil {
			fallback, err := s.priceForDay(ctx, tx, b.Date)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
			prices = StampPrices(b.Seats, fallback)
		}
		prices[seat] = price

		if err := s.store.Bookings().With(tx).UpdateSeats(ctx, bookingID, b.Seats, prices); err != nil {
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

// Available returns the free seat numbers for a day, served from a short-TTL
// cache that every booking write invalidates.
func (s *Service) Available(ctx context.Context, day time.Time) ([]int, error) {
	const op = "service.booking.Available"

	day = domain.StartOfDay(day)
	key := redisx.KeyDayAvailability(domain.DayKey(day))

	free, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) ([]int, error) {
			dayBookings, err := s.store.Bookings().ListByDay(ctx, day)
			if err != nil {
				return nil, err
			}

			return AvailableSeats(day, dayBookings, s.cfg.TotalSeats), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return free, nil
}

// ListByDay returns the day's bookings as stored.
func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	const op = "service.booking.ListByDay"

	bookings, err := s.store.Bookings().ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return bookings, nil
}

// SeatMap describes every seat of a day: who holds the booked ones and at
// what stamped price, plus the free seat numbers.
type SeatMap struct {
	Day        string                    `json:"day"`
	TotalSeats int                       `json:"total_seats"`
	Available  []int                     `json:"available"`
	Booked     map[int]domain.SeatDetail `json:"booked"`
}

// SeatMapForDay builds the per-seat drill-down view for a day. Legacy
// bookings with no stamped prices show the day's resolved price.
func (s *Service) SeatMapForDay(ctx context.Context, day time.Time) (*SeatMap, error) {
	const op = "service.booking.SeatMapForDay"

	day = domain.StartOfDay(day)
	key := redisx.KeyDaySeatMap(domain.DayKey(day))

	sm, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (SeatMap, error) {
			dayBookings, err := s.store.Bookings().ListByDay(ctx, day)
			if err != nil {
				return SeatMap{}, err
			}

			fallback, err := s.priceForDay(ctx, nil, day)
			if err != nil {
				return SeatMap{}, err
			}

			return buildSeatMap(day, dayBookings, s.cfg.TotalSeats, fallback), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &sm, nil
}

func buildSeatMap(day time.Time, bookings []domain.Booking, totalSeats int, fallbackPrice float64) SeatMap {
	sm := SeatMap{
		Day:        domain.DayKey(day),
		TotalSeats: totalSeats,
		Available:  AvailableSeats(day, bookings, totalSeats),
		Booked:     make(map[int]domain.SeatDetail),
	}

	for _, b := range bookings {
		if !domain.SameDay(b.Date, day) {
			continue
		}
		for _, seat := range b.Seats {
			price := fallbackPrice
			if b.SeatPrices != nil {
				if stamped, ok := b.SeatPrices[seat]; ok {
					price = stamped
				}
			}
			sm.Booked[seat] = domain.SeatDetail{
				BookingID: b.ID,
				UserName:  b.UserName,
				Price:     price,
			}
		}
	}

	return sm
}

func (s *Service) priceForDay(ctx context.Context, tx postgresrepo.DB, day time.Time) (float64, error) {
	repo := s.store.Prices()
	if tx != nil {
		repo = repo.With(tx)
	}

	price, err := repo.GetByDay(ctx, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.cfg.DefaultSeatPrice, nil
		}

		return 0, err
	}

	return price, nil
}

func removeSeat(seats []int, seat int) ([]int, bool) {
	out := make([]int, 0, len(seats))
	found := false
	for _, current := range seats {
		if current == seat {
			found = true
			continue
		}
		out = append(out, current)
	}

	return out, found
}

func containsSeat(seats []int, seat int) bool {
	for _, current := range seats {
		if current == seat {
			return true
		}
	}

	return false
}
