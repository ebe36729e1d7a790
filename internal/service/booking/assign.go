package booking

import (
	"sort"
	"time"

	"github.com/kcrown/partybus/internal/domain"
)

// Request describes how seats should be picked for a new booking: either an
// explicit seat selection or a bare quantity to auto-assign. When Seats is
// non-empty it takes precedence over Quantity.
type Request struct {
	Seats    []int
	Quantity int
}

// AvailableSeats returns, in ascending order, every seat number in
// [1, totalSeats] not taken by any booking on the given day. Bookings on
// other days are ignored; comparison is at day granularity.
func AvailableSeats(day time.Time, bookings []domain.Booking, totalSeats int) []int {
	taken := bookedSeatSet(day, bookings)

	free := make([]int, 0, totalSeats-len(taken))
	for seat := 1; seat <= totalSeats; seat++ {
		if !taken[seat] {
			free = append(free, seat)
		}
	}

	return free
}

// AssignSeats decides which seats a new booking gets, validating the request
// against the day's current bookings. Pure function over the snapshot: it
// mutates nothing and the caller re-runs it against fresh state on conflict.
//
// Returns:
//   - []int: the assigned seat numbers in ascending order.
//   - error: InvalidSeatsError, SeatConflictError, InvalidQuantityError, or
//     InsufficientCapacityError.
func AssignSeats(day time.Time, bookings []domain.Booking, req Request, totalSeats int) ([]int, error) {
	free := AvailableSeats(day, bookings, totalSeats)

	if len(req.Seats) > 0 {
		return assignExplicit(req.Seats, free, totalSeats)
	}

	return assignByQuantity(req.Quantity, free)
}

func assignExplicit(seats []int, free []int, totalSeats int) ([]int, error) {
	seen := make(map[int]bool, len(seats))
	for _, seat := range seats {
		if seat < 1 || seat > totalSeats || seen[seat] {
			return nil, InvalidSeatsError{Seats: seats}
		}
		seen[seat] = true
	}

	freeSet := make(map[int]bool, len(free))
	for _, seat := range free {
		freeSet[seat] = true
	}

	var unavailable []int
	for _, seat := range seats {
		if !freeSet[seat] {
			unavailable = append(unavailable, seat)
		}
	}

	if len(unavailable) > 0 {
		var still []int
		for _, seat := range seats {
			if freeSet[seat] {
				still = append(still, seat)
			}
		}
		sort.Ints(unavailable)
		sort.Ints(still)

		return nil, SeatConflictError{Unavailable: unavailable, StillAvailable: still}
	}

	assigned := make([]int, len(seats))
	copy(assigned, seats)
	sort.Ints(assigned)

	return assigned, nil
}

func assignByQuantity(quantity int, free []int) ([]int, error) {
	if quantity <= 0 {
		return nil, InvalidQuantityError{Quantity: quantity}
	}

	if quantity > len(free) {
		return nil, InsufficientCapacityError{Requested: quantity, Available: len(free)}
	}

	return free[:quantity], nil
}

// StampPrices records the resolved per-seat price for every assigned seat.
// The stamps are a snapshot taken at booking time; later changes to the
// day's price never touch them.
func StampPrices(seats []int, price float64) map[int]float64 {
	stamped := make(map[int]float64, len(seats))
	for _, seat := range seats {
		stamped[seat] = price
	}

	return stamped
}

func bookedSeatSet(day time.Time, bookings []domain.Booking) map[int]bool {
	taken := make(map[int]bool)
	for _, b := range bookings {
		if !domain.SameDay(b.Date, day) {
			continue
		}
		for _, seat := range b.Seats {
			taken[seat] = true
		}
	}

	return taken
}
