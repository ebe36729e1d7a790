package booking

import (
	"testing"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTotalSeats = 35

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func bookingOn(dayKey string, seats ...int) domain.Booking {
	return domain.Booking{
		ID:    "b-" + dayKey,
		Date:  day(dayKey),
		Seats: seats,
	}
}

func TestAvailableSeats(t *testing.T) {
	tests := []struct {
		name     string
		bookings []domain.Booking
		want     []int
	}{
		{
			name:     "empty day frees everything",
			bookings: nil,
			want:     seatRange(1, testTotalSeats),
		},
		{
			name: "booked seats removed",
			bookings: []domain.Booking{
				bookingOn("2026-08-14", 1, 2, 3),
				bookingOn("2026-08-14", 10),
			},
			want: append([]int{4, 5, 6, 7, 8, 9}, seatRange(11, testTotalSeats)...),
		},
		{
			name: "other days ignored",
			bookings: []domain.Booking{
				bookingOn("2026-08-15", 1, 2, 3),
			},
			want: seatRange(1, testTotalSeats),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSeats(day("2026-08-14"), tt.bookings, testTotalSeats)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableSeatsPartitionsInventory(t *testing.T) {
	bookings := []domain.Booking{
		bookingOn("2026-08-14", 5, 6, 7),
		bookingOn("2026-08-14", 20, 35),
	}

	free := AvailableSeats(day("2026-08-14"), bookings, testTotalSeats)

	// free and booked are disjoint and together cover [1, total]
	booked := map[int]bool{5: true, 6: true, 7: true, 20: true, 35: true}
	seen := make(map[int]bool)
	for _, seat := range free {
		assert.False(t, booked[seat], "seat %d is both free and booked", seat)
		seen[seat] = true
	}
	assert.Len(t, free, testTotalSeats-len(booked))
	for seat := 1; seat <= testTotalSeats; seat++ {
		assert.True(t, seen[seat] || booked[seat], "seat %d unaccounted for", seat)
	}
}

func TestAssignSeatsByQuantity(t *testing.T) {
	t.Run("empty day assigns lowest seats first", func(t *testing.T) {
		got, err := AssignSeats(day("2026-08-14"), nil, Request{Quantity: 5}, testTotalSeats)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	})

	t.Run("skips over booked seats", func(t *testing.T) {
		bookings := []domain.Booking{bookingOn("2026-08-14", 1, 3)}

		got, err := AssignSeats(day("2026-08-14"), bookings, Request{Quantity: 3}, testTotalSeats)

		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 5}, got)
	})

	t.Run("not enough seats left", func(t *testing.T) {
		bookings := []domain.Booking{bookingOn("2026-08-14", seatRange(1, 33)...)}

		_, err := AssignSeats(day("2026-08-14"), bookings, Request{Quantity: 3}, testTotalSeats)

		var capErr InsufficientCapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 3, capErr.Requested)
		assert.Equal(t, 2, capErr.Available)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := AssignSeats(day("2026-08-14"), nil, Request{Quantity: 0}, testTotalSeats)

		var qtyErr InvalidQuantityError
		assert.ErrorAs(t, err, &qtyErr)
	})
}

func TestAssignSeatsExplicit(t *testing.T) {
	t.Run("free seats are granted sorted", func(t *testing.T) {
		got, err := AssignSeats(day("2026-08-14"), nil, Request{Seats: []int{7, 2, 14}}, testTotalSeats)

		require.NoError(t, err)
		assert.Equal(t, []int{2, 7, 14}, got)
	})

	t.Run("explicit selection wins over quantity", func(t *testing.T) {
		got, err := AssignSeats(day("2026-08-14"), nil, Request{Seats: []int{9}, Quantity: 5}, testTotalSeats)

		require.NoError(t, err)
		assert.Equal(t, []int{9}, got)
	})

	t.Run("conflict reports what is gone and what remains", func(t *testing.T) {
		bookings := []domain.Booking{bookingOn("2026-08-14", 2, 3)}

		_, err := AssignSeats(day("2026-08-14"), bookings, Request{Seats: []int{1, 2, 3, 4}}, testTotalSeats)

		var conflict SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []int{2, 3}, conflict.Unavailable)
		assert.Equal(t, []int{1, 4}, conflict.StillAvailable)
	})

	t.Run("out of range seat rejected", func(t *testing.T) {
		for _, seats := range [][]int{{0}, {36}, {-4}} {
			_, err := AssignSeats(day("2026-08-14"), nil, Request{Seats: seats}, testTotalSeats)

			var invalid InvalidSeatsError
			assert.ErrorAs(t, err, &invalid, "seats %v", seats)
		}
	})

	t.Run("duplicate seat rejected", func(t *testing.T) {
		_, err := AssignSeats(day("2026-08-14"), nil, Request{Seats: []int{5, 5}}, testTotalSeats)

		var invalid InvalidSeatsError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestStampPrices(t *testing.T) {
	stamped := StampPrices([]int{1, 2, 3, 4, 5}, 25.00)

	require.Len(t, stamped, 5)
	var total float64
	for _, price := range stamped {
		total += price
	}
	assert.Equal(t, 125.00, total)
}

func TestRemoveSeat(t *testing.T) {
	t.Run("removes only the named seat", func(t *testing.T) {
		left, ok := removeSeat([]int{1, 2, 3}, 2)

		require.True(t, ok)
		assert.Equal(t, []int{1, 3}, left)
	})

	t.Run("last seat leaves an empty set", func(t *testing.T) {
		left, ok := removeSeat([]int{7}, 7)

		require.True(t, ok)
		assert.Empty(t, left)
	})

	t.Run("absent seat reports false", func(t *testing.T) {
		_, ok := removeSeat([]int{1, 2}, 9)
		assert.False(t, ok)
	})
}

func seatRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for s := from; s <= to; s++ {
		out = append(out, s)
	}
	return out
}
