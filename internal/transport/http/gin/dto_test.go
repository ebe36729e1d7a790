package httpgin

import (
	"testing"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingToResponse(t *testing.T) {
	b := domain.Booking{
		ID:       "b-1",
		Date:     time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Seats:    []int{1, 2},
		UserName: "alice",
		SeatPrices: map[int]float64{
			1: 25,
			2: 40,
		},
	}

	resp := bookingToResponse(&b)

	assert.Equal(t, "2026-08-14", resp.Day)
	assert.Equal(t, map[string]float64{"1": 25, "2": 40}, resp.SeatPrices)
	assert.InDelta(t, 65.0, resp.TotalCost, 1e-9)
}

func TestBookingToResponseLegacy(t *testing.T) {
	b := domain.Booking{
		ID:       "b-legacy",
		Date:     time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Seats:    []int{3},
		UserName: "old",
	}

	resp := bookingToResponse(&b)

	assert.Nil(t, resp.SeatPrices)
	assert.Zero(t, resp.TotalCost)
}

func TestParseOptionalDay(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		got, err := parseOptionalDay(nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty stays nil", func(t *testing.T) {
		empty := ""
		got, err := parseOptionalDay(&empty)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("valid day", func(t *testing.T) {
		s := "2026-08-14"
		got, err := parseOptionalDay(&s)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		s := "not-a-day"
		_, err := parseOptionalDay(&s)
		assert.Error(t, err)
	})
}
