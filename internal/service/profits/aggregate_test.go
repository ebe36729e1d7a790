package profits

import (
	"testing"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultPrice = 25.00

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func stamped(dayKey, user string, price float64, seats ...int) domain.Booking {
	b := domain.Booking{
		ID:         "b-" + dayKey + "-" + user,
		Date:       day(dayKey),
		Seats:      seats,
		UserName:   user,
		SeatPrices: make(map[int]float64, len(seats)),
	}
	for _, s := range seats {
		b.SeatPrices[s] = price
	}
	return b
}

func TestAggregateCommissionSplit(t *testing.T) {
	// gross 200 on one day; a global 5% agent and a 10% agent bound to
	// that day both take their cut of the full gross
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			stamped("2026-08-14", "alice", 25, 1, 2, 3, 4), // 100
			stamped("2026-08-14", "bob", 25, 5, 6, 7, 8),   // 100
		},
		Agents: []domain.CommissionAgent{
			{ID: "a1", Name: "global", Percentage: 5},
			{ID: "a2", Name: "dated", Percentage: 10, ApplicableDate: dayPtr("2026-08-14")},
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	d := report.Daily[0]
	assert.Equal(t, "2026-08-14", d.Day)
	assert.Equal(t, 8, d.BookedSeats)
	assert.InDelta(t, 200.0, d.GrossProfit, 1e-9)
	assert.InDelta(t, 30.0, d.Commission, 1e-9)
	assert.InDelta(t, 170.0, d.NetProfit, 1e-9)
}

func TestAggregateLegacyBookingFallsBackToDayPrice(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			// nil SeatPrices: written before prices were stamped
			{ID: "legacy", Date: day("2026-08-14"), Seats: []int{1, 2, 3}, UserName: "old"},
		},
		Prices: []domain.DailyPrice{
			{Date: day("2026-08-14"), Price: 40},
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	assert.InDelta(t, 120.0, report.Daily[0].GrossProfit, 1e-9)
}

func TestAggregateLegacyBookingUsesDefaultWithoutOverride(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			{ID: "legacy", Date: day("2026-08-14"), Seats: []int{1, 2}, UserName: "old"},
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	assert.InDelta(t, 50.0, report.Daily[0].GrossProfit, 1e-9)
}

func TestAggregateDateBoundAgentEarnsNothingElsewhere(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			stamped("2026-08-14", "alice", 25, 1, 2), // 50
		},
		Agents: []domain.CommissionAgent{
			{ID: "a1", Name: "wrong day", Percentage: 10, ApplicableDate: dayPtr("2026-08-15")},
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	assert.Zero(t, report.Daily[0].Commission)

	// the agent still shows up in the payout list, at zero
	require.Len(t, report.Agents, 1)
	assert.Equal(t, "a1", report.Agents[0].ID)
	assert.Zero(t, report.Agents[0].Total)
}

func TestAggregateCommissionIsUncapped(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			stamped("2026-08-14", "alice", 25, 1, 2, 3, 4), // 100
		},
		Agents: []domain.CommissionAgent{
			{ID: "a1", Name: "sixty", Percentage: 60},
			{ID: "a2", Name: "seventy", Percentage: 70},
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	assert.InDelta(t, 130.0, report.Daily[0].Commission, 1e-9)
	assert.InDelta(t, -30.0, report.Daily[0].NetProfit, 1e-9)
}

func TestAggregateSortOrders(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			stamped("2026-07-31", "a", 25, 1),
			stamped("2026-08-01", "b", 25, 1, 2),
			stamped("2026-08-14", "c", 25, 1, 2, 3),
		},
		Agents: []domain.CommissionAgent{
			{ID: "small", Name: "small", Percentage: 1},
			{ID: "big", Name: "big", Percentage: 10},
		},
	}

	report := Aggregate(snap, defaultPrice)

	// daily: most recent first
	require.Len(t, report.Daily, 3)
	assert.Equal(t, "2026-08-14", report.Daily[0].Day)
	assert.Equal(t, "2026-08-01", report.Daily[1].Day)
	assert.Equal(t, "2026-07-31", report.Daily[2].Day)

	// monthly: rolled up, most recent first
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, "2026-08", report.Monthly[0].Month)
	assert.Equal(t, 5, report.Monthly[0].BookedSeats)
	assert.InDelta(t, 125.0, report.Monthly[0].GrossProfit, 1e-9)
	assert.Equal(t, "2026-07", report.Monthly[1].Month)

	// payouts: largest total first
	require.Len(t, report.Agents, 2)
	assert.Equal(t, "big", report.Agents[0].ID)
	assert.InDelta(t, 15.0, report.Agents[0].Total, 1e-9)
	assert.InDelta(t, 1.5, report.Agents[1].Total, 1e-9)
}

func TestAggregateEmptySnapshot(t *testing.T) {
	report := Aggregate(domain.Snapshot{}, defaultPrice)

	assert.Empty(t, report.Daily)
	assert.Empty(t, report.Monthly)
	assert.Empty(t, report.Agents)
}

func TestAggregateMixedStampedAndLegacySameDay(t *testing.T) {
	snap := domain.Snapshot{
		Bookings: []domain.Booking{
			stamped("2026-08-14", "new", 30, 1, 2), // 60, stamps survive any later price change
			{ID: "legacy", Date: day("2026-08-14"), Seats: []int{3}, UserName: "old"}, // 25 default
		},
	}

	report := Aggregate(snap, defaultPrice)

	require.Len(t, report.Daily, 1)
	assert.Equal(t, 3, report.Daily[0].BookedSeats)
	assert.InDelta(t, 85.0, report.Daily[0].GrossProfit, 1e-9)
}
