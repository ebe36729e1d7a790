package pricing

import (
	"time"

	"github.com/kcrown/partybus/internal/domain"
)

// ResolvePrice returns the per-seat price in effect on a day: the day's
// override when one exists, the default price otherwise. Pure function over
// a price snapshot; the booking engine and the profit aggregator both use it.
func ResolvePrice(day time.Time, prices []domain.DailyPrice, defaultPrice float64) float64 {
	for _, dp := range prices {
		if domain.SameDay(dp.Date, day) {
			return dp.Price
		}
	}

	return defaultPrice
}
