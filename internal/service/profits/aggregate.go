package profits

import (
	"sort"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	"github.com/kcrown/partybus/internal/service/pricing"
)

// Aggregate derives the full profit report from a store snapshot. No
// aggregate state is persisted anywhere; the report is recomputed from the
// source records on every evaluation.
//
// Gross profit for a day sums each booking's stamped seat prices; a legacy
// booking with no stamps falls back to seat count times the day's resolved
// price. Commission sums every qualifying agent's cut of the day's gross —
// agents are additive and uncapped, so net profit can go negative when
// percentages sum past 100. That is accepted, not rejected.
func Aggregate(snap domain.Snapshot, defaultPrice float64) domain.ProfitReport {
	type dayTotals struct {
		gross float64
		seats int
	}

	byDay := make(map[string]*dayTotals)
	for _, b := range snap.Bookings {
		key := domain.DayKey(b.Date)
		totals := byDay[key]
		if totals == nil {
			totals = &dayTotals{}
			byDay[key] = totals
		}

		totals.gross += bookingGross(b, snap.Prices, defaultPrice)
		totals.seats += len(b.Seats)
	}

	daily := make([]domain.DailySummary, 0, len(byDay))
	for key, totals := range byDay {
		day, err := domain.ParseDay(key)
		if err != nil {
			continue
		}

		commission := commissionForDay(day, totals.gross, snap.Agents)

		daily = append(daily, domain.DailySummary{
			Day:         key,
			BookedSeats: totals.seats,
			GrossProfit: totals.gross,
			Commission:  commission,
			NetProfit:   totals.gross - commission,
		})
	}

	// most recent day first; YYYY-MM-DD keys sort lexicographically
	sort.Slice(daily, func(i, j int) bool { return daily[i].Day > daily[j].Day })

	return domain.ProfitReport{
		Daily:   daily,
		Monthly: monthlyFromDaily(daily),
		Agents:  agentPayouts(daily, snap.Agents),
	}
}

func bookingGross(b domain.Booking, prices []domain.DailyPrice, defaultPrice float64) float64 {
	if b.SeatPrices != nil {
		var sum float64
		for _, price := range b.SeatPrices {
			sum += price
		}

		return sum
	}

	// legacy record: no stamps, so the day's resolved price stands in
	return float64(len(b.Seats)) * pricing.ResolvePrice(b.Date, prices, defaultPrice)
}

// qualifies reports whether an agent earns commission on a day: global
// agents (no applicable date) qualify everywhere, date-bound agents only on
// their day. Both kinds apply simultaneously, with no precedence.
func qualifies(a domain.CommissionAgent, day time.Time) bool {
	return a.ApplicableDate == nil || domain.SameDay(*a.ApplicableDate, day)
}

func commissionForDay(day time.Time, gross float64, agents []domain.CommissionAgent) float64 {
	var commission float64
	for _, a := range agents {
		if qualifies(a, day) {
			commission += gross * a.Percentage / 100
		}
	}

	return commission
}

func monthlyFromDaily(daily []domain.DailySummary) []domain.MonthlySummary {
	byMonth := make(map[string]*domain.MonthlySummary)
	for _, d := range daily {
		key := d.Day[:len("2006-01")]
		m := byMonth[key]
		if m == nil {
			m = &domain.MonthlySummary{Month: key}
			byMonth[key] = m
		}

		m.BookedSeats += d.BookedSeats
		m.GrossProfit += d.GrossProfit
		m.Commission += d.Commission
		m.NetProfit += d.NetProfit
	}

	monthly := make([]domain.MonthlySummary, 0, len(byMonth))
	for _, m := range byMonth {
		monthly = append(monthly, *m)
	}

	// year then month descending; YYYY-MM keys sort lexicographically
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Month > monthly[j].Month })

	return monthly
}

// agentPayouts totals each agent's cut across every day it qualifies for.
// An agent with no qualifying days still appears, with a payout of zero.
func agentPayouts(daily []domain.DailySummary, agents []domain.CommissionAgent) []domain.AgentPayout {
	payouts := make([]domain.AgentPayout, 0, len(agents))
	for _, a := range agents {
		var total float64
		for _, d := range daily {
			day, err := domain.ParseDay(d.Day)
			if err != nil {
				continue
			}
			if qualifies(a, day) {
				total += d.GrossProfit * a.Percentage / 100
			}
		}

		payouts = append(payouts, domain.AgentPayout{
			ID:         a.ID,
			Name:       a.Name,
			Percentage: a.Percentage,
			Total:      total,
		})
	}

	sort.SliceStable(payouts, func(i, j int) bool { return payouts[i].Total > payouts[j].Total })

	return payouts
}
