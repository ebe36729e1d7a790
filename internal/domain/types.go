package domain

import "time"

// Booking is a set of seats reserved for one party on one calendar day.
// SeatPrices stamps the price each seat was sold at; it is nil for legacy
// records written before per-seat prices existed.
type Booking struct {
	ID         string
	Date       time.Time // start of day, UTC
	Seats      []int
	UserName   string
	SeatPrices map[int]float64
}

// DailyPrice overrides the default per-seat price for one calendar day.
type DailyPrice struct {
	Date  time.Time
	Price float64
}

// CommissionAgent earns a percentage of a day's gross profit. A nil
// ApplicableDate means the agent qualifies on every day.
type CommissionAgent struct {
	ID             string
	Name           string
	Percentage     float64
	ApplicableDate *time.Time
}

// SeatDetail identifies who holds a booked seat and at what stamped price.
type SeatDetail struct {
	BookingID string  `json:"booking_id"`
	UserName  string  `json:"user_name"`
	Price     float64 `json:"price"`
}

// Snapshot is a read-only mirror of the full store, passed to the pure
// aggregation functions. It is never mutated in place.
type Snapshot struct {
	Bookings []Booking
	Prices   []DailyPrice
	Agents   []CommissionAgent
}

type DailySummary struct {
	Day         string  `json:"day"`
	BookedSeats int     `json:"booked_seats"`
	GrossProfit float64 `json:"gross_profit"`
	Commission  float64 `json:"commission"`
	NetProfit   float64 `json:"net_profit"`
}

type MonthlySummary struct {
	Month       string  `json:"month"`
	BookedSeats int     `json:"booked_seats"`
	GrossProfit float64 `json:"gross_profit"`
	Commission  float64 `json:"commission"`
	NetProfit   float64 `json:"net_profit"`
}

type AgentPayout struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Total      float64 `json:"total"`
}

type ProfitReport struct {
	Daily   []DailySummary   `json:"daily"`
	Monthly []MonthlySummary `json:"monthly"`
	Agents  []AgentPayout    `json:"agents"`
}
