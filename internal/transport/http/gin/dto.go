package httpgin

import (
	"strconv"
	"time"

	"github.com/kcrown/partybus/internal/domain"
)

// CreateBookingRequest books seats for a day: either an explicit seat
// selection or a quantity to auto-assign (lowest free seat numbers first).
type CreateBookingRequest struct {
	Day      string `json:"day" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Seats    []int  `json:"seats"`
	Quantity int    `json:"quantity"`
}

type SetPriceRequest struct {
	Price float64 `json:"price"`
}

type EditSeatPriceRequest struct {
	Price float64 `json:"price"`
}

type AgentRequest struct {
	Name           string  `json:"name" binding:"required"`
	Percentage     float64 `json:"percentage"`
	ApplicableDate *string `json:"applicable_date"`
}

type ErrorResponse struct {
	Error          string `json:"error"`
	Available      *int   `json:"available,omitempty"`
	StillAvailable []int  `json:"still_available,omitempty"`
}

type BookingResponse struct {
	ID         string             `json:"id"`
	Day        string             `json:"day"`
	Seats      []int              `json:"seats"`
	UserName   string             `json:"user_name"`
	SeatPrices map[string]float64 `json:"seat_prices,omitempty"`
	TotalCost  float64            `json:"total_cost"`
}

type AvailabilityResponse struct {
	Day        string `json:"day"`
	TotalSeats int    `json:"total_seats"`
	Available  []int  `json:"available"`
}

type DayPriceResponse struct {
	Day   string  `json:"day"`
	Price float64 `json:"price"`
}

type AgentResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Percentage     float64 `json:"percentage"`
	ApplicableDate *string `json:"applicable_date,omitempty"`
}

func bookingToResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:       b.ID,
		Day:      domain.DayKey(b.Date),
		Seats:    b.Seats,
		UserName: b.UserName,
	}

	if b.SeatPrices != nil {
		resp.SeatPrices = make(map[string]float64, len(b.SeatPrices))
		for seat, price := range b.SeatPrices {
			resp.SeatPrices[strconv.Itoa(seat)] = price
			resp.TotalCost += price
		}
	}

	return resp
}

func agentToResponse(a domain.CommissionAgent) AgentResponse {
	resp := AgentResponse{
		ID:         a.ID,
		Name:       a.Name,
		Percentage: a.Percentage,
	}

	if a.ApplicableDate != nil {
		key := domain.DayKey(*a.ApplicableDate)
		resp.ApplicableDate = &key
	}

	return resp
}

func parseOptionalDay(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	day, err := domain.ParseDay(*s)
	if err != nil {
		return nil, err
	}

	return &day, nil
}
