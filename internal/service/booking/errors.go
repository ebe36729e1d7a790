package booking

import (
	"errors"
	"fmt"
)

var (
	ErrMissingName      = errors.New("booking name is required")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSeatNotInBooking = errors.New("seat is not part of the booking")
	ErrRateLimited      = errors.New("rate limited")
)

// InvalidQuantityError rejects zero, negative, or otherwise unusable
// auto-assign quantities.
type InvalidQuantityError struct {
	Quantity int
}

func (e InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid seat quantity: %d", e.Quantity)
}

// InvalidSeatsError rejects explicit seat selections that name seats outside
// [1, total] or name the same seat twice.
type InvalidSeatsError struct {
	Seats []int
}

func (e InvalidSeatsError) Error() string {
	return fmt.Sprintf("invalid seat numbers: %v", e.Seats)
}

// InsufficientCapacityError reports that fewer seats remain than were
// requested. Available carries the actual remaining count.
type InsufficientCapacityError struct {
	Requested int
	Available int
}

func (e InsufficientCapacityError) Error() string {
	return fmt.Sprintf("only %d seat(s) available, but %d were requested", e.Available, e.Requested)
}

// SeatConflictError reports that explicitly named seats were taken since the
// caller last saw the availability snapshot. StillAvailable carries the
// reduced subset the caller may re-confirm with; nothing is substituted
// silently.
type SeatConflictError struct {
	Unavailable    []int
	StillAvailable []int
}

func (e SeatConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %v", e.Unavailable)
}
