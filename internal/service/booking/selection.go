package booking

import "sort"

// Selection is the operator's in-progress pick before a booking is submitted:
// explicitly toggled seats, or a quantity for auto-assignment. Transitions
// are pure functions so clients carry no hidden mutable counters.
type Selection struct {
	Seats    []int
	Quantity int
}

// NewSelection starts with no toggled seats and a quantity of one.
func NewSelection() Selection {
	return Selection{Quantity: 1}
}

// ToggleSeat adds the seat to the selection, or removes it when already
// selected.
func (s Selection) ToggleSeat(seat int) Selection {
	out := Selection{Quantity: s.Quantity}

	removed := false
	for _, picked := range s.Seats {
		if picked == seat {
			removed = true
			continue
		}
		out.Seats = append(out.Seats, picked)
	}

	if !removed {
		out.Seats = append(out.Seats, seat)
		sort.Ints(out.Seats)
	}

	return out
}

// SetQuantity sets the auto-assign quantity, clamped to [1, available].
func (s Selection) SetQuantity(quantity, available int) Selection {
	if quantity > available {
		quantity = available
	}
	if quantity < 1 {
		quantity = 1
	}

	return Selection{Seats: s.Seats, Quantity: quantity}
}

// Increment steps the quantity up, capped at the available count.
func (s Selection) Increment(available int) Selection {
	return s.SetQuantity(s.Quantity+1, available)
}

// Decrement steps the quantity down, floored at one.
func (s Selection) Decrement(available int) Selection {
	return s.SetQuantity(s.Quantity-1, available)
}

// Request converts the selection into a booking request: explicit seats when
// any are toggled, the quantity otherwise.
func (s Selection) Request() Request {
	if len(s.Seats) > 0 {
		return Request{Seats: s.Seats}
	}

	return Request{Quantity: s.Quantity}
}
