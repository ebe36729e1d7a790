package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggleSeat(t *testing.T) {
	sel := NewSelection()

	sel = sel.ToggleSeat(7)
	sel = sel.ToggleSeat(3)
	assert.Equal(t, []int{3, 7}, sel.Seats)

	sel = sel.ToggleSeat(7)
	assert.Equal(t, []int{3}, sel.Seats)
}

func TestSelectionQuantityClamping(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		available int
		want      int
	}{
		{"within range", 3, 10, 3},
		{"clamped to available", 12, 10, 10},
		{"floored at one", 0, 10, 1},
		{"negative floored at one", -5, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection().SetQuantity(tt.quantity, tt.available)
			assert.Equal(t, tt.want, sel.Quantity)
		})
	}
}

func TestSelectionIncrementDecrement(t *testing.T) {
	sel := NewSelection() // quantity 1

	sel = sel.Increment(2)
	assert.Equal(t, 2, sel.Quantity)

	// capped at available
	sel = sel.Increment(2)
	assert.Equal(t, 2, sel.Quantity)

	sel = sel.Decrement(2)
	sel = sel.Decrement(2)
	assert.Equal(t, 1, sel.Quantity)
}

func TestSelectionRequest(t *testing.T) {
	t.Run("explicit seats take precedence", func(t *testing.T) {
		sel := NewSelection().ToggleSeat(4).SetQuantity(3, 35)

		req := sel.Request()
		assert.Equal(t, []int{4}, req.Seats)
		assert.Zero(t, req.Quantity)
	})

	t.Run("quantity when nothing toggled", func(t *testing.T) {
		sel := NewSelection().SetQuantity(3, 35)

		req := sel.Request()
		assert.Empty(t, req.Seats)
		assert.Equal(t, 3, req.Quantity)
	})
}
