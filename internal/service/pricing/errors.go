package pricing

import (
	"fmt"
	"math"
)

type InvalidPriceError struct {
	Price float64
}

func (e InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price: %v", e.Price)
}

// ValidatePrice rejects prices that are negative, NaN, or infinite.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return InvalidPriceError{Price: price}
	}

	return nil
}
