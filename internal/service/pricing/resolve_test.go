package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/kcrown/partybus/internal/domain"
	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolvePrice(t *testing.T) {
	prices := []domain.DailyPrice{
		{Date: day("2026-08-14"), Price: 40},
		{Date: day("2026-08-15"), Price: 30},
	}

	tests := []struct {
		name string
		day  time.Time
		want float64
	}{
		{"override wins", day("2026-08-14"), 40},
		{"other override", day("2026-08-15"), 30},
		{"no override falls back to default", day("2026-08-16"), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePrice(tt.day, prices, 25))
		})
	}
}

func TestResolvePriceIgnoresTimeOfDay(t *testing.T) {
	prices := []domain.DailyPrice{{Date: day("2026-08-14"), Price: 40}}
	noon := time.Date(2026, 8, 14, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, 40.0, ResolvePrice(noon, prices, 25))
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		wantErr bool
	}{
		{"zero is allowed", 0, false},
		{"positive", 25.50, false},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrice(tt.price)
			if tt.wantErr {
				assert.ErrorAs(t, err, &InvalidPriceError{})
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
