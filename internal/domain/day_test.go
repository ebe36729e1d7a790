package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 14, 23, 59, 59, 999, time.UTC)
	got := StartOfDay(in)

	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same day different hours",
			a:    time.Date(2026, 8, 14, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 8, 14, 22, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "adjacent days",
			a:    time.Date(2026, 8, 14, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameDay(tt.a, tt.b))
		})
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	day := time.Date(2026, 8, 14, 13, 45, 0, 0, time.UTC)

	key := DayKey(day)
	require.Equal(t, "2026-08-14", key)

	parsed, err := ParseDay(key)
	require.NoError(t, err)
	assert.Equal(t, StartOfDay(day), parsed)
}

func TestParseDayRejectsGarbage(t *testing.T) {
	_, err := ParseDay("14/08/2026")
	assert.Error(t, err)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-08", MonthKey(time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)))
}
