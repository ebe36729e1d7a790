package agents

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAgentValidation(t *testing.T) {
	tests := []struct {
		name       string
		agentName  string
		percentage float64
		wantErr    error
	}{
		{"valid", "Big Mike", 10, nil},
		{"zero percent allowed", "Zero", 0, nil},
		{"full hundred allowed", "All In", 100, nil},
		{"blank name", "   ", 10, ErrMissingName},
		{"negative percentage", "Neg", -1, InvalidPercentageError{Percentage: -1}},
		{"over hundred", "Greedy", 101, InvalidPercentageError{Percentage: 101}},
		{"NaN percentage", "NaN", math.NaN(), InvalidPercentageError{Percentage: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := buildAgent("id-1", tt.agentName, tt.percentage, nil)

			if tt.wantErr != nil {
				switch tt.wantErr.(type) {
				case InvalidPercentageError:
					var pctErr InvalidPercentageError
					assert.ErrorAs(t, err, &pctErr)
				default:
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "id-1", a.ID)
		})
	}
}

func TestBuildAgentTrimsName(t *testing.T) {
	a, err := buildAgent("id-1", "  Big Mike  ", 5, nil)

	require.NoError(t, err)
	assert.Equal(t, "Big Mike", a.Name)
}

func TestBuildAgentNormalizesApplicableDate(t *testing.T) {
	noon := time.Date(2026, 8, 14, 12, 30, 0, 0, time.UTC)

	a, err := buildAgent("id-1", "Dated", 5, &noon)

	require.NoError(t, err)
	require.NotNil(t, a.ApplicableDate)
	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), *a.ApplicableDate)
}
