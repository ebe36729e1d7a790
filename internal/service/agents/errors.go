package agents

import (
	"errors"
	"fmt"
)

var (
	ErrMissingName   = errors.New("agent name is required")
	ErrAgentNotFound = errors.New("agent not found")
)

// InvalidPercentageError rejects commission percentages outside [0, 100].
type InvalidPercentageError struct {
	Percentage float64
}

func (e InvalidPercentageError) Error() string {
	return fmt.Sprintf("invalid commission percentage: %v", e.Percentage)
}
