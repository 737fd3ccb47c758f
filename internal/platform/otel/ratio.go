package otel

import (
	"fmt"
	"strconv"
)

// parseRatio accepts a sampling fraction in [0, 1].
func parseRatio(raw string) (float64, error) {
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse sample ratio %q: %w", raw, err)
	}
	if ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("sample ratio %v must be between 0 and 1", ratio)
	}
	return ratio, nil
}
