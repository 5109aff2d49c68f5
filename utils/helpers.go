package utils

import (
	"fmt"
	"strconv"
)

// ParsePeriodDays parses the stats period query parameter. The period
// must be a positive integer number of days (typically 7, 30 or 90).
func ParsePeriodDays(s string) (int, error) {
	days, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("period must be an integer: %w", err)
	}
	if days <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", days)
	}
	return days, nil
}
