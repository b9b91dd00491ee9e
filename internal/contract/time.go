package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches "N [units]", e.g. "30 days", "6 months".
var windowDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour)s?$`)

// ParseWindowDuration converts strings like "3 months" or "720h" into a
// single time.Duration. It first tries Go's built-in time.ParseDuration for
// standard formats, then falls back to custom parsing for human-readable
// formats.
func ParseWindowDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("window must be positive")
		}
		return duration, nil
	}

	s = strings.ToLower(s)
	matches := windowDurationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid window format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var total time.Duration
	switch unit {
	case "year":
		// Approximation: 1 year = 365 days
		total = time.Duration(value) * 365 * 24 * time.Hour
	case "month":
		// Approximation: 1 month = 30 days
		total = time.Duration(value) * 30 * 24 * time.Hour
	case "week":
		total = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		total = time.Duration(value) * 24 * time.Hour
	case "hour":
		total = time.Duration(value) * time.Hour
	}

	if total == 0 {
		return 0, errors.New("zero window is not useful")
	}
	return total, nil
}
