package utils

import (
	"strconv"

	"github.com/pkg/errors"
)

// ParseID parses a positive numeric identifier such as a challenge id.
func ParseID(s string) (int64, error) {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid id %q", s)
	}
	if val <= 0 {
		return 0, errors.Errorf("id must be positive, got %d", val)
	}
	return val, nil
}

// ParseWeek parses a week number.
func ParseWeek(s string) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("invalid week number %q", s)
	}
	if val <= 0 {
		return 0, errors.Errorf("week number must be positive, got %d", val)
	}
	return val, nil
}
