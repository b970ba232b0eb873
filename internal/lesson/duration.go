package lesson

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDurationMinutes reads a free-text duration such as "10 mins",
// "5-10 minutes" or "15". The first number wins; it must be positive.
func ParseDurationMinutes(s string) (int, error) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, fmt.Errorf("no minutes in duration %q", s)
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return n, nil
}
