package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a HH:MM:SS duration string to total seconds.
func ParseClock(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed duration %q", s)
	}

	var total int64
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed duration %q", s)
		}
		total = total*60 + int64(n)
	}
	return total, nil
}
