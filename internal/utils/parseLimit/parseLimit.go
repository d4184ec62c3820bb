package utils

import (
	"strconv"
	"strings"
)

// ParseLimit returns 0 for anything that is not a positive integer so the
// caller can reject it as bad input.
func ParseLimit(s string) int {
	limit, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || limit <= 0 {
		return 0
	}

	return int(limit)
}
