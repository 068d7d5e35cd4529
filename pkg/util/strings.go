package util

import (
	"strconv"
	"strings"
)

// ParseStrictInt parses a base-10 integer, allowing surrounding whitespace
// and nothing else: "3" and " 3 " are accepted, "3.0", "3x" and "" are not.
func ParseStrictInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
