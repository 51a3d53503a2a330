package pack

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSizeLimit converts a human size string into a byte count. Bare
// integers are bytes; K/KB, M/MB and G/GB suffixes are accepted in any
// case ("10MB", "512k", "1g").
func ParseSizeLimit(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty size limit")
	}

	upper := strings.ToUpper(trimmed)
	multiplier := 1
	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier, upper = 1024, strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "MB"):
		multiplier, upper = 1024*1024, strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "GB"):
		multiplier, upper = 1024*1024*1024, strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "K"):
		multiplier, upper = 1024, strings.TrimSuffix(upper, "K")
	case strings.HasSuffix(upper, "M"):
		multiplier, upper = 1024*1024, strings.TrimSuffix(upper, "M")
	case strings.HasSuffix(upper, "G"):
		multiplier, upper = 1024*1024*1024, strings.TrimSuffix(upper, "G")
	}

	value, err := strconv.Atoi(strings.TrimSpace(upper))
	if err != nil {
		return 0, fmt.Errorf("invalid size limit %q: %w", s, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size limit must be positive, got %q", s)
	}

	return value * multiplier, nil
}
