package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultMaxBodySize    = 1048576     // 1 MB
	DefaultMaxOutputBytes = 4 * 1048576 // 4 MB
)

// ParseSize parses size strings like "1MB", "512KB", "2048576" to bytes.
func ParseSize(size string) (int64, error) {
	if size == "" {
		return 0, fmt.Errorf("size is empty")
	}

	// Handle unit suffixes (KB, MB, GB)
	upper := strings.ToUpper(strings.TrimSpace(size))
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result/multiplier != value { // overflow
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}
