package utils

import (
	"strconv"
	"strings"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseIndex parses a zero-based grid index; ok is false for anything else.
func ParseIndex(value string) (int, bool) {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || result < 0 {
		return 0, false
	}
	return result, true
}
