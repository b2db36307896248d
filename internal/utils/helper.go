package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a positive integer path id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

// ParseOptionalBool returns nil for an empty string. It accepts
// 1/0, true/false, t/f, yes/no, y/n and on/off in any case.
func ParseOptionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y", "on":
		v = true
	case "0", "false", "f", "no", "n", "off":
		v = false
	default:
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
	return &v, nil
}

// ParseOptionalID returns nil for an empty string.
func ParseOptionalID(s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseTruthy reports whether s is one of 1, true, yes (case-insensitive).
func ParseTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
