package utilities

import (
	"strconv"
	"strings"
	"time"
)

// Parse parses "250ms", "1m30s" and friends. A bare integer is read as
// seconds, matching how the MQTT timeouts are configured.
func Parse(s string) (time.Duration, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, &time.ParseError{Layout: "duration", Value: s, Message: "empty duration"}
	}
	if secs, err := strconv.ParseInt(in, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(in)
}

// ParseOrDefault is Parse that returns def for empty input.
func ParseOrDefault(s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return Parse(s)
}
