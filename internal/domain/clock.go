package domain

import (
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// MinutesOfDay parses an "HH:MM" or "HH:MM:SS" clock string into minutes
// since midnight. Seconds are truncated; the grid compares at minute
// precision. Malformed values degrade to 0 so one bad row narrows a
// window instead of aborting a whole batch.
func MinutesOfDay(clock string) int {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}
