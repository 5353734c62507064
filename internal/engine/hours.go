package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/acs-schedule-api/pkg/errors"
)

// DurationToHours parses an "H:MM:SS"-style clock duration into fractional
// hours. An empty string means zero accumulated hours, not an error.
func DurationToHours(clock string) (float64, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, nil
	}

	parts := strings.Split(clock, ":")
	if len(parts) > 3 {
		return 0, appErrors.Clone(appErrors.ErrMalformedDuration, fmt.Sprintf("duration %q has too many segments", clock))
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || n < 0 {
			return 0, appErrors.Clone(appErrors.ErrMalformedDuration, fmt.Sprintf("duration %q has a non-numeric segment", clock))
		}
		values[i] = n
	}

	hours := values[0]
	if len(values) > 1 {
		hours += values[1] / 60
	}
	if len(values) > 2 {
		hours += values[2] / 3600
	}
	return hours, nil
}

// MinutesBetween returns the elapsed minutes between two "HH:MM" 24-hour
// clock readings. ok is false when either side is malformed or the end does
// not fall after the start; callers fall back to a stored nominal duration.
func MinutesBetween(startClock, endClock string) (minutes int, ok bool) {
	start, ok := clockToMinutes(startClock)
	if !ok {
		return 0, false
	}
	end, ok := clockToMinutes(endClock)
	if !ok {
		return 0, false
	}
	if end <= start {
		return 0, false
	}
	return end - start, true
}

// AddHours applies a delta to a clock duration and renders the result.
// Accumulated hours form a monotonic ledger: negative results saturate to
// "0:00:00".
func AddHours(duration string, deltaHours float64) (string, error) {
	hours, err := DurationToHours(duration)
	if err != nil {
		return "", err
	}
	total := hours + deltaHours
	if total < 0 {
		total = 0
	}
	return hoursToDuration(total), nil
}

func clockToMinutes(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func hoursToDuration(hours float64) string {
	totalSeconds := int(math.Round(hours * 3600))
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
