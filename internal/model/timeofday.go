package model

import (
	"errors"
	"fmt"
	"time"
)

// Times cross the HTTP boundary as "HH:MM" strings and live internally
// as minutes since midnight, venue-local.  Dates are "YYYY-MM-DD"
// strings with no time component, which sidesteps timezone arithmetic
// entirely.

const dateLayout = "2006-01-02"

var errBadClock = errors.New("invalid time of day")

// ParseClock converts an "HH:MM" string into minutes since midnight.
// "24:00" is accepted and yields minute 1440, so closing times and
// window ends at midnight round-trip with FormatClock.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", errBadClock, s)
	}
	if h == 24 && m == 0 {
		return 24 * 60, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", errBadClock, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".  Minute 1440
// (midnight at the end of the day) is rendered as "24:00" so a window
// ending at closing time stays unambiguous.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate validates a calendar day string and returns it in the
// canonical YYYY-MM-DD form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(dateLayout), nil
}
