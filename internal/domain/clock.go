package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	minPerDay  = 24 * 60
)

var (
	ErrInvalidClock = errors.New("invalid time of day, want HH:MM")
	ErrInvalidDate  = errors.New("invalid date, want YYYY-MM-DD")
)

// ParseClock converts a zero-padded 24h "HH:MM" string to minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minPerDay) + minPerDay) % minPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddClock adds a duration in minutes to an "HH:MM" string.
func AddClock(s string, minutes int) (string, error) {
	base, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(base + minutes), nil
}

// ParseDate parses a calendar date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
