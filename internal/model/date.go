package model

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the canonical calendar date layout used for plan keys.
const DateKeyLayout = "2006-01-02"

// DateKey is a timezone-free calendar date in YYYY-MM-DD form.
type DateKey string

// ParseDateKey validates s as a canonical calendar date.
func ParseDateKey(s string) (DateKey, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q: %w", s, err)
	}
	// time.Parse already rejects non-padded fields; the round trip also
	// rejects anything it normalized.
	if t.Format(DateKeyLayout) != s {
		return "", fmt.Errorf("invalid date key %q: not canonical", s)
	}
	return DateKey(s), nil
}

// DateKeyFromTime returns the calendar date of t in t's location.
func DateKeyFromTime(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// Before reports whether d is strictly earlier than other.
// Canonical keys order lexically the same way they order chronologically.
func (d DateKey) Before(other DateKey) bool {
	return string(d) < string(other)
}

// Time returns midnight UTC of the date.
func (d DateKey) Time() (time.Time, error) {
	return time.Parse(DateKeyLayout, string(d))
}

// AddDays returns the key n days after d.
func (d DateKey) AddDays(n int) (DateKey, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return DateKeyFromTime(t.AddDate(0, 0, n)), nil
}

func (d DateKey) String() string {
	return string(d)
}
