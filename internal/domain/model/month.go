package model

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// Month identifies a calendar month in YYYY-MM form.
type Month string

// MonthOf returns the UTC calendar month of t.
func MonthOf(t time.Time) Month {
	return Month(t.UTC().Format(monthLayout))
}

// ParseMonth validates s as a YYYY-MM month identifier.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(monthLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month(s), nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (m Month) String() string { return string(m) }
