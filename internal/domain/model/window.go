package model

import (
	"fmt"
	"strings"
)

// Window is the reporting granularity used to derive a metric's effective
// value for display and scoring.
type Window string

// Reporting windows.
const (
	Monthly   Window = "monthly"
	Quarterly Window = "quarterly"
	Yearly    Window = "yearly"
)

// Samples returns how many trailing history samples the window averages.
// Monthly returns 0: it uses the current value as is.
func (w Window) Samples() int {
	switch w {
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 0
	}
}

// ParseWindow parses a window name. The empty string means monthly.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "", Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case Yearly:
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}
