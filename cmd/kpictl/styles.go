package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// score bands for colouring.
const (
	bandHigh = 100
	bandMid  = 80
	barWidth = 20
	barScale = 120
)

// printStyles holds the styles of console reports. They render through a
// renderer bound to the output, so piped output carries no escape codes.
type printStyles struct {
	header lipgloss.Style
	label  lipgloss.Style
	high   lipgloss.Style
	mid    lipgloss.Style
	low    lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
	bad    lipgloss.Style
}

func newPrintStyles(w io.Writer) printStyles {
	r := lipgloss.NewRenderer(w)
	return printStyles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:  r.NewStyle().Bold(true),
		high:   r.NewStyle().Foreground(lipgloss.Color("10")),
		mid:    r.NewStyle().Foreground(lipgloss.Color("3")),
		low:    r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		bad:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

func (s printStyles) score(v int) string {
	text := fmt.Sprintf("%3d", v)
	switch {
	case v >= bandHigh:
		return s.high.Render(text)
	case v >= bandMid:
		return s.mid.Render(text)
	}
	return s.low.Render(text)
}

func (s printStyles) bar(v int) string {
	filled := v * barWidth / barScale
	if filled > barWidth {
		filled = barWidth
	}
	if v > 0 && filled == 0 {
		filled = 1
	}
	if filled < 0 {
		filled = 0
	}
	return s.high.Render(strings.Repeat("█", filled)) + s.dim.Render(strings.Repeat("░", barWidth-filled))
}

func (s printStyles) title(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.header.Render(fmt.Sprintf(format, args...)))
	fmt.Fprintln(w, s.dim.Render(strings.Repeat("─", 48)))
}
