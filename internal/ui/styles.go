package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

// frame holds the box drawing runes for one table border row
type frame struct {
	left, mid, right string
}

const (
	horizontal = "─"
	vertical   = "│"
)

var (
	frameTop    = frame{"╭", "┬", "╮"}
	frameMiddle = frame{"├", "┼", "┤"}
	frameBottom = frame{"╰", "┴", "╯"}
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles shared by the console output, the table and the profile picker.
// Status colors follow the status line of the machine log: green running,
// red stopped, amber transitional.
var (
	BorderStyle  = fg("240")
	HeaderStyle  = fg("252").Bold(true)
	LabelStyle   = fg("220").Bold(true)
	NameStyle    = fg("203").Bold(true)
	RegionStyle  = fg("39").Faint(true)
	IPStyle      = fg("252")
	RunningStyle = fg("82")
	StoppedStyle = fg("196")
	PendingStyle = fg("214")
	MutedStyle   = fg("240")
)

// StatusStyle returns the style and indicator for an instance status
func StatusStyle(status types.InstanceStatus) (lipgloss.Style, string) {
	switch status {
	case types.StatusRunning:
		return RunningStyle, "●"
	case types.StatusStopped, types.StatusTerminated:
		return StoppedStyle, "○"
	case types.StatusPending, types.StatusStopping, types.StatusShuttingDown:
		return PendingStyle, "◐"
	default:
		return MutedStyle, "○"
	}
}

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}
