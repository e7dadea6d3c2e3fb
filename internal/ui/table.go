package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

type column struct {
	title string
	width int
	style lipgloss.Style
	value func(types.InstanceRecord) string
}

var inventoryColumns = []column{
	{"Name", 24, NameStyle, func(r types.InstanceRecord) string { return r.Name }},
	{"Region", 15, RegionStyle, func(r types.InstanceRecord) string { return r.Region }},
	{"ID", 20, MutedStyle, func(r types.InstanceRecord) string { return r.ID }},
	{"Status", 14, lipgloss.NewStyle(), nil},
	{"Address", 44, IPStyle, func(r types.InstanceRecord) string { return r.Address.Host() }},
	{"Kind", 7, MutedStyle, func(r types.InstanceRecord) string { return r.Address.Kind.String() }},
	{"Launched", 16, MutedStyle, launched},
}

func launched(r types.InstanceRecord) string {
	if r.LaunchTime.IsZero() {
		return "-"
	}
	return r.LaunchTime.UTC().Format("2006-01-02 15:04")
}

// PrintInventoryTable prints records in a boxed table followed by a summary
func PrintInventoryTable(w io.Writer, records []types.InstanceRecord) {
	var sb strings.Builder

	border := func(f frame) {
		sb.WriteString(BorderStyle.Render(f.left))
		for i, c := range inventoryColumns {
			sb.WriteString(BorderStyle.Render(strings.Repeat(horizontal, c.width+2)))
			if i < len(inventoryColumns)-1 {
				sb.WriteString(BorderStyle.Render(f.mid))
			}
		}
		sb.WriteString(BorderStyle.Render(f.right))
		sb.WriteString("\n")
	}

	border(frameTop)

	sb.WriteString(BorderStyle.Render(vertical))
	for _, c := range inventoryColumns {
		sb.WriteString(HeaderStyle.Render(" " + padRight(c.title, c.width) + " "))
		sb.WriteString(BorderStyle.Render(vertical))
	}
	sb.WriteString("\n")

	border(frameMiddle)

	for _, rec := range records {
		sb.WriteString(BorderStyle.Render(vertical))
		for _, c := range inventoryColumns {
			if c.value == nil {
				sb.WriteString(formatStatus(rec.Status, c.width))
			} else {
				sb.WriteString(c.style.Render(" " + padRight(c.value(rec), c.width) + " "))
			}
			sb.WriteString(BorderStyle.Render(vertical))
		}
		sb.WriteString("\n")
	}

	border(frameBottom)

	fmt.Fprint(w, sb.String())
	fmt.Fprintln(w, Summary(records))
}

func formatStatus(status types.InstanceStatus, width int) string {
	style, indicator := StatusStyle(status)
	return style.Render(fmt.Sprintf(" %s %s ", indicator, padRight(string(status), width-2)))
}

// Summary returns "  N instances (x running, y stopped)"
func Summary(records []types.InstanceRecord) string {
	counts := make(map[types.InstanceStatus]int)
	for _, rec := range records {
		counts[rec.Status]++
	}

	var parts []string
	for _, status := range []types.InstanceStatus{
		types.StatusRunning, types.StatusStopped, types.StatusPending,
		types.StatusStopping, types.StatusShuttingDown, types.StatusTerminated,
	} {
		if c := counts[status]; c > 0 {
			style, _ := StatusStyle(status)
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", c, status)))
		}
	}

	summary := fmt.Sprintf("  %d instances", len(records))
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	return summary
}
