package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// ConsoleObserver prints a colored status line for every discovered instance
type ConsoleObserver struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleObserver creates a ConsoleObserver writing to out
func NewConsoleObserver(out io.Writer) *ConsoleObserver {
	return &ConsoleObserver{out: out}
}

func (c *ConsoleObserver) RegionQueried(string) {}

func (c *ConsoleObserver) InstanceDiscovered(rec types.InstanceRecord) {
	line := StatusLine(rec)

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

func (c *ConsoleObserver) RegionFailed(region string, err error) {
	line := fmt.Sprintf("%s %s: %s",
		StoppedStyle.Render("✗"),
		RegionStyle.Render(region),
		MutedStyle.Render(err.Error()))

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// StatusLine renders "Machine :'name' - Status: running - Region: eu-west-3"
func StatusLine(rec types.InstanceRecord) string {
	statusStyle, _ := StatusStyle(rec.Status)

	return fmt.Sprintf("%s:'%s' - %s %s - %s: %s",
		LabelStyle.Render("Machine "),
		NameStyle.Render(rec.Name),
		LabelStyle.Render("Status:"),
		statusStyle.Faint(true).Render(string(rec.Status)),
		LabelStyle.Render("Region"),
		RegionStyle.Render(rec.Region))
}

// PrintArtifactResults prints one line per artifact destination
func PrintArtifactResults(w io.Writer, results []artifact.Result) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s %-18s %s\n", StoppedStyle.Render("✗"), r.Kind, MutedStyle.Render(r.Err.Error()))
		case r.Skipped:
			fmt.Fprintf(w, "%s %-18s %s\n", MutedStyle.Render("-"), r.Kind, MutedStyle.Render("nothing to write, "+r.Path+" left unchanged"))
		default:
			fmt.Fprintf(w, "%s %-18s %s %s\n", RunningStyle.Render("✓"), r.Kind, r.Path, MutedStyle.Render(fmt.Sprintf("(%d bytes)", r.Bytes)))
		}
	}
}
