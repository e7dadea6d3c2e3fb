package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

const pickerHeight = 10

// ProfilePicker is a filterable list of AWS profiles
type ProfilePicker struct {
	profiles []types.AWSProfile
	filtered []types.AWSProfile
	active   string
	search   string
	cursor   int
	offset   int

	selected  *types.AWSProfile
	cancelled bool
}

// NewProfilePicker creates a picker with the cursor on the active profile
func NewProfilePicker(profiles []types.AWSProfile, active string) ProfilePicker {
	m := ProfilePicker{profiles: profiles, filtered: profiles, active: active}
	for i, p := range profiles {
		if p.Name == active {
			m.cursor = i
			m.scroll()
			break
		}
	}
	return m
}

// Init implements tea.Model
func (m ProfilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProfilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.filtered) > 0 {
			p := m.filtered[m.cursor]
			m.selected = &p
			return m, tea.Quit
		}
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case tea.KeyBackspace:
		if m.search != "" {
			runes := []rune(m.search)
			m.search = string(runes[:len(runes)-1])
			m.filter()
		}
	case tea.KeyRunes:
		m.search += string(key.Runes)
		m.filter()
	}

	m.scroll()
	return m, nil
}

func (m *ProfilePicker) filter() {
	query := strings.ToLower(m.search)
	m.filtered = nil
	for _, p := range m.profiles {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Region), query) {
			m.filtered = append(m.filtered, p)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m *ProfilePicker) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerHeight {
		m.offset = m.cursor - pickerHeight + 1
	}
}

// View implements tea.Model
func (m ProfilePicker) View() string {
	if m.selected != nil || m.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Select AWS profile") + "  " + MutedStyle.Render("filter: ") + m.search + "\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString(MutedStyle.Render("  no matching profiles") + "\n")
	}

	end := m.offset + pickerHeight
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		p := m.filtered[i]

		marker := "  "
		if i == m.cursor {
			marker = NameStyle.Render("▸ ")
		}
		name := padRight(p.Name, 30)
		if p.Name == m.active {
			name = RunningStyle.Render(name)
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", marker, name, RegionStyle.Render(padRight(p.Region, 16))))
	}

	sb.WriteString("\n" + MutedStyle.Render("↑/↓ move • enter select • esc cancel") + "\n")
	return sb.String()
}

// Selected returns the chosen profile, nil if the picker was cancelled
func (m ProfilePicker) Selected() *types.AWSProfile {
	return m.selected
}

// SelectProfile runs the picker on the terminal
func SelectProfile(profiles []types.AWSProfile, active string) (*types.AWSProfile, error) {
	final, err := tea.NewProgram(NewProfilePicker(profiles, active)).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run profile selector: %w", err)
	}
	return final.(ProfilePicker).Selected(), nil
}

// PrintProfiles lists profiles, marking the active one
func PrintProfiles(w io.Writer, profiles []types.AWSProfile, active string) {
	for _, p := range profiles {
		marker := "  "
		name := padRight(p.Name, 30)
		if p.Name == active {
			marker = RunningStyle.Render("● ")
			name = RunningStyle.Render(name)
		}
		region := p.Region
		if region == "" {
			region = "-"
		}
		fmt.Fprintf(w, "%s%s %s %s\n", marker, name, RegionStyle.Render(padRight(region, 16)), MutedStyle.Render(p.Source))
	}
}
