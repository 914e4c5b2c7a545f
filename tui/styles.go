package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#6366f1")
	muted   = lipgloss.Color("#71717a")
	success = lipgloss.Color("#8BC34A")
	border  = lipgloss.Color("#d4d4d8")
)

// Styles holds the lipgloss styles of the explorer.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Featured lipgloss.Style
	Score    lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the explorer's styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label: lipgloss.NewStyle().Foreground(muted),
		Value: lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Featured: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Score: lipgloss.NewStyle().Bold(true).Foreground(success),
		Empty: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Foreground(muted).
			Padding(0, 2),
		Help: lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
