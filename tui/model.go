// Package tui is an interactive terminal explorer over the catalog. Every
// keystroke recomputes the filtered view and its statistics.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"game-pulse/catalog"
	"game-pulse/explorer"
	"game-pulse/site"
)

const defaultListRows = 10

// Model is the bubbletea model of the explorer.
type Model struct {
	games    []catalog.Game
	input    textinput.Model
	genres   []string
	quarters []string
	genre    int
	quarter  int
	result   explorer.Result
	styles   Styles
	width    int
	height   int
	quitting bool
}

// New creates an explorer showing the whole catalog.
func New(c *catalog.Catalog) Model {
	ti := textinput.New()
	ti.Placeholder = "Search by title or description..."
	ti.Prompt = "Search: "
	ti.CharLimit = 200
	ti.Focus()

	genres := []string{catalog.AllGenres}
	for _, g := range catalog.Genres() {
		genres = append(genres, string(g))
	}
	quarters := []string{catalog.AllQuarters}
	for _, q := range catalog.Quarters() {
		quarters = append(quarters, q.Label)
	}

	m := Model{
		games:    c.Games(),
		input:    ti,
		genres:   genres,
		quarters: quarters,
		styles:   DefaultStyles(),
	}
	m.recompute()
	return m
}

// Criteria returns the current filter selection.
func (m Model) Criteria() explorer.Criteria {
	return explorer.Criteria{
		Genre:   m.genres[m.genre],
		Quarter: m.quarters[m.quarter],
		Query:   m.input.Value(),
	}
}

// Result returns the current filtered view.
func (m Model) Result() explorer.Result {
	return m.result
}

func (m *Model) recompute() {
	m.result = explorer.Explore(m.games, m.Criteria())
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyTab:
			m.genre = cycle(m.genre, 1, len(m.genres))
			m.recompute()
			return m, nil
		case tea.KeyShiftTab:
			m.genre = cycle(m.genre, -1, len(m.genres))
			m.recompute()
			return m, nil
		case tea.KeyCtrlN:
			m.quarter = cycle(m.quarter, 1, len(m.quarters))
			m.recompute()
			return m, nil
		case tea.KeyCtrlP:
			m.quarter = cycle(m.quarter, -1, len(m.quarters))
			m.recompute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.recompute()
	return m, cmd
}

func cycle(i, step, n int) int {
	return ((i+step)%n + n) % n
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Release navigator 2026"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		s.Label.Render("Genre:"), s.Value.Render(m.genres[m.genre]),
		s.Label.Render("Quarter:"), s.Value.Render(m.quarters[m.quarter]))

	st := m.result.Stats
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s  %s %s\n\n",
		s.Label.Render("Games:"), s.Value.Render(fmt.Sprint(st.Count)),
		s.Label.Render("Avg hype:"), s.Value.Render(st.AverageLabel()),
		s.Label.Render("Platforms:"), s.Value.Render(st.PlatformsLabel()),
		s.Label.Render("Top quarter:"), s.Value.Render(st.TopQuarterLabel()))

	if top, ok := m.result.Top(); ok {
		b.WriteString(s.Featured.Render(featuredCard(s, top)))
		b.WriteString("\n")
		others := m.result.Others()
		rows := m.listRows()
		for i, g := range others {
			if i == rows {
				b.WriteString(s.Muted.Render(fmt.Sprintf("  … and %d more", len(others)-rows)))
				b.WriteString("\n")
				break
			}
			fmt.Fprintf(&b, "  %s  %-28s %s\n",
				s.Score.Render(fmt.Sprintf("%3d", g.HypeScore)),
				g.Title,
				s.Muted.Render(explorer.QuarterOf(g.ReleaseDate)+" • "+site.JoinGenres(g.Genres)))
		}
	} else {
		b.WriteString(s.Empty.Render(site.EmptyMessage))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render("tab/shift+tab genre • ctrl+n/ctrl+p quarter • esc quit"))
	return b.String()
}

func featuredCard(s Styles, g catalog.Game) string {
	var b strings.Builder
	b.WriteString(s.Muted.Render("Most anticipated"))
	b.WriteString("\n")
	b.WriteString(s.Value.Render(g.Title))
	b.WriteString("  ")
	b.WriteString(s.Score.Render(fmt.Sprintf("Hype: %d/100", g.HypeScore)))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("%s • %s • %s",
		g.Developer, site.LongDate(g.ReleaseDate), strings.Join(g.Platforms, ", "))))
	b.WriteString("\n")
	b.WriteString(g.Summary)
	return b.String()
}

// listRows fits the list to the terminal height once it is known.
func (m Model) listRows() int {
	if m.height == 0 {
		return defaultListRows
	}
	return max(m.height-18, 1)
}

// Run starts the explorer in the alternate screen and blocks until it exits.
func Run(c *catalog.Catalog, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(New(c), opts...).Run(); err != nil {
		return fmt.Errorf("explorer exited: %w", err)
	}
	return nil
}
