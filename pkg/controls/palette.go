// Package controls implements the layout command palette: a small
// floating surface that fires whole-desk layout operations (tile,
// cascade, stack, group sync, reset, export) and closes after each one.
package controls

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Action identifies the layout command the user picked.
type Action int

const (
	ActionNone Action = iota
	ActionTile
	ActionCascade
	ActionStack
	ActionSyncGroups
	ActionResetLayout
	ActionCopyLayout
	ActionExportSnapshot
)

type command struct {
	action Action
	name   string
	desc   string
}

var commands = []command{
	{ActionTile, "tile", "Arrange open panels on a grid"},
	{ActionCascade, "cascade", "Fan open panels diagonally"},
	{ActionStack, "stack", "Pile open panels at the stack origin"},
	{ActionSyncGroups, "sync groups", "Equalize dimensions in every panel group"},
	{ActionResetLayout, "reset layout", "Clear saved layout and restore defaults"},
	{ActionCopyLayout, "copy layout", "Copy the layout as JSON to the clipboard"},
	{ActionExportSnapshot, "export snapshot", "Save the layout as an SVG snapshot"},
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282A36")).
			Background(lipgloss.Color("#BD93F9")).
			Bold(true)
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2"))
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
)

// Model is the palette state: open/closed, the query, and the filtered
// command list.
type Model struct {
	visible  bool
	input    textinput.Model
	filtered []command
	selected int
}

// New creates a closed palette.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "layout command"
	ti.Prompt = "> "
	ti.CharLimit = 40
	return Model{
		input:    ti,
		filtered: commands,
	}
}

// Visible reports whether the palette is open.
func (m Model) Visible() bool { return m.visible }

// Open shows the palette with an empty query.
func (m *Model) Open() tea.Cmd {
	m.visible = true
	m.selected = 0
	m.filtered = commands
	m.input.SetValue("")
	return m.input.Focus()
}

// Close hides the palette.
func (m *Model) Close() {
	m.visible = false
	m.input.Blur()
}

// Update handles palette input. A non-ActionNone return means the user
// fired a command; the palette has already closed itself.
func (m Model) Update(msg tea.Msg) (Model, Action, tea.Cmd) {
	if !m.visible {
		return m, ActionNone, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Close()
			return m, ActionNone, nil
		case "up", "ctrl+k":
			if m.selected > 0 {
				m.selected--
			}
			return m, ActionNone, nil
		case "down", "ctrl+j":
			if m.selected < len(m.filtered)-1 {
				m.selected++
			}
			return m, ActionNone, nil
		case "enter":
			if m.selected >= 0 && m.selected < len(m.filtered) {
				action := m.filtered[m.selected].action
				m.Close()
				return m, action, nil
			}
			return m, ActionNone, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, ActionNone, cmd
}

func (m *Model) refilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.filtered = commands
		m.selected = 0
		return
	}

	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name + " " + c.desc
	}
	matches := fuzzy.Find(query, names)

	m.filtered = make([]command, 0, len(matches))
	for _, match := range matches {
		m.filtered = append(m.filtered, commands[match.Index])
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

// View renders the palette box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(descStyle.Render("no matching commands"))
	}
	for i, c := range m.filtered {
		line := nameStyle.Render(c.name) + "  " + descStyle.Render(c.desc)
		if i == m.selected {
			line = selectedStyle.Render(" "+c.name+" ") + "  " + descStyle.Render(c.desc)
		}
		b.WriteString(line)
		if i < len(m.filtered)-1 {
			b.WriteByte('\n')
		}
	}

	return boxStyle.Render(b.String())
}
