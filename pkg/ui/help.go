package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Panel Workbench

## Panels

| Key | Panel |
|-----|-------|
| 1   | Node Settings |
| 2   | Table Preview |
| 3   | Log Viewer |
| 4   | Code Generator |
| 5   | Flow Results |

Click a panel header to drag it; drag a border to resize. The header
buttons dock (` + "`<^v>`" + `), minimize (` + "`_`" + `), fullscreen
(` + "`o`" + `), and close (` + "`x`" + `) the panel.

## Commands

- **ctrl+p** — open the layout palette (tile, cascade, stack, sync, reset, export)
- **?** — toggle this help
- **ctrl+q** — quit

Layout changes persist to ` + "`.flowdeck/layout.db`" + ` and survive restarts.
`

// HelpOverlayModel shows keyboard shortcuts help rendered from markdown.
type HelpOverlayModel struct {
	visible  bool
	width    int
	height   int
	rendered string
}

// NewHelpOverlayModel creates a new help overlay.
func NewHelpOverlayModel() HelpOverlayModel {
	return HelpOverlayModel{}
}

// Toggle toggles visibility.
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing.
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions and re-renders the markdown for the new wrap
// width.
func (m *HelpOverlayModel) SetSize(width, height int) {
	if width != m.width || m.rendered == "" {
		m.rendered = renderHelp(width)
	}
	m.width = width
	m.height = height
}

func renderHelp(width int) string {
	wrap := min(width-8, 72)
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// Update handles input.
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay.
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	content := m.rendered
	if content == "" {
		content = renderHelp(m.width)
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	return boxStyle.Render(content)
}
