package controls

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeQuery(m Model, q string) Model {
	for _, r := range q {
		m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPaletteClosedIgnoresInput(t *testing.T) {
	m := New()

	m, action, _ := m.Update(key("enter"))
	if action != ActionNone {
		t.Errorf("Closed palette should fire nothing, got %v", action)
	}
	if m.Visible() {
		t.Error("Palette should stay closed")
	}
}

func TestPaletteOpenAndEscape(t *testing.T) {
	m := New()
	m.Open()
	if !m.Visible() {
		t.Fatal("Open should show the palette")
	}

	m, action, _ := m.Update(key("esc"))
	if action != ActionNone || m.Visible() {
		t.Errorf("Esc should close without firing, visible=%v action=%v", m.Visible(), action)
	}
}

func TestPaletteEnterFiresSelection(t *testing.T) {
	m := New()
	m.Open()

	m, action, _ := m.Update(key("enter"))
	if action != ActionTile {
		t.Errorf("First command should be tile, got %v", action)
	}
	if m.Visible() {
		t.Error("Firing a command should close the palette")
	}
}

func TestPaletteArrowSelection(t *testing.T) {
	m := New()
	m.Open()

	m, _, _ = m.Update(key("down"))
	m, action, _ := m.Update(key("enter"))
	if action != ActionCascade {
		t.Errorf("Second command should be cascade, got %v", action)
	}
}

func TestPaletteSelectionClampedAtEdges(t *testing.T) {
	m := New()
	m.Open()

	m, _, _ = m.Update(key("up")) // already at the top
	for i := 0; i < 20; i++ {
		m, _, _ = m.Update(key("down"))
	}
	m, action, _ := m.Update(key("enter"))
	if action != ActionExportSnapshot {
		t.Errorf("Over-scrolling should clamp to the last command, got %v", action)
	}
}

func TestPaletteFuzzyFilter(t *testing.T) {
	m := New()
	m.Open()
	m = typeQuery(m, "reset")

	m, action, _ := m.Update(key("enter"))
	if action != ActionResetLayout {
		t.Errorf("Query \"reset\" should select reset layout, got %v", action)
	}
}

func TestPaletteNoMatches(t *testing.T) {
	m := New()
	m.Open()
	m = typeQuery(m, "zzzzqqqq")

	m, action, _ := m.Update(key("enter"))
	if action != ActionNone {
		t.Errorf("Enter with no matches should fire nothing, got %v", action)
	}

	if !strings.Contains(m.View(), "no matching commands") {
		t.Error("View should say there are no matches")
	}
}

func TestPaletteReopenResetsQuery(t *testing.T) {
	m := New()
	m.Open()
	m = typeQuery(m, "reset")
	m, _, _ = m.Update(key("esc"))

	m.Open()
	m, action, _ := m.Update(key("enter"))
	if action != ActionTile {
		t.Errorf("Reopen should reset filter and selection, got %v", action)
	}
}

func TestPaletteViewListsCommands(t *testing.T) {
	m := New()
	m.Open()

	view := m.View()
	for _, name := range []string{"tile", "cascade", "stack", "reset layout"} {
		if !strings.Contains(view, name) {
			t.Errorf("View should list %q", name)
		}
	}
}

func TestPaletteHiddenViewEmpty(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("Closed palette should render nothing")
	}
}
