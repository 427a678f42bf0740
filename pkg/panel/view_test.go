package panel

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/flowdeck/flowdeck/pkg/model"
)

func TestViewDimensions(t *testing.T) {
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "float", Title: "Preview", Width: 400, Height: 300})

	view := p.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 300 {
		t.Fatalf("View should be exactly Height rows, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 400 {
			t.Fatalf("Row %d is %d cells wide, want 400", i, w)
		}
	}
}

func TestViewMinimizedIsHeaderOnly(t *testing.T) {
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	p.ToggleMinimize()

	view := p.View()
	if strings.Contains(view, "\n") {
		t.Error("Minimized view should be a single header row")
	}
	if lipgloss.Width(view) != 400 {
		t.Errorf("Header row width = %d, want 400", lipgloss.Width(view))
	}
}

func TestViewHeaderShowsTitle(t *testing.T) {
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "nodeSettings", Title: "Node Settings", Width: 400, Height: 300})

	header := strings.Split(p.View(), "\n")[0]
	if !strings.Contains(header, "Node Settings") {
		t.Error("Header should carry the panel title")
	}
}

func TestNarrowPanelDropsDockButtons(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "slim", Width: 120, Height: 200})

	// Shrink under the compact threshold through the store directly.
	st.SetItemState("slim", model.Patch{Width: model.Int(20)})
	rec, _ := st.Get("slim")

	if got := p.buttons(rec); len(got) != len(compactButtons) {
		t.Errorf("Narrow panel should show the compact strip, got %d buttons", len(got))
	}
}

func TestHiddenPanelRendersNothing(t *testing.T) {
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	p.Hide()

	if p.View() != "" {
		t.Error("Hidden panel should render nothing")
	}
	if _, ok := p.RenderBounds(); ok {
		t.Error("Hidden panel should report no render bounds")
	}
}
