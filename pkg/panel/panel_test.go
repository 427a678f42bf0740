package panel

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck/pkg/layout"
	"github.com/flowdeck/flowdeck/pkg/model"
	"github.com/flowdeck/flowdeck/pkg/store"
)

type nopContent struct{}

func (nopContent) SetSize(int, int)       {}
func (nopContent) Update(tea.Msg) tea.Cmd { return nil }
func (nopContent) View() string           { return "" }

func fixedBounds(r model.Rect) BoundsProvider {
	return func() model.Rect { return r }
}

func testContainer() model.Rect {
	return model.Rect{X: 0, Y: 0, Width: 1200, Height: 800}
}

func newTestPanel(t *testing.T, spec model.InitialPanelSpec, opts ...Option) (*Panel, *store.Store) {
	t.Helper()
	st := store.New(nil, layout.Options{}, nil)
	p := New(spec, st, fixedBounds(testContainer()), nopContent{}, opts...)
	p.Mount()
	p.Show()
	return p, st
}

func press(p *Panel, x, y int) {
	p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func motion(p *Panel, x, y int) {
	p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
}

func release(p *Panel, x, y int) {
	p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
}

func TestMountSeedsFreePanel(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float"})

	rec, ok := st.Get("float")
	if !ok {
		t.Fatal("Mount should create a record")
	}
	if rec.DockPosition != model.DockFree {
		t.Errorf("Expected free dock, got %s", rec.DockPosition)
	}
	if rec.Width != layout.DefaultFallbackSize {
		t.Errorf("Expected fallback size, got %d", rec.Width)
	}
	if !p.Visible() {
		t.Error("Panel should be visible after Show")
	}
}

func TestMountSeedsDockedPanel(t *testing.T) {
	_, st := newTestPanel(t, model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420})

	rec, _ := st.Get("settings")
	if rec.Left != 1200-420 {
		t.Errorf("Right dock should be flush with right edge, got left %d", rec.Left)
	}
	if rec.Height != 800 || !rec.FullHeight {
		t.Errorf("Side dock should track container height, got %d fullHeight=%v", rec.Height, rec.FullHeight)
	}
}

func TestRemountReappliesDockToNewContainer(t *testing.T) {
	st := store.New(nil, layout.Options{}, nil)
	spec := model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420}

	p := New(spec, st, fixedBounds(testContainer()), nopContent{})
	p.Mount()
	p.Unmount()

	// Same store, smaller container: the persisted record re-docks.
	small := model.Rect{X: 0, Y: 0, Width: 900, Height: 600}
	p2 := New(spec, st, fixedBounds(small), nopContent{})
	p2.Mount()

	rec, _ := st.Get("settings")
	if rec.Left != 900-420 {
		t.Errorf("Re-dock against new container failed, left = %d", rec.Left)
	}
	if rec.Height != 600 {
		t.Errorf("FullHeight panel should track new container, got %d", rec.Height)
	}
}

func TestHeaderDragMovesAndUndocks(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420})

	rec, _ := st.Get("settings")
	press(p, rec.Left+3, rec.Top)
	motion(p, rec.Left+53, rec.Top+20)

	rec, _ = st.Get("settings")
	if rec.DockPosition != model.DockFree {
		t.Errorf("Drag should undock the panel, got %s", rec.DockPosition)
	}
	if rec.Left != 780+50 || rec.Top != 20 {
		t.Errorf("Panel should follow the pointer delta, got (%d,%d)", rec.Left, rec.Top)
	}

	// After undocking, container changes no longer reposition it.
	release(p, rec.Left+3, rec.Top)
	p.ReapplyDock()
	after, _ := st.Get("settings")
	if after.Left != rec.Left || after.Top != rec.Top {
		t.Errorf("Free panel moved on re-dock: (%d,%d)", after.Left, after.Top)
	}
}

func TestDragReleasePastEdgeClampsPosition(t *testing.T) {
	mem := store.NewMemoryStorage()
	st := store.New(mem, layout.Options{}, nil)
	spec := model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420}
	p := New(spec, st, fixedBounds(testContainer()), nopContent{})
	p.Mount()
	p.Show()

	rec, _ := st.Get("settings")
	press(p, rec.Left+10, rec.Top)
	motion(p, rec.Left+10-830, rec.Top-30)

	mid, _ := st.Get("settings")
	if mid.Left != -50 || mid.Top != -30 {
		t.Fatalf("Mid-drag position should follow the pointer, got (%d,%d)", mid.Left, mid.Top)
	}

	release(p, rec.Left+10-830, rec.Top-30)

	after, _ := st.Get("settings")
	if after.Left != 0 || after.Top != 0 {
		t.Errorf("Released position should clamp to the container origin, got (%d,%d)", after.Left, after.Top)
	}

	// The clamped position is what a reload sees.
	st2 := store.New(mem, layout.Options{}, nil)
	st2.Load("settings")
	stored, _ := st2.Get("settings")
	if stored.Left != 0 || stored.Top != 0 {
		t.Errorf("Persisted position should never be negative, got (%d,%d)", stored.Left, stored.Top)
	}
}

func TestHeaderClickWithoutMovementKeepsDock(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420})

	rec, _ := st.Get("settings")
	press(p, rec.Left+3, rec.Top)
	// Terminals often emit a motion at the unchanged position.
	motion(p, rec.Left+3, rec.Top)
	release(p, rec.Left+3, rec.Top)

	rec, _ = st.Get("settings")
	if rec.DockPosition != model.DockRight {
		t.Errorf("Plain click should not undock, got %s", rec.DockPosition)
	}
}

func TestPressRaisesPanel(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "a"})
	st.SetItemState("b", model.Patch{ZIndex: model.Int(500)})

	rec, _ := st.Get("a")
	press(p, rec.Left+5, rec.Top+5)

	a, _ := st.Get("a")
	if a.ZIndex <= 500 {
		t.Errorf("Clicked panel should be frontmost, got z=%d", a.ZIndex)
	}
	if st.LastClickedID() != "a" {
		t.Errorf("LastClickedID = %q, want a", st.LastClickedID())
	}
}

func TestResizeRightEdge(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	press(p, 399, 150)
	if !st.IsResizing() {
		t.Fatal("Edge press should set the shared resizing flag")
	}
	motion(p, 499, 150)

	rec, _ := st.Get("float")
	if rec.Width != 500 {
		t.Errorf("Right resize to width 500 failed, got %d", rec.Width)
	}

	release(p, 499, 150)
	if st.IsResizing() {
		t.Error("Release should clear the resizing flag")
	}
}

func TestResizeRejectsBelowMinimum(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	press(p, 399, 150)
	motion(p, 49, 150) // would give width 50

	rec, _ := st.Get("float")
	if rec.Width != 400 {
		t.Errorf("Undersized frame should be rejected, got width %d", rec.Width)
	}

	// The gesture is still alive; a legal frame applies.
	motion(p, 449, 150)
	rec, _ = st.Get("float")
	if rec.Width != 450 {
		t.Errorf("Gesture should survive a rejected frame, got width %d", rec.Width)
	}
}

func TestResizeRejectsBeyondViewport(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	press(p, 399, 150)
	motion(p, 1350, 150) // width would cross the right viewport edge

	rec, _ := st.Get("float")
	if rec.Width != 400 {
		t.Errorf("Frame past the viewport should be rejected, got width %d", rec.Width)
	}
}

func TestResizeLeftEdgeHoldsRightEdge(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	st.SetItemState("float", model.Patch{Left: model.Int(200), Top: model.Int(100)})

	press(p, 200, 200)
	motion(p, 150, 200)

	rec, _ := st.Get("float")
	if rec.Left != 150 || rec.Width != 450 {
		t.Errorf("Left resize should move left and grow, got left=%d width=%d", rec.Left, rec.Width)
	}
	if rec.Left+rec.Width != 600 {
		t.Errorf("Right edge should stay fixed at 600, got %d", rec.Left+rec.Width)
	}
}

func TestResizeTopEdgeHoldsBottomEdge(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	st.SetItemState("float", model.Patch{Left: model.Int(200), Top: model.Int(100)})

	press(p, 200, 100) // top-left corner cell resizes the top edge
	motion(p, 200, 80)

	rec, _ := st.Get("float")
	if rec.Top != 80 || rec.Height != 320 {
		t.Errorf("Top resize wrong: top=%d height=%d", rec.Top, rec.Height)
	}
	if rec.Top+rec.Height != 400 {
		t.Errorf("Bottom edge should stay fixed at 400, got %d", rec.Top+rec.Height)
	}
}

func TestHideMidGestureClearsResizingFlag(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	press(p, 399, 150)
	if !st.IsResizing() {
		t.Fatal("Flag should be set during the gesture")
	}
	p.Hide()
	if st.IsResizing() {
		t.Error("Hide mid-gesture must clear the shared flag")
	}
}

func TestUnmountMidGestureClearsResizingFlag(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	press(p, 399, 150)
	p.Unmount()
	if st.IsResizing() {
		t.Error("Unmount mid-gesture must clear the shared flag")
	}
}

func TestResizePropagatesToSyncedGroup(t *testing.T) {
	st := store.New(nil, layout.Options{}, nil)
	specA := model.InitialPanelSpec{ID: "table", Group: "bottom", SyncDimensions: true, Width: 400, Height: 300}
	specB := model.InitialPanelSpec{ID: "log", Group: "bottom", SyncDimensions: true, Width: 400, Height: 300}

	a := New(specA, st, fixedBounds(testContainer()), nopContent{})
	a.Mount()
	a.Show()
	b := New(specB, st, fixedBounds(testContainer()), nopContent{})
	b.Mount()
	b.Show()

	press(a, 399, 150)
	motion(a, 499, 150)

	log, _ := st.Get("log")
	if log.Width != 500 {
		t.Errorf("Synced group member should follow the resize, got %d", log.Width)
	}
}

func TestHoverAdoptsResizeAfterDelay(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	clock := time.Unix(1000, 0)
	p.now = func() time.Time { return clock }

	// Another panel's resize is in flight.
	st.SetResizing(true)

	motion(p, 399, 150) // arms the hover timer on the right edge
	motion(p, 399, 150) // still within the delay
	if p.resize != nil {
		t.Fatal("Adoption before the delay should not happen")
	}

	clock = clock.Add(hoverResizeDelay + time.Millisecond)
	motion(p, 399, 150)
	if p.resize == nil {
		t.Fatal("Pointer resting on the handle should adopt the gesture")
	}

	motion(p, 459, 150)
	rec, _ := st.Get("float")
	if rec.Width != 460 {
		t.Errorf("Adopted gesture should resize from the adoption point, got %d", rec.Width)
	}
}

func TestHoverIgnoredWhenNoResizeInFlight(t *testing.T) {
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	clock := time.Unix(1000, 0)
	p.now = func() time.Time { return clock }

	motion(p, 399, 150)
	clock = clock.Add(time.Second)
	motion(p, 399, 150)

	if p.resize != nil {
		t.Error("Hover without a resize in flight must not adopt")
	}
}

func TestToggleMinimizeFiresCallbackOncePerTransition(t *testing.T) {
	calls := 0
	p, _ := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300},
		WithOnMinimize(func() { calls++ }))

	p.ToggleMinimize()
	if !p.Minimized() || calls != 1 {
		t.Errorf("Minimize should collapse and fire once, minimized=%v calls=%d", p.Minimized(), calls)
	}
	p.ToggleMinimize()
	if p.Minimized() || calls != 1 {
		t.Errorf("Restore must not fire the callback, calls=%d", calls)
	}
	p.ToggleMinimize()
	if calls != 2 {
		t.Errorf("Second minimize should fire again, calls=%d", calls)
	}
}

func TestMinimizedPanelKeepsGeometry(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	before, _ := st.Get("float")
	p.ToggleMinimize()
	after, _ := st.Get("float")

	if before.Bounds() != after.Bounds() {
		t.Errorf("Minimize must not touch geometry: %v vs %v", before.Bounds(), after.Bounds())
	}

	r, ok := p.RenderBounds()
	if !ok || r.Height != 1 {
		t.Errorf("Minimized panel should occupy one row, got %d", r.Height)
	}
}

func TestDockButtonsBlockedWhileFullScreen(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	p.ToggleFullScreen()
	p.MoveToLeft()

	rec, _ := st.Get("float")
	if !rec.FullScreen {
		t.Error("Docking must not break fullscreen")
	}
	if rec.DockPosition == model.DockLeft {
		t.Error("Dock position must not change while fullscreen")
	}
}

func TestFullScreenRoundTripViaWidget(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	st.SetItemState("float", model.Patch{Left: model.Int(60), Top: model.Int(40)})

	p.ToggleFullScreen()
	rec, _ := st.Get("float")
	if rec.Width != 1200 || rec.Height != 800 {
		t.Errorf("Fullscreen should cover the container, got %dx%d", rec.Width, rec.Height)
	}

	p.ToggleFullScreen()
	rec, _ = st.Get("float")
	if rec.Left != 60 || rec.Top != 40 || rec.Width != 400 || rec.Height != 300 {
		t.Errorf("Restore should recover exact geometry, got %+v", rec.Bounds())
	}
}

func TestCloseButtonHidesPanel(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	rec, _ := st.Get("float")
	// The close button is the rightmost cell of the strip.
	press(p, rec.Left+rec.Width-2, rec.Top)

	if p.Visible() {
		t.Error("Close button should hide the panel")
	}
	if _, ok := st.Get("float"); !ok {
		t.Error("Hiding must keep the record for the next Show")
	}
}

func TestMinimizeButton(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})

	rec, _ := st.Get("float")
	// Button strip tail: _ o x. Minimize sits three cells before the
	// right corner.
	press(p, rec.Left+rec.Width-4, rec.Top)

	if !p.Minimized() {
		t.Error("Minimize button should collapse the panel")
	}
}

func TestResetBroadcastAppliedOnNextUpdate(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "settings", DockPosition: model.DockRight, Width: 420})

	// Knock the record loose, then reset. The broadcast sets a pending
	// flag only; the re-dock happens on the next event-loop pass.
	st.SetItemState("settings", model.Patch{Left: model.Int(5)})
	st.ResetAll()

	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})

	rec, _ := st.Get("settings")
	if rec.Left != 1200-420 {
		t.Errorf("Reset + update should re-dock against the live container, got left %d", rec.Left)
	}
}

func TestHiddenPanelIgnoresMouse(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	p.Hide()

	press(p, 5, 5)
	motion(p, 50, 50)

	rec, _ := st.Get("float")
	if rec.Left != 0 || rec.Top != 0 {
		t.Errorf("Hidden panel must not react to the pointer, got (%d,%d)", rec.Left, rec.Top)
	}
}

func TestPressOutsideBoundsIgnored(t *testing.T) {
	p, st := newTestPanel(t, model.InitialPanelSpec{ID: "float", Width: 400, Height: 300})
	st.SetItemState("b", model.Patch{ZIndex: model.Int(900)})

	press(p, 800, 600)

	rec, _ := st.Get("float")
	if rec.ZIndex > 900 {
		t.Error("Press outside the panel must not raise it")
	}
}
