// Package panel implements the draggable window widget: one floating,
// dockable, resizable panel layered over the pipeline canvas. All state
// reads and writes go through the layout store; the widget owns only the
// pointer-gesture sequences and its own chrome.
package panel

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck/pkg/layout"
	"github.com/flowdeck/flowdeck/pkg/model"
	"github.com/flowdeck/flowdeck/pkg/store"
)

// BoundsProvider reports the current parent container rectangle. Geometry
// logic never reads the render tree; the owner decides what "parent"
// means (for the workbench it is the canvas area).
type BoundsProvider func() model.Rect

// Content is the body a panel owner plugs in. The panel sizes it to the
// interior and forwards non-gesture input to it while focused.
type Content interface {
	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// hoverResizeDelay is how long the pointer must rest on a resize handle,
// while another panel's resize is in flight, before this panel adopts a
// matching gesture. Lets the user drag a shared border between two
// docked panels as one continuous motion.
const hoverResizeDelay = 150 * time.Millisecond

// Panel is the interactive window widget for one panel id.
type Panel struct {
	id      string
	spec    model.InitialPanelSpec
	store   *store.Store
	bounds  BoundsProvider
	content Content

	visible   bool
	minimized bool

	onMinimize func()

	drag   *dragGesture
	resize *resizeGesture

	hoverEdge  resizeEdge
	hoverSince time.Time
	now        func() time.Time

	pendingReset atomic.Bool
	unsubscribe  func()
}

// Option configures a Panel.
type Option func(*Panel)

// WithOnMinimize sets a callback fired exactly once per minimize
// transition (not on restore).
func WithOnMinimize(fn func()) Option {
	return func(p *Panel) { p.onMinimize = fn }
}

// New creates the widget. Call Mount before first use.
func New(spec model.InitialPanelSpec, st *store.Store, bounds BoundsProvider, content Content, opts ...Option) *Panel {
	p := &Panel{
		id:      spec.ID,
		spec:    spec,
		store:   st,
		bounds:  bounds,
		content: content,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the panel id.
func (p *Panel) ID() string { return p.id }

// Title returns the display title.
func (p *Panel) Title() string {
	if p.spec.Title != "" {
		return p.spec.Title
	}
	return p.id
}

// Mount seeds or loads the panel's record and subscribes to layout
// resets. First mount seeds from the initial spec against the live container;
// a reload re-applies the persisted record's dock position against the
// current (possibly different-sized) container.
func (p *Panel) Mount() {
	p.store.RegisterSpec(p.spec)

	p.store.Load(p.id)
	if p.store.Has(p.id) {
		// Live or persisted record from an earlier mount or session.
		p.ReapplyDock()
	} else {
		seed := layout.Seed(p.spec, p.bounds(), p.store.Options())
		p.store.SetItemState(p.id, seedPatch(seed))
		p.store.Save(p.id)
	}

	p.unsubscribe = p.store.SubscribeReset(func(map[string]model.InitialPanelSpec) {
		// May fire on a watcher goroutine; defer the re-dock to the next
		// Update on the event loop.
		p.pendingReset.Store(true)
	})
}

// Unmount releases the reset subscription and force-ends any gesture so
// document-level state (the shared resizing flag) cannot leak.
func (p *Panel) Unmount() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.endGestures()
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// Minimized reports whether the panel is collapsed to its header.
func (p *Panel) Minimized() bool { return p.minimized }

// Show makes the panel visible and raises it.
func (p *Panel) Show() {
	p.visible = true
	p.store.ShowPanel(p.id)
}

// Hide hides the panel. Geometry is remembered for the next Show.
func (p *Panel) Hide() {
	p.visible = false
	p.endGestures()
}

// Toggle flips visibility.
func (p *Panel) Toggle() {
	if p.visible {
		p.Hide()
	} else {
		p.Show()
	}
}

// Layout returns the panel's current record.
func (p *Panel) Layout() (*model.PanelLayout, bool) {
	return p.store.Get(p.id)
}

// ReapplyDock recomputes docked geometry against the live container.
// Free panels are left where the user put them.
func (p *Panel) ReapplyDock() {
	rec, ok := p.store.Get(p.id)
	if !ok {
		return
	}
	if !rec.DockPosition.Docked() {
		return
	}
	r := layout.Docked(rec, p.bounds())
	p.store.SetItemState(p.id, model.Patch{
		Left: model.Int(r.X), Top: model.Int(r.Y),
		Width: model.Int(r.Width), Height: model.Int(r.Height),
	})
	p.store.Save(p.id)
}

// MoveToRight docks the panel against the right container edge.
func (p *Panel) MoveToRight() { p.dockTo(model.DockRight) }

// MoveToBottom docks the panel against the bottom container edge.
func (p *Panel) MoveToBottom() { p.dockTo(model.DockBottom) }

// MoveToLeft docks the panel against the left container edge.
func (p *Panel) MoveToLeft() { p.dockTo(model.DockLeft) }

// MoveToTop docks the panel against the top container edge.
func (p *Panel) MoveToTop() { p.dockTo(model.DockTop) }

func (p *Panel) dockTo(dock model.DockPosition) {
	if rec, ok := p.store.Get(p.id); ok && rec.FullScreen {
		return
	}
	p.store.SetItemState(p.id, model.Patch{DockPosition: model.Dock(dock)})
	p.ReapplyDock()
}

// ToggleMinimize collapses or restores the panel body. Local to the
// session; geometry is untouched.
func (p *Panel) ToggleMinimize() {
	p.minimized = !p.minimized
	if p.minimized && p.onMinimize != nil {
		p.onMinimize()
	}
}

// ToggleFullScreen delegates to the store; restoring recovers the exact
// pre-fullscreen geometry.
func (p *Panel) ToggleFullScreen() {
	rec, ok := p.store.Get(p.id)
	if !ok {
		return
	}
	p.store.SetFullScreen(p.id, !rec.FullScreen, p.bounds())
}

// Update handles pointer gestures and routes everything else to the
// content body.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if p.pendingReset.CompareAndSwap(true, false) {
		p.ReapplyDock()
	}
	if !p.visible {
		return nil
	}

	if mouse, ok := msg.(tea.MouseMsg); ok {
		p.handleMouse(mouse)
		return nil
	}

	if p.content != nil {
		return p.content.Update(msg)
	}
	return nil
}

func seedPatch(seed *model.PanelLayout) model.Patch {
	return model.Patch{
		Width:          model.Int(seed.Width),
		Height:         model.Int(seed.Height),
		Left:           model.Int(seed.Left),
		Top:            model.Int(seed.Top),
		DockPosition:   model.Dock(seed.DockPosition),
		FullWidth:      model.Bool(seed.FullWidth),
		FullHeight:     model.Bool(seed.FullHeight),
		ZIndex:         model.Int(seed.ZIndex),
		Group:          model.Str(seed.Group),
		SyncDimensions: model.Bool(seed.SyncDimensions),
	}
}
