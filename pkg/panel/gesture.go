package panel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck/pkg/model"
)

type resizeEdge int

const (
	edgeNone resizeEdge = iota
	edgeLeft
	edgeRight
	edgeTop
	edgeBottom
)

// dragGesture tracks a header drag from press to release. The panel
// position follows the pointer delta from the press point.
type dragGesture struct {
	startX, startY   int
	origLeft, origTop int
	moved            bool
}

// resizeGesture tracks one edge resize from press to release. The
// original rect is kept so top/left resizes can hold the opposite edge
// fixed.
type resizeGesture struct {
	edge           resizeEdge
	startX, startY int
	orig           model.Rect
}

// endGestures force-ends any in-flight gesture, clearing the shared
// resizing flag. Called on release, hide, and unmount so an abnormal end
// (release outside the panel, component teardown mid-drag) cannot leave
// the flag stuck.
func (p *Panel) endGestures() {
	if p.drag != nil && p.drag.moved {
		p.settleDrag()
	}
	p.drag = nil
	if p.resize != nil {
		p.resize = nil
		p.store.SetResizing(false)
	}
	p.hoverEdge = edgeNone
}

// settleDrag pulls a released panel back inside the container origin.
// Mid-drag the panel may hang past the top or left edge, but the resting
// position persisted after release is never negative.
func (p *Panel) settleDrag() {
	rec, ok := p.store.Get(p.id)
	if !ok {
		return
	}
	viewport := p.bounds()
	left, top := max(rec.Left, viewport.X), max(rec.Top, viewport.Y)
	if left == rec.Left && top == rec.Top {
		return
	}
	p.store.SetItemState(p.id, model.Patch{
		Left: model.Int(left),
		Top:  model.Int(top),
	})
	p.store.Save(p.id)
}

func (p *Panel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			p.handlePress(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		p.handleMotion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		p.endGestures()
	}
}

func (p *Panel) handlePress(x, y int) {
	rec, ok := p.store.Get(p.id)
	if !ok {
		return
	}
	r := p.renderBounds(rec)
	if !r.Contains(x, y) {
		return
	}

	// Any click inside the panel raises it.
	p.store.BringToFront(p.id)

	if btn := p.buttonAt(rec, x, y); btn != buttonNone {
		p.pressButton(btn)
		return
	}

	if edge := p.edgeAt(rec, x, y); edge != edgeNone {
		p.startResize(edge, x, y, rec)
		return
	}

	if y == r.Y {
		p.startDrag(x, y, rec)
	}
}

func (p *Panel) startDrag(x, y int, rec *model.PanelLayout) {
	if p.drag != nil || rec.FullScreen {
		return
	}
	p.drag = &dragGesture{
		startX: x, startY: y,
		origLeft: rec.Left, origTop: rec.Top,
	}
}

func (p *Panel) startResize(edge resizeEdge, x, y int, rec *model.PanelLayout) {
	if p.resize != nil || rec.FullScreen || p.minimized {
		return
	}
	p.resize = &resizeGesture{
		edge:   edge,
		startX: x, startY: y,
		orig: rec.Bounds(),
	}
	p.store.SetResizing(true)
}

func (p *Panel) handleMotion(x, y int) {
	switch {
	case p.drag != nil:
		p.dragTo(x, y)
	case p.resize != nil:
		p.resizeTo(x, y)
	default:
		p.maybeHoverResize(x, y)
	}
}

func (p *Panel) dragTo(x, y int) {
	g := p.drag
	dx, dy := x-g.startX, y-g.startY
	if dx == 0 && dy == 0 && !g.moved {
		return
	}
	patch := model.Patch{
		Left: model.Int(g.origLeft + dx),
		Top:  model.Int(g.origTop + dy),
	}
	if !g.moved {
		// The first real movement undocks the panel; a plain click on the
		// header must not.
		patch.DockPosition = model.Dock(model.DockFree)
		g.moved = true
	}
	p.store.SetItemState(p.id, patch)
	// Persist every frame so a crash mid-drag loses one frame, not the
	// session.
	p.store.Save(p.id)
}

func (p *Panel) resizeTo(x, y int) {
	g := p.resize
	opts := p.store.Options()
	viewport := p.bounds()
	dx, dy := x-g.startX, y-g.startY

	var patch model.Patch
	switch g.edge {
	case edgeRight:
		w := g.orig.Width + dx
		if w < opts.MinWidth || g.orig.X+w > viewport.Right() {
			return
		}
		patch.Width = model.Int(w)
	case edgeBottom:
		h := g.orig.Height + dy
		if h < opts.MinHeight || g.orig.Y+h > viewport.Bottom() {
			return
		}
		patch.Height = model.Int(h)
	case edgeLeft:
		w := g.orig.Width - dx
		left := g.orig.X + dx
		if w < opts.MinWidth || left < viewport.X {
			return
		}
		patch.Width = model.Int(w)
		patch.Left = model.Int(left)
	case edgeTop:
		h := g.orig.Height - dy
		top := g.orig.Y + dy
		if h < opts.MinHeight || top < viewport.Y {
			return
		}
		patch.Height = model.Int(h)
		patch.Top = model.Int(top)
	default:
		return
	}

	p.store.SetItemState(p.id, patch)
	p.store.Save(p.id)
	p.syncGroupAfterResize()
}

func (p *Panel) syncGroupAfterResize() {
	rec, ok := p.store.Get(p.id)
	if !ok || rec.Group == "" || !rec.SyncDimensions {
		return
	}
	p.store.SyncGroupDimensions(rec.Group, p.id)
}

// maybeHoverResize adopts a resize gesture when the pointer rests on one
// of this panel's handles while some other panel's resize is in flight.
// Dragging the shared border of two adjacent docked panels then moves
// both without the user re-targeting the seam.
func (p *Panel) maybeHoverResize(x, y int) {
	if !p.store.IsResizing() {
		p.hoverEdge = edgeNone
		return
	}
	rec, ok := p.store.Get(p.id)
	if !ok || rec.FullScreen || p.minimized {
		return
	}
	edge := p.edgeAt(rec, x, y)
	if edge == edgeNone {
		p.hoverEdge = edgeNone
		return
	}

	if edge != p.hoverEdge {
		p.hoverEdge = edge
		p.hoverSince = p.now()
		return
	}
	if p.now().Sub(p.hoverSince) < hoverResizeDelay {
		return
	}

	p.hoverEdge = edgeNone
	p.resize = &resizeGesture{
		edge:   edge,
		startX: x, startY: y,
		orig: rec.Bounds(),
	}
}
