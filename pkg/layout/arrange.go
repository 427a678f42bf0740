package layout

import (
	"math"
	"sort"

	"github.com/flowdeck/flowdeck/pkg/model"
)

// Placement is one panel's computed target geometry. Arrangement always
// forces the panel free; a tiled or cascaded panel is no longer anchored
// to a container edge.
type Placement struct {
	ID   string
	Rect model.Rect
}

// Cascade staggers panels diagonally from the cascade origin, ordered by
// their current z rank so the frontmost panel ends up deepest in the fan.
// Sizes are left untouched.
func Cascade(panels []*model.PanelLayout, o Options) []Placement {
	o = o.Normalized()

	ordered := make([]*model.PanelLayout, len(panels))
	copy(ordered, panels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	out := make([]Placement, 0, len(ordered))
	for k, p := range ordered {
		offset := o.CascadeOrigin + k*o.CascadeStep
		out = append(out, Placement{
			ID:   p.ID,
			Rect: model.Rect{X: offset, Y: offset, Width: p.Width, Height: p.Height},
		})
	}
	return out
}

// Tile lays panels out on a near-square grid covering the viewport, with
// a gutter between cells. Each panel gets a unique cell.
func Tile(panels []*model.PanelLayout, viewport model.Rect, o Options) []Placement {
	o = o.Normalized()
	n := len(panels)
	if n == 0 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	cellW := viewport.Width / cols
	cellH := viewport.Height / rows
	half := o.TileGutter / 2

	out := make([]Placement, 0, n)
	for i, p := range panels {
		col := i % cols
		row := i / cols
		w, h := o.ClampSize(cellW-o.TileGutter, cellH-o.TileGutter)
		out = append(out, Placement{
			ID: p.ID,
			Rect: model.Rect{
				X:      viewport.X + col*cellW + half,
				Y:      viewport.Y + row*cellH + half,
				Width:  w,
				Height: h,
			},
		})
	}
	return out
}

// Stack collapses every panel onto the stack origin; the existing z order
// decides what is visible on top.
func Stack(panels []*model.PanelLayout, o Options) []Placement {
	o = o.Normalized()
	out := make([]Placement, 0, len(panels))
	for _, p := range panels {
		out = append(out, Placement{
			ID:   p.ID,
			Rect: model.Rect{X: o.StackX, Y: o.StackY, Width: p.Width, Height: p.Height},
		})
	}
	return out
}

// AvoidOverlap finds a position for a free panel that does not intersect
// any of the others. On overlap the panel slides just past the blocking
// panel's right edge plus a gutter, wrapping onto a new row when it would
// run off the viewport. Returns the original bounds and false when the
// panel already sits clear (or no clear spot is found within a bounded
// number of moves).
func AvoidOverlap(target *model.PanelLayout, others []*model.PanelLayout, viewport model.Rect, o Options) (model.Rect, bool) {
	o = o.Normalized()
	r := target.Bounds()

	moved := false
	for range 16 {
		blocker := firstOverlap(r, target.ID, others)
		if blocker == nil {
			return r, moved
		}
		b := blocker.Bounds()
		r.X = b.Right() + o.OverlapGutter
		if r.X+r.Width > viewport.Right() {
			r.X = viewport.X + o.OverlapGutter
			r.Y = b.Bottom() + o.OverlapGutter
		}
		moved = true
	}
	return target.Bounds(), false
}

func firstOverlap(r model.Rect, id string, others []*model.PanelLayout) *model.PanelLayout {
	for _, q := range others {
		if q.ID == id || q.FullScreen {
			continue
		}
		if r.Overlaps(q.Bounds()) {
			return q
		}
	}
	return nil
}
