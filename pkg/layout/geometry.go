// Package layout implements the pure geometry engine for panel windows:
// docking, clamping, fullscreen expansion, and whole-desk arrangement.
// Nothing in this package touches storage or the terminal; callers pass
// the container/viewport rectangles in and apply the results themselves.
package layout

import (
	"github.com/flowdeck/flowdeck/pkg/model"
)

// Default geometry constants, in layout units.
const (
	DefaultMinWidth      = 100
	DefaultMinHeight     = 100
	DefaultFallbackSize  = 300
	DefaultCascadeOrigin = 100
	DefaultCascadeStep   = 30
	DefaultTileGutter    = 20
	DefaultOverlapGutter = 50
	DefaultStackX        = 100
	DefaultStackY        = 100

	// DefaultZFloor is the minimum z rank among ordinary panels; bringing a
	// panel to front always lands strictly above it.
	DefaultZFloor = 99
	// DefaultZFullScreen is the reserved rank of the fullscreen panel, far
	// above anything BringToFront can produce in a session.
	DefaultZFullScreen = 99999
)

// Options parameterizes the engine. The zero value means "use the
// defaults"; the terminal front-end substitutes cell-scale values.
type Options struct {
	MinWidth      int
	MinHeight     int
	FallbackSize  int
	CascadeOrigin int
	CascadeStep   int
	TileGutter    int
	OverlapGutter int
	StackX        int
	StackY        int
	ZFloor        int
	ZFullScreen   int
}

// Normalized returns o with every zero field replaced by its default.
func (o Options) Normalized() Options {
	def := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	def(&o.MinWidth, DefaultMinWidth)
	def(&o.MinHeight, DefaultMinHeight)
	def(&o.FallbackSize, DefaultFallbackSize)
	def(&o.CascadeOrigin, DefaultCascadeOrigin)
	def(&o.CascadeStep, DefaultCascadeStep)
	def(&o.TileGutter, DefaultTileGutter)
	def(&o.OverlapGutter, DefaultOverlapGutter)
	def(&o.StackX, DefaultStackX)
	def(&o.StackY, DefaultStackY)
	def(&o.ZFloor, DefaultZFloor)
	def(&o.ZFullScreen, DefaultZFullScreen)
	return o
}

// ClampSize clamps a requested size to the minimum floor.
func (o Options) ClampSize(width, height int) (int, int) {
	o = o.Normalized()
	return max(width, o.MinWidth), max(height, o.MinHeight)
}

// Docked computes the geometry of a docked panel from the container
// bounds. The anchored dimension is flush against the container edge;
// the free dimension keeps the panel's own size unless FullWidth or
// FullHeight asks it to track the container. A free panel keeps its
// current bounds unchanged.
func Docked(p *model.PanelLayout, container model.Rect) model.Rect {
	width, height := p.Width, p.Height
	if p.FullWidth {
		width = container.Width
	}
	if p.FullHeight {
		height = container.Height
	}

	switch p.DockPosition {
	case model.DockTop:
		return model.Rect{X: container.X, Y: container.Y, Width: width, Height: height}
	case model.DockBottom:
		return model.Rect{X: container.X, Y: container.Bottom() - height, Width: width, Height: height}
	case model.DockLeft:
		return model.Rect{X: container.X, Y: container.Y, Width: width, Height: height}
	case model.DockRight:
		return model.Rect{X: container.Right() - width, Y: container.Y, Width: width, Height: height}
	case model.DockBottomCenter:
		// Centered variant never stretches to full width.
		width = p.Width
		x := container.X + (container.Width-width)/2
		return model.Rect{X: x, Y: container.Bottom() - height, Width: width, Height: height}
	default:
		return p.Bounds()
	}
}

// FullScreenBounds is the geometry of the fullscreen panel.
func FullScreenBounds(viewport model.Rect) model.Rect {
	return viewport
}

// Seed builds the first PanelLayout for a spec against the current
// container bounds. Explicit sizes win; a docked orientation with no
// explicit size tracks the container extent; otherwise the fallback size
// applies.
func Seed(spec model.InitialPanelSpec, container model.Rect, o Options) *model.PanelLayout {
	o = o.Normalized()

	dock := spec.DockPosition
	if !dock.Valid() {
		dock = model.DockFree
	}

	p := &model.PanelLayout{
		ID:             spec.ID,
		DockPosition:   dock,
		Group:          spec.Group,
		SyncDimensions: spec.SyncDimensions,
		ZIndex:         o.ZFloor + 1,
	}

	switch {
	case spec.Width > 0:
		p.Width = spec.Width
	case dock == model.DockTop || dock == model.DockBottom:
		p.Width = container.Width
		p.FullWidth = true
	default:
		p.Width = o.FallbackSize
	}

	switch {
	case spec.Height > 0:
		p.Height = spec.Height
	case dock == model.DockLeft || dock == model.DockRight:
		p.Height = container.Height
		p.FullHeight = true
	default:
		p.Height = o.FallbackSize
	}

	p.Width, p.Height = o.ClampSize(p.Width, p.Height)

	if dock.Docked() {
		r := Docked(p, container)
		p.Left, p.Top, p.Width, p.Height = r.X, r.Y, r.Width, r.Height
	} else {
		p.Left, p.Top = container.X, container.Y
	}
	return p
}
