package model

import "fmt"

// DockPosition describes which edge of the parent container a panel is
// anchored to. DockFree means the panel is user-positioned.
type DockPosition string

const (
	DockFree         DockPosition = "free"
	DockTop          DockPosition = "top"
	DockBottom       DockPosition = "bottom"
	DockLeft         DockPosition = "left"
	DockRight        DockPosition = "right"
	DockBottomCenter DockPosition = "bottom-center"
)

// Valid reports whether d is one of the known dock positions.
func (d DockPosition) Valid() bool {
	switch d {
	case DockFree, DockTop, DockBottom, DockLeft, DockRight, DockBottomCenter:
		return true
	}
	return false
}

// Docked reports whether the panel is anchored to a container edge.
func (d DockPosition) Docked() bool {
	return d.Valid() && d != DockFree
}

// Rect is an axis-aligned rectangle in layout units, top-left anchored.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Contains reports whether the point (x, y) falls inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// PanelLayout is the live geometry and visibility record for one panel.
// One record exists per panel id; records are created on first reference
// and survive for the whole session.
type PanelLayout struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`

	DockPosition DockPosition `json:"dockPosition"`

	// FullWidth/FullHeight make the corresponding dimension track the
	// parent container instead of a fixed value. They are set when the
	// owner supplied no explicit initial size for that dimension.
	FullWidth  bool `json:"fullWidth"`
	FullHeight bool `json:"fullHeight"`

	ZIndex     int  `json:"zIndex"`
	FullScreen bool `json:"fullScreen"`

	// Pre-fullscreen snapshot, populated only while FullScreen is true.
	PrevWidth  *int `json:"prevWidth,omitempty"`
	PrevHeight *int `json:"prevHeight,omitempty"`
	PrevLeft   *int `json:"prevLeft,omitempty"`
	PrevTop    *int `json:"prevTop,omitempty"`

	Group          string `json:"group,omitempty"`
	SyncDimensions bool   `json:"syncDimensions"`
}

// Bounds returns the panel's current rectangle.
func (p *PanelLayout) Bounds() Rect {
	return Rect{X: p.Left, Y: p.Top, Width: p.Width, Height: p.Height}
}

// Clone returns a deep copy of the record.
func (p *PanelLayout) Clone() *PanelLayout {
	c := *p
	c.PrevWidth = cloneInt(p.PrevWidth)
	c.PrevHeight = cloneInt(p.PrevHeight)
	c.PrevLeft = cloneInt(p.PrevLeft)
	c.PrevTop = cloneInt(p.PrevTop)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// InitialPanelSpec is the immutable configuration a panel owner supplies
// once. It seeds the PanelLayout on first mount and backs reset-to-defaults.
// Width/Height of 0 mean "derive from the container": the panel gets
// FullWidth/FullHeight for that dimension when docked, or a fallback size
// when free.
type InitialPanelSpec struct {
	ID             string       `json:"id" yaml:"id"`
	Title          string       `json:"title,omitempty" yaml:"title,omitempty"`
	Width          int          `json:"width,omitempty" yaml:"width,omitempty"`
	Height         int          `json:"height,omitempty" yaml:"height,omitempty"`
	DockPosition   DockPosition `json:"dockPosition,omitempty" yaml:"dock,omitempty"`
	Group          string       `json:"group,omitempty" yaml:"group,omitempty"`
	SyncDimensions bool         `json:"syncDimensions,omitempty" yaml:"syncDimensions,omitempty"`
}

// Patch is a partial update applied over a PanelLayout. Nil fields are
// left untouched.
type Patch struct {
	Width  *int
	Height *int
	Left   *int
	Top    *int

	DockPosition *DockPosition

	FullWidth  *bool
	FullHeight *bool

	ZIndex     *int
	FullScreen *bool

	PrevWidth  *int
	PrevHeight *int
	PrevLeft   *int
	PrevTop    *int
	ClearPrev  bool

	Group          *string
	SyncDimensions *bool
}

// Apply merges the patch into p.
func (patch Patch) Apply(p *PanelLayout) {
	if patch.Width != nil {
		p.Width = *patch.Width
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Left != nil {
		p.Left = *patch.Left
	}
	if patch.Top != nil {
		p.Top = *patch.Top
	}
	if patch.DockPosition != nil {
		p.DockPosition = *patch.DockPosition
	}
	if patch.FullWidth != nil {
		p.FullWidth = *patch.FullWidth
	}
	if patch.FullHeight != nil {
		p.FullHeight = *patch.FullHeight
	}
	if patch.ZIndex != nil {
		p.ZIndex = *patch.ZIndex
	}
	if patch.FullScreen != nil {
		p.FullScreen = *patch.FullScreen
	}
	if patch.PrevWidth != nil {
		p.PrevWidth = cloneInt(patch.PrevWidth)
	}
	if patch.PrevHeight != nil {
		p.PrevHeight = cloneInt(patch.PrevHeight)
	}
	if patch.PrevLeft != nil {
		p.PrevLeft = cloneInt(patch.PrevLeft)
	}
	if patch.PrevTop != nil {
		p.PrevTop = cloneInt(patch.PrevTop)
	}
	if patch.ClearPrev {
		p.PrevWidth, p.PrevHeight, p.PrevLeft, p.PrevTop = nil, nil, nil, nil
	}
	if patch.Group != nil {
		p.Group = *patch.Group
	}
	if patch.SyncDimensions != nil {
		p.SyncDimensions = *patch.SyncDimensions
	}
}

// Int returns a pointer to v, for building patches.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// Str returns a pointer to v, for building patches.
func Str(v string) *string { return &v }

// Dock returns a pointer to d, for building patches.
func Dock(d DockPosition) *DockPosition { return &d }
