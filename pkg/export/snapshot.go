// Package export renders layout snapshots: an SVG diagram of every open
// panel, plus a small local preview server for browsing saved snapshots.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/flowdeck/flowdeck/pkg/model"
)

// svgScale stretches layout units so terminal-scale layouts stay legible
// in a browser.
const (
	svgScaleX = 9
	svgScaleY = 18
)

// WriteSnapshot renders the panels as an SVG diagram of the viewport.
// Panels are drawn back to front, so the frontmost panel ends up on top,
// same as on screen.
func WriteSnapshot(w io.Writer, panels []*model.PanelLayout, viewport model.Rect) {
	canvas := svg.New(w)
	canvas.Start(viewport.Width*svgScaleX, viewport.Height*svgScaleY)
	canvas.Rect(0, 0, viewport.Width*svgScaleX, viewport.Height*svgScaleY,
		"fill:#282a36")

	for _, p := range panels {
		x := (p.Left - viewport.X) * svgScaleX
		y := (p.Top - viewport.Y) * svgScaleY
		w := p.Width * svgScaleX
		h := p.Height * svgScaleY

		fill := "#363949"
		if p.FullScreen {
			fill = "#44475a"
		}
		canvas.Rect(x, y, w, h,
			fmt.Sprintf("fill:%s;stroke:#bd93f9;stroke-width:2", fill))
		canvas.Text(x+8, y+22, p.ID, "fill:#f8f8f2;font-family:monospace;font-size:16px")
		canvas.Text(x+8, y+42,
			fmt.Sprintf("%dx%d @ (%d,%d) %s z=%d", p.Width, p.Height, p.Left, p.Top, p.DockPosition, p.ZIndex),
			"fill:#bfbfbf;font-family:monospace;font-size:12px")
	}

	canvas.End()
}

// SaveSnapshot writes a timestamped SVG under dir and returns the path.
func SaveSnapshot(dir string, panels []*model.PanelLayout, viewport model.Rect) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("layout_%s.svg", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	WriteSnapshot(f, panels, viewport)
	return path, nil
}
