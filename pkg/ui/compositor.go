package ui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Layer is one rendered block positioned on the screen. Layers are
// composited in slice order, so later layers paint over earlier ones.
type Layer struct {
	X, Y    int
	Content string
}

// Compose splices styled layers over a styled background, clipping to
// the given screen size. All width arithmetic is ANSI-aware so colored
// panels can be cut mid-line without corrupting escape sequences.
func Compose(background string, width, height int, layers []Layer) string {
	rows := make([]string, height)
	bgLines := strings.Split(background, "\n")
	for i := 0; i < height; i++ {
		if i < len(bgLines) {
			rows[i] = padRow(bgLines[i], width)
		} else {
			rows[i] = strings.Repeat(" ", width)
		}
	}

	for _, layer := range layers {
		for j, line := range strings.Split(layer.Content, "\n") {
			y := layer.Y + j
			if y < 0 || y >= height {
				continue
			}
			rows[y] = splice(rows[y], width, layer.X, line)
		}
	}

	return strings.Join(rows, "\n")
}

// splice overlays line onto row starting at column x.
func splice(row string, width, x int, line string) string {
	lineW := xansi.StringWidth(line)
	if lineW == 0 || x >= width || x+lineW <= 0 {
		return row
	}

	// Clip the overlay to the screen.
	if x < 0 {
		line = xansi.Cut(line, -x, lineW)
		lineW += x
		x = 0
	}
	if x+lineW > width {
		line = xansi.Cut(line, 0, width-x)
		lineW = width - x
	}

	left := xansi.Cut(row, 0, x)
	right := xansi.Cut(row, x+lineW, width)
	return left + line + right
}

func padRow(line string, width int) string {
	w := xansi.StringWidth(line)
	if w > width {
		return xansi.Cut(line, 0, width)
	}
	if w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}
