package ui

import (
	"strings"
)

// canvasNode is one decorative node on the pipeline canvas. The real
// node graph (drag/drop, edge validation) lives outside this repo; the
// layout engine only needs something to float panels over.
type canvasNode struct {
	name string
	kind string
}

var demoFlow = []canvasNode{
	{"orders.csv", "input"},
	{"filter_rows", "transform"},
	{"group_sum", "aggregate"},
	{"results", "output"},
}

// canvasView renders the background: a dotted grid with the demo
// pipeline drawn across the vertical middle.
func canvasView(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	bg := dotGrid(width, height)

	var layers []Layer
	n := len(demoFlow)
	midY := height/2 - 2
	if midY < 0 {
		midY = 0
	}

	step := width / (n + 1)
	prevRight := -1
	for i, node := range demoFlow {
		box := NodeStyle(node.kind).Render(node.name)
		boxW := len(node.name) + 4
		x := step*(i+1) - boxW/2
		layers = append(layers, Layer{X: x, Y: midY, Content: box})

		if prevRight >= 0 && x-prevRight > 1 {
			wire := strings.Repeat("─", x-prevRight-1) + "▶"
			layers = append(layers, Layer{
				X: prevRight, Y: midY + 1,
				Content: CanvasEdgeStyle.Render(wire),
			})
		}
		prevRight = x + boxW
	}

	return Compose(bg, width, height, layers)
}

func dotGrid(width, height int) string {
	dot := CanvasDotStyle.Render("·")
	var rows []string
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			if y%2 == 1 && x%4 == 2 {
				b.WriteString(dot)
			} else {
				b.WriteByte(' ')
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
