package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, shared by the canvas and overlays
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgDark      = lipgloss.Color("#1E1F29")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")

	// Node kind colors on the pipeline canvas
	ColorNodeInput     = lipgloss.Color("#50FA7B")
	ColorNodeTransform = lipgloss.Color("#8BE9FD")
	ColorNodeAggregate = lipgloss.Color("#FFB86C")
	ColorNodeOutput    = lipgloss.Color("#BD93F9")
)

var (
	// StatusBarStyle is the bottom hint bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Background(ColorBgHighlight)

	// StatusAccentStyle highlights the active segment of the status bar.
	StatusAccentStyle = lipgloss.NewStyle().
				Foreground(ColorBg).
				Background(ColorPrimary).
				Bold(true)

	// CanvasEdgeStyle draws the wires between pipeline nodes.
	CanvasEdgeStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// CanvasDotStyle draws the background grid dots.
	CanvasDotStyle = lipgloss.NewStyle().Foreground(ColorBgHighlight)
)

// NodeStyle returns the box style for a canvas node kind.
func NodeStyle(kind string) lipgloss.Style {
	var c lipgloss.Color
	switch kind {
	case "input":
		c = ColorNodeInput
	case "transform":
		c = ColorNodeTransform
	case "aggregate":
		c = ColorNodeAggregate
	case "output":
		c = ColorNodeOutput
	default:
		c = ColorMuted
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(ColorText).
		Padding(0, 1)
}
