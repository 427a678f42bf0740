package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/flowdeck/flowdeck/pkg/model"
)

// Chrome styles. The focused panel (most recently raised) gets the
// accent border.
var (
	borderStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#44475A"))
	focusedBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))
	titleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")).Bold(true)
	buttonStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF"))
)

type button int

const (
	buttonNone button = iota
	buttonDockLeft
	buttonDockTop
	buttonDockBottom
	buttonDockRight
	buttonMinimize
	buttonFullScreen
	buttonClose
)

// fullButtons is the header button strip, one cell per button. The dock
// buttons are dropped on narrow panels.
var (
	fullButtons    = []button{buttonDockLeft, buttonDockTop, buttonDockBottom, buttonDockRight, buttonMinimize, buttonFullScreen, buttonClose}
	compactButtons = []button{buttonMinimize, buttonFullScreen, buttonClose}
)

const compactWidth = 26

func buttonRune(b button) rune {
	switch b {
	case buttonDockLeft:
		return '<'
	case buttonDockTop:
		return '^'
	case buttonDockBottom:
		return 'v'
	case buttonDockRight:
		return '>'
	case buttonMinimize:
		return '_'
	case buttonFullScreen:
		return 'o'
	case buttonClose:
		return 'x'
	}
	return ' '
}

func (p *Panel) buttons(rec *model.PanelLayout) []button {
	if rec.Width < compactWidth {
		return compactButtons
	}
	return fullButtons
}

// renderBounds is the rectangle the panel actually occupies on screen: a
// minimized panel collapses to its header row.
func (p *Panel) renderBounds(rec *model.PanelLayout) model.Rect {
	r := rec.Bounds()
	if p.minimized {
		r.Height = 1
	}
	return r
}

// RenderBounds exposes the on-screen rectangle for the compositor.
func (p *Panel) RenderBounds() (model.Rect, bool) {
	rec, ok := p.store.Get(p.id)
	if !ok || !p.visible {
		return model.Rect{}, false
	}
	return p.renderBounds(rec), true
}

// buttonAt maps a click on the header row to a button.
func (p *Panel) buttonAt(rec *model.PanelLayout, x, y int) button {
	r := p.renderBounds(rec)
	if y != r.Y {
		return buttonNone
	}
	btns := p.buttons(rec)
	start := r.Right() - 1 - len(btns)
	if x < start || x >= r.Right()-1 {
		return buttonNone
	}
	return btns[x-start]
}

func (p *Panel) pressButton(b button) {
	switch b {
	case buttonDockLeft:
		p.MoveToLeft()
	case buttonDockTop:
		p.MoveToTop()
	case buttonDockBottom:
		p.MoveToBottom()
	case buttonDockRight:
		p.MoveToRight()
	case buttonMinimize:
		p.ToggleMinimize()
	case buttonFullScreen:
		p.ToggleFullScreen()
	case buttonClose:
		p.Hide()
	}
}

// edgeAt maps a pointer position to a resize handle. The top border's
// corner cells resize the top edge; the middle of it is the drag bar.
func (p *Panel) edgeAt(rec *model.PanelLayout, x, y int) resizeEdge {
	if p.minimized || rec.FullScreen {
		return edgeNone
	}
	r := rec.Bounds()
	switch {
	case y == r.Y && (x == r.X || x == r.Right()-1):
		return edgeTop
	case y == r.Bottom()-1 && x >= r.X && x < r.Right():
		return edgeBottom
	case x == r.X && y > r.Y && y < r.Bottom()-1:
		return edgeLeft
	case x == r.Right()-1 && y > r.Y && y < r.Bottom()-1:
		return edgeRight
	}
	return edgeNone
}

// View renders the panel chrome and body as a Width x Height block.
func (p *Panel) View() string {
	rec, ok := p.store.Get(p.id)
	if !ok || !p.visible {
		return ""
	}

	border := borderStyle
	if p.store.LastClickedID() == p.id {
		border = focusedBorderStyle
	}

	header := p.renderHeader(rec, border)
	if p.minimized {
		return header
	}

	width, height := rec.Width, rec.Height
	innerW, innerH := width-2, height-2
	if innerW < 1 || innerH < 0 {
		return header
	}

	if p.content != nil {
		p.content.SetSize(innerW, innerH)
	}
	body := ""
	if p.content != nil {
		body = p.content.View()
	}
	lines := strings.Split(body, "\n")

	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < innerH; i++ {
		b.WriteByte('\n')
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		line = truncate.String(line, uint(innerW))
		if pad := innerW - ansi.PrintableRuneWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(border.Render("│"))
		b.WriteString(line)
		b.WriteString(border.Render("│"))
	}
	b.WriteByte('\n')
	b.WriteString(border.Render("╰" + strings.Repeat("─", innerW) + "╯"))
	return b.String()
}

// renderHeader builds the top border row: corner, title, fill, button
// strip, corner.
func (p *Panel) renderHeader(rec *model.PanelLayout, border lipgloss.Style) string {
	btns := p.buttons(rec)
	width := rec.Width

	// Inner space between the two corner cells.
	inner := width - 2
	strip := make([]rune, 0, len(btns))
	for _, b := range btns {
		strip = append(strip, buttonRune(b))
	}

	title := " " + p.Title() + " "
	maxTitle := inner - len(btns) - 2
	if maxTitle < 0 {
		maxTitle = 0
	}
	if runewidth.StringWidth(title) > maxTitle {
		title = truncate.String(title, uint(maxTitle))
	}

	fill := inner - runewidth.StringWidth(title) - len(btns)
	if fill < 0 {
		fill = 0
	}

	var b strings.Builder
	b.WriteString(border.Render("╭"))
	b.WriteString(border.Render("─"))
	b.WriteString(titleStyle.Render(title))
	if fill > 1 {
		b.WriteString(border.Render(strings.Repeat("─", fill-1)))
	}
	b.WriteString(buttonStyle.Render(string(strip)))
	b.WriteString(border.Render("╮"))
	return b.String()
}
