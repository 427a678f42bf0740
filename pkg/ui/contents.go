package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextContent is a scrollable text body for panels whose real content
// (table data, logs, generated code) comes from the backend service.
type TextContent struct {
	vp  viewport.Model
	raw string
}

// NewTextContent creates a body over static text.
func NewTextContent(text string) *TextContent {
	vp := viewport.New(0, 0)
	vp.SetContent(text)
	return &TextContent{vp: vp, raw: text}
}

func (c *TextContent) SetSize(width, height int) {
	c.vp.Width = width
	c.vp.Height = height
}

func (c *TextContent) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.vp, cmd = c.vp.Update(msg)
	return cmd
}

func (c *TextContent) View() string {
	return c.vp.View()
}

// FormContent is a small field editor used by the node settings panel.
type FormContent struct {
	labels []string
	inputs []textinput.Model
	focus  int
	width  int
	height int
}

// NewFormContent creates a form with one text input per field.
func NewFormContent(fields map[string]string, order []string) *FormContent {
	f := &FormContent{}
	for _, label := range order {
		ti := textinput.New()
		ti.SetValue(fields[label])
		ti.Prompt = ""
		ti.CharLimit = 64
		f.labels = append(f.labels, label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *FormContent) SetSize(width, height int) {
	f.width = width
	f.height = height
	for i := range f.inputs {
		f.inputs[i].Width = max(width-18, 8)
	}
}

func (f *FormContent) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			f.inputs[f.focus].Blur()
			if key.String() == "tab" {
				f.focus = (f.focus + 1) % len(f.inputs)
			} else {
				f.focus = (f.focus + len(f.inputs) - 1) % len(f.inputs)
			}
			return f.inputs[f.focus].Focus()
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *FormContent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(14)
	var b strings.Builder
	for i, label := range f.labels {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(f.inputs[i].View())
		if i < len(f.labels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Demo bodies for the product panels. The live versions stream from the
// pipeline backend, which is out of scope for the layout shell.

func tablePreviewText() string {
	return strings.Join([]string{
		" order_id │ region │ amount │ status    ",
		"──────────┼────────┼────────┼───────────",
		"  1001    │ emea   │ 249.90 │ shipped   ",
		"  1002    │ amer   │  89.00 │ pending   ",
		"  1003    │ apac   │ 412.35 │ shipped   ",
		"  1004    │ emea   │  12.50 │ cancelled ",
		"  1005    │ amer   │ 310.00 │ shipped   ",
	}, "\n")
}

func logViewerText() string {
	return strings.Join([]string{
		"12:04:01 INFO  pipeline started (4 nodes)",
		"12:04:01 INFO  orders.csv: 5 rows read",
		"12:04:02 INFO  filter_rows: 4 rows passed",
		"12:04:02 WARN  group_sum: null region in row 7, skipped",
		"12:04:03 INFO  results: 3 rows written",
		"12:04:03 INFO  pipeline finished in 1.8s",
	}, "\n")
}

func codeGenText() string {
	return strings.Join([]string{
		"-- generated by flowdeck",
		"SELECT region,",
		"       SUM(amount) AS total",
		"FROM   orders",
		"WHERE  status <> 'cancelled'",
		"GROUP  BY region",
		"ORDER  BY total DESC;",
	}, "\n")
}

func flowResultsText() string {
	return strings.Join([]string{
		"run #42 · succeeded",
		"",
		"  rows in      5",
		"  rows out     3",
		"  duration     1.8s",
		"  warnings     1",
	}, "\n")
}

func nodeSettingsForm() *FormContent {
	return NewFormContent(map[string]string{
		"node name": "group_sum",
		"group by":  "region",
		"aggregate": "sum(amount)",
		"null mode": "skip",
	}, []string{"node name", "group by", "aggregate", "null mode"})
}
