// Package ui composes the workbench: the pipeline canvas background,
// the floating panels layered by z rank, the layout palette, and the
// status bar.
package ui

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowdeck/flowdeck/pkg/config"
	"github.com/flowdeck/flowdeck/pkg/controls"
	"github.com/flowdeck/flowdeck/pkg/export"
	"github.com/flowdeck/flowdeck/pkg/model"
	"github.com/flowdeck/flowdeck/pkg/panel"
	"github.com/flowdeck/flowdeck/pkg/store"
)

// redockQuiet coalesces terminal-resize bursts before docked panels are
// recomputed against the new canvas.
const redockQuiet = 250 * time.Millisecond

const statusTTL = 4 * time.Second

// LayoutResetMsg wakes the event loop after an out-of-band layout reset
// (palette action or config watcher) so panels can re-apply their dock
// positions.
type LayoutResetMsg struct{}

// ConfigReloadedMsg carries freshly parsed panel defaults after the
// panels.yaml watcher fires.
type ConfigReloadedMsg struct {
	Panels []model.InitialPanelSpec
}

type redockMsg struct{ seq int }

type statusExpireMsg struct{ seq int }

// App is the root bubbletea model.
type App struct {
	store   *store.Store
	dataDir string

	panels []*panel.Panel
	byID   map[string]*panel.Panel
	keys   map[string]*panel.Panel

	palette controls.Model
	help    HelpOverlayModel

	width, height int
	mounted       bool
	resizeSeq     int

	statusMsg string
	statusSeq int
}

// NewApp builds the workbench from the configured panel set.
func NewApp(st *store.Store, cfg *config.Config, dataDir string) *App {
	a := &App{
		store:   st,
		dataDir: dataDir,
		byID:    make(map[string]*panel.Panel),
		keys:    make(map[string]*panel.Panel),
		palette: controls.New(),
		help:    NewHelpOverlayModel(),
	}

	for i, spec := range cfg.Panels {
		p := panel.New(spec, st, a.canvasBounds, contentFor(spec.ID))
		a.panels = append(a.panels, p)
		a.byID[spec.ID] = p
		a.keys[fmt.Sprintf("%d", i+1)] = p
	}
	return a
}

func contentFor(id string) panel.Content {
	switch id {
	case "nodeSettings":
		return nodeSettingsForm()
	case "tablePreview":
		return NewTextContent(tablePreviewText())
	case "logViewer":
		return NewTextContent(logViewerText())
	case "codeGen":
		return NewTextContent(codeGenText())
	case "flowResults":
		return NewTextContent(flowResultsText())
	default:
		return NewTextContent("")
	}
}

// canvasBounds is the parent container every panel docks against: the
// whole screen minus the status bar.
func (a *App) canvasBounds() model.Rect {
	h := a.height - 1
	if h < 0 {
		h = 0
	}
	return model.Rect{X: 0, Y: 0, Width: a.width, Height: h}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.SetSize(msg.Width, msg.Height)
		if !a.mounted {
			a.mountPanels()
			return a, nil
		}
		a.resizeSeq++
		seq := a.resizeSeq
		return a, tea.Tick(redockQuiet, func(time.Time) tea.Msg {
			return redockMsg{seq: seq}
		})

	case redockMsg:
		if msg.seq == a.resizeSeq {
			a.redockAll()
		}
		return a, nil

	case LayoutResetMsg:
		// Panels carry their own pending-reset flags; pushing any message
		// through them applies the re-dock.
		for _, p := range a.panels {
			p.Update(msg)
		}
		return a, nil

	case ConfigReloadedMsg:
		for _, spec := range msg.Panels {
			a.store.RegisterSpec(spec)
		}
		return a, a.setStatus("panel defaults reloaded; run \"reset layout\" to apply")

	case statusExpireMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
		}
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) mountPanels() {
	a.mounted = true
	a.store.LoadAll()
	for _, p := range a.panels {
		p.Mount()
		p.Show()
	}
}

func (a *App) redockAll() {
	for _, p := range a.panels {
		p.ReapplyDock()
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.help.IsVisible() {
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	if a.palette.Visible() {
		var action controls.Action
		var cmd tea.Cmd
		a.palette, action, cmd = a.palette.Update(msg)
		if action != controls.ActionNone {
			return a, tea.Batch(cmd, a.dispatch(action))
		}
		return a, cmd
	}

	switch msg.String() {
	// Plain letters stay available to panel bodies (the settings form
	// needs to type "q"), so quit is chorded.
	case "ctrl+c", "ctrl+q":
		a.unmountPanels()
		return a, tea.Quit
	case "?":
		a.help.Toggle()
		return a, nil
	case "ctrl+p":
		return a, a.palette.Open()
	}

	if p, ok := a.keys[msg.String()]; ok {
		p.Toggle()
		return a, nil
	}

	// Remaining keys go to the focused panel's body (scrolling, form
	// editing).
	if p, ok := a.byID[a.store.LastClickedID()]; ok && p.Visible() {
		return a, p.Update(msg)
	}
	return a, nil
}

func (a *App) unmountPanels() {
	for _, p := range a.panels {
		p.Unmount()
	}
}

// handleMouse routes pointer events. Presses go to the topmost panel
// under the pointer; motion and release are broadcast to every panel,
// the moral equivalent of document-level listeners, so a gesture ends
// cleanly even when the pointer leaves the panel that started it.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.palette.Visible() || a.help.IsVisible() {
		return nil
	}

	if msg.Action == tea.MouseActionPress {
		if p := a.panelAt(msg.X, msg.Y); p != nil {
			return p.Update(msg)
		}
		return nil
	}

	var cmds []tea.Cmd
	for _, p := range a.panels {
		if p.Visible() {
			cmds = append(cmds, p.Update(msg))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) panelAt(x, y int) *panel.Panel {
	recs := a.store.Snapshot()
	for i := len(recs) - 1; i >= 0; i-- {
		p, ok := a.byID[recs[i].ID]
		if !ok || !p.Visible() {
			continue
		}
		if r, ok := p.RenderBounds(); ok && r.Contains(x, y) {
			return p
		}
	}
	return nil
}

func (a *App) dispatch(action controls.Action) tea.Cmd {
	switch action {
	case controls.ActionTile:
		a.store.ArrangeAll(store.ArrangeTile, a.canvasBounds())
		return a.setStatus("tiled open panels")
	case controls.ActionCascade:
		a.store.ArrangeAll(store.ArrangeCascade, a.canvasBounds())
		return a.setStatus("cascaded open panels")
	case controls.ActionStack:
		a.store.ArrangeAll(store.ArrangeStack, a.canvasBounds())
		return a.setStatus("stacked open panels")
	case controls.ActionSyncGroups:
		for name := range a.store.Groups() {
			a.store.SyncGroupDimensions(name, "")
		}
		return a.setStatus("synchronized panel groups")
	case controls.ActionResetLayout:
		a.store.ResetAll()
		a.redockAll()
		return a.setStatus("layout reset to defaults")
	case controls.ActionCopyLayout:
		raw, err := json.MarshalIndent(a.store.Snapshot(), "", "  ")
		if err == nil {
			err = clipboard.WriteAll(string(raw))
		}
		if err != nil {
			return a.setStatus("copy failed: " + err.Error())
		}
		return a.setStatus("layout copied to clipboard")
	case controls.ActionExportSnapshot:
		path, err := export.SaveSnapshot(
			filepath.Join(a.dataDir, config.DataDir, "snapshots"),
			a.visibleRecords(), a.canvasBounds())
		if err != nil {
			return a.setStatus("snapshot failed: " + err.Error())
		}
		return a.setStatus("snapshot saved: " + path)
	}
	return nil
}

func (a *App) visibleRecords() []*model.PanelLayout {
	var out []*model.PanelLayout
	for _, rec := range a.store.Snapshot() {
		if p, ok := a.byID[rec.ID]; ok && p.Visible() {
			out = append(out, rec)
		}
	}
	return out
}

func (a *App) setStatus(msg string) tea.Cmd {
	a.statusMsg = msg
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading…"
	}

	canvasH := a.height - 1
	background := canvasView(a.width, canvasH)

	var layers []Layer
	for _, rec := range a.store.Snapshot() {
		p, ok := a.byID[rec.ID]
		if !ok || !p.Visible() {
			continue
		}
		r, ok := p.RenderBounds()
		if !ok {
			continue
		}
		layers = append(layers, Layer{X: r.X, Y: r.Y, Content: p.View()})
	}

	if a.palette.Visible() {
		pv := a.palette.View()
		layers = append(layers, Layer{
			X:       (a.width - lipgloss.Width(pv)) / 2,
			Y:       2,
			Content: pv,
		})
	}
	if a.help.IsVisible() {
		hv := a.help.View()
		layers = append(layers, Layer{
			X:       (a.width - lipgloss.Width(hv)) / 2,
			Y:       max((canvasH-lipgloss.Height(hv))/2, 0),
			Content: hv,
		})
	}

	body := Compose(background, a.width, canvasH, layers)
	return body + "\n" + a.statusBar()
}

func (a *App) statusBar() string {
	left := StatusAccentStyle.Render(" FLOWDECK ")
	hints := " ctrl+p palette · 1-5 panels · ? help · q quit "
	if a.store.IsResizing() {
		hints = " resizing… "
	}

	right := ""
	if a.statusMsg != "" {
		right = " " + a.statusMsg + " "
	}

	mid := a.width - lipgloss.Width(left) - lipgloss.Width(hints) - lipgloss.Width(right)
	if mid < 0 {
		mid = 0
	}
	return left + StatusBarStyle.Render(hints+strings.Repeat(" ", mid)+right)
}
