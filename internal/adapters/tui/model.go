// Package tui implements the interactive explorer opened by `-i`: a
// camera-driven ascii viewport over a SubGraph's layout, with spatial
// node selection, incremental search, path highlighting, and a run menu
// that drives C12 and tails its output.
//
// Grounded on theRebelliousNerd-codenerd's cmd/nerd/ui page idiom
// (bubbletea Model/Update/View, a splitpane-style layout, a debounced
// search box) and bridged to fsnotify/dbtrun the way its chat.go bridges
// external goroutines into tea.Msg values.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Model is the bubbletea model backing the interactive explorer.
type Model struct {
	sg         *entities.SubGraph
	layout     *entities.Layout
	renderer   usecases.Renderer
	layoutOpts entities.LayoutOptions
	engine     usecases.LayoutEngine

	orchestrator usecases.RunOrchestrator
	watcher      usecases.FileWatcher
	watchEvents  <-chan usecases.FileChangeEvent
	projectRoot  string

	viewport viewport.Model
	modes    modeStack
	rendered string // last plain-text render, pre-crop, pre-highlight

	selected          string
	highlightPaths    bool
	search            string
	preSearchSelected string
	matches           []string
	matchIdx          int

	camera camera

	dragging             bool
	dragLastX, dragLastY int

	runMenuIdx    int
	contextTarget string
	contextIdx    int
	runLines      []string
	runCancel     context.CancelFunc
	runLinesCh    <-chan string
	runErrsCh     <-chan error

	width, height int
	ready         bool
}

// New builds a Model focused on sg, rendering through renderer (typically
// the ascii renderer) over layout computed by engine. orchestrator and
// watcher may be nil, in which case the run menu reports the runner as
// unavailable and no live file-change reload happens.
func New(sg *entities.SubGraph, engine usecases.LayoutEngine, renderer usecases.Renderer, opts entities.LayoutOptions, orchestrator usecases.RunOrchestrator, watcher usecases.FileWatcher, projectRoot string) *Model {
	return &Model{
		sg:           sg,
		engine:       engine,
		renderer:     renderer,
		layoutOpts:   opts,
		orchestrator: orchestrator,
		watcher:      watcher,
		projectRoot:  projectRoot,
		camera:       newCamera(),
	}
}

// Init implements tea.Model: starts the file watcher bridge, if any.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.startWatch()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.ready = true
			m.selectFocusOrFirst()
			m.refresh()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
			m.refresh()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case watchStartedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.watchEvents = msg.events
		return m, waitForWatchEvent(msg.events)

	case fileChangedMsg:
		if m.orchestrator != nil {
			_ = m.orchestrator.RefreshRunStatus(context.Background(), m.sg.Graph, m.projectRoot)
			m.recrop()
		}
		return m, waitForWatchEvent(m.watchEvents)

	case runLineMsg:
		if msg != "" {
			m.runLines = append(m.runLines, string(msg))
		}
		return m, waitForRunEvent(m.runLinesCh, m.runErrsCh)

	case runExitMsg:
		m.runCancel = nil
		if msg.err != nil {
			m.runLines = append(m.runLines, fmt.Sprintf("exited: %v", msg.err))
		} else {
			m.runLines = append(m.runLines, "done.")
			if m.orchestrator != nil {
				_ = m.orchestrator.RefreshRunStatus(context.Background(), m.sg.Graph, m.projectRoot)
				m.recrop()
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modes.top() {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeRunMenu:
		return m.handleRunMenuKey(msg)
	case modeContextMenu:
		return m.handleContextMenuKey(msg)
	case modeRunOutput:
		return m.handleRunOutputKey(msg)
	case modeHelp:
		return m.handleHelpKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.preSearchSelected = m.selected
		m.search = ""
		m.matches = nil
		m.modes.push(modeSearch)
	case "?":
		m.modes.push(modeHelp)
	case "x":
		m.contextTarget = ""
		m.runMenuIdx = 0
		m.modes.push(modeRunMenu)
	case "p":
		m.highlightPaths = !m.highlightPaths
		m.recrop()
	case "+", "=":
		m.camera.zoomIn()
		m.refresh()
	case "-", "_":
		m.camera.zoomOut()
		m.refresh()
	case "r":
		m.resetView()
	case "H":
		m.camera.panLeft()
		m.camera.clampNonNegative()
		m.recrop()
	case "L":
		m.camera.panRight()
		m.recrop()
	case "J":
		m.camera.panDown()
		m.recrop()
	case "K":
		m.camera.panUp()
		m.camera.clampNonNegative()
		m.recrop()
	case "h", "left":
		m.moveSelection(dirLeft)
	case "l", "right":
		m.moveSelection(dirRight)
	case "j", "down":
		m.moveSelection(dirDown)
	case "k", "up":
		m.moveSelection(dirUp)
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "n":
		m.cycleMatch(1)
		m.recrop()
	case "N":
		m.cycleMatch(-1)
		m.recrop()
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modes.pop()
		m.selected = m.preSearchSelected
		m.search = ""
		m.matches = nil
		m.recrop()
		return m, nil
	case "enter":
		m.modes.pop()
		if len(m.matches) > 0 {
			m.selected = m.matches[m.matchIdx]
			m.centerOn(m.selected)
		}
		m.recrop()
		return m, nil
	case "tab":
		m.cycleMatch(1)
		if len(m.matches) > 0 {
			m.centerOn(m.matches[m.matchIdx])
		}
		m.recrop()
		return m, nil
	case "shift+tab":
		m.cycleMatch(-1)
		if len(m.matches) > 0 {
			m.centerOn(m.matches[m.matchIdx])
		}
		m.recrop()
		return m, nil
	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	default:
		if len(msg.Runes) > 0 {
			m.search += string(msg.Runes)
		}
	}
	m.findMatches()
	return m, nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.modes.pop()
	}
	return m, nil
}

// handleMouse implements the viewport's mouse contract: wheel zooms,
// left-click on a node selects it, left-drag on empty canvas pans,
// right-click opens the context menu. Only active in Normal mode; modal
// modes ignore mouse input.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modes.top() != modeNormal {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.camera.zoomIn()
			m.refresh()
		case tea.MouseButtonWheelDown:
			m.camera.zoomOut()
			m.refresh()
		case tea.MouseButtonLeft:
			col, row := m.cellToLayout(msg.X, msg.Y)
			if id, ok := m.nodeAt(col, row); ok {
				m.selected = id
				m.recrop()
			} else {
				m.dragging = true
				m.dragLastX, m.dragLastY = msg.X, msg.Y
			}
		case tea.MouseButtonRight:
			col, row := m.cellToLayout(msg.X, msg.Y)
			if id, ok := m.nodeAt(col, row); ok {
				m.contextTarget = id
			} else {
				m.contextTarget = m.selected
			}
			m.contextIdx = 0
			m.modes.push(modeContextMenu)
		}
	case tea.MouseActionRelease:
		m.dragging = false
	case tea.MouseActionMotion:
		if m.dragging {
			dx := msg.X - m.dragLastX
			dy := msg.Y - m.dragLastY
			m.camera.cx -= float64(dx)
			m.camera.cy -= float64(dy)
			m.camera.clampNonNegative()
			m.dragLastX, m.dragLastY = msg.X, msg.Y
			m.recrop()
		}
	}
	return m, nil
}

// cellToLayout converts a terminal cell under the header line into the
// corresponding column/row in the cropped content window.
func (m *Model) cellToLayout(x, y int) (col, row int) {
	const headerLines = 1
	return int(m.camera.cx) + x, int(m.camera.cy) + y - headerLines
}

func (m *Model) nodeAt(col, row int) (string, bool) {
	if m.layout == nil {
		return "", false
	}
	x := float64(col) + m.layout.BoundingBox.MinX
	y := float64(row) + m.layout.BoundingBox.MinY
	for id, n := range m.layout.Nodes {
		left := n.Pos.X - n.Width/2
		top := n.Pos.Y - n.Height/2
		if x >= left && x < left+n.Width && y >= top && y < top+n.Height {
			return id, true
		}
	}
	return "", false
}

// zoomedLayoutOptions scales node/edge spacing by the camera's zoom
// factor, per the layout engine's "zoom adjusts x_spacing/y_spacing"
// contract.
func (m *Model) zoomedLayoutOptions() entities.LayoutOptions {
	opts := m.layoutOpts
	opts.XSpacing *= m.camera.zoom
	opts.YSpacing *= m.camera.zoom
	return opts
}

// refresh recomputes the layout (e.g. after a zoom change) and re-renders
// the content before cropping it to the camera's visible window.
func (m *Model) refresh() {
	layout, err := m.engine.Layout(m.sg, m.zoomedLayoutOptions())
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("layout error: %v", err))
		return
	}
	m.layout = layout

	out, err := m.renderer.Render(m.sg, m.layout)
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("render error: %v", err))
		return
	}
	m.rendered = string(out)
	m.recrop()
}

// recrop re-derives the viewport's visible content from the last render
// without a relayout: used by pan, selection, and path-highlight toggles.
func (m *Model) recrop() {
	cropped := m.cropToCamera(m.rendered)
	if m.highlightPaths && m.selected != "" {
		cropped = m.colorizePaths(cropped)
	}
	m.viewport.SetContent(cropped)
}

// cropToCamera slices content (one plain-text render, no ANSI codes yet)
// down to the camera's {cx, cy}-anchored window sized to the viewport.
func (m *Model) cropToCamera(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return content
	}

	top := clampInt(int(m.camera.cy), 0, maxInt(0, len(lines)-1))
	h := m.viewport.Height
	if h <= 0 {
		h = len(lines)
	}
	bottom := minInt(top+h, len(lines))
	window := lines[top:bottom]

	left := maxInt(int(m.camera.cx), 0)
	w := m.viewport.Width

	cropped := make([]string, len(window))
	for i, line := range window {
		runes := []rune(line)
		l := minInt(left, len(runes))
		r := len(runes)
		if w > 0 {
			r = minInt(l+w, len(runes))
		}
		cropped[i] = string(runes[l:r])
	}
	return strings.Join(cropped, "\n")
}

// colorizePaths recolors the selected node's ancestors/descendants (and
// the selection itself) within an already-cropped window, by replacing
// each node's label text on the row its layout position maps to, offset
// by the camera's current pan. Operating on the cropped window, rather
// than the raw render, keeps every inserted ANSI escape out of
// cropToCamera's rune-slicing.
func (m *Model) colorizePaths(cropped string) string {
	lines := strings.Split(cropped, "\n")
	top := int(m.camera.cy)

	ancestors := m.walk(m.selected, m.sg.Upstream)
	descendants := m.walk(m.selected, m.sg.Downstream)

	recolor := func(id string, color func(string) string) {
		n, ok := m.layout.Nodes[id]
		if !ok {
			return
		}
		row := int(n.Pos.Y-m.layout.BoundingBox.MinY) - top
		if row < 0 || row >= len(lines) {
			return
		}
		node, ok := m.sg.GetNode(id)
		if !ok || node.Name == "" {
			return
		}
		lines[row] = strings.Replace(lines[row], node.Name, color(node.Name), 1)
	}

	for id := range ancestors {
		recolor(id, ancestorStyle.Render)
	}
	for id := range descendants {
		recolor(id, descendStyle.Render)
	}
	recolor(m.selected, selectedStyle.Render)

	return strings.Join(lines, "\n") + "\n\n" + m.impactPanel()
}

func (m *Model) walk(start string, neighbors func(string) []string) map[string]bool {
	visited := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range neighbors(id) {
			if visited[next] || next == start {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return visited
}

func (m *Model) impactPanel() string {
	result, err := usecases.NewAnalyzeImpact().Analyze(m.sg.Graph, m.selected)
	if err != nil {
		return helpStyle.Render(fmt.Sprintf("impact: %v", err))
	}
	return impactPanelStyle.Render(fmt.Sprintf(
		"impact of %s — %d reached (crit %d / high %d / med %d / low %d)",
		m.selected, len(result.Reached),
		result.CountsBySeverity[entities.SeverityCritical],
		result.CountsBySeverity[entities.SeverityHigh],
		result.CountsBySeverity[entities.SeverityMedium],
		result.CountsBySeverity[entities.SeverityLow],
	))
}

// centerOn points the camera at id so it falls roughly in the middle of
// the viewport, then recomputes the cropped content.
func (m *Model) centerOn(id string) {
	if m.layout == nil {
		return
	}
	n, ok := m.layout.Nodes[id]
	if !ok {
		return
	}
	m.camera.cx = n.Pos.X - float64(m.viewport.Width)/2
	m.camera.cy = n.Pos.Y - float64(m.viewport.Height)/2
	m.camera.clampNonNegative()
}

// resetView implements `r`: zoom back to 1.0 and center on the current
// selection (or the subgraph's focus node if nothing is selected yet).
func (m *Model) resetView() {
	m.camera.reset()
	m.refresh()

	focus := m.selected
	if focus == "" {
		focus = m.sg.FocusID
	}
	if focus != "" {
		m.centerOn(focus)
		m.recrop()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	header := titleStyle.Render(fmt.Sprintf("dbt lineage — %s  [zoom %.2fx]", focusLabel(m.sg), m.camera.zoom))

	body := m.viewport.View()
	switch m.modes.top() {
	case modeRunMenu:
		body = m.renderRunMenu()
	case modeContextMenu:
		body = m.renderContextMenu()
	case modeRunOutput:
		body = m.renderRunOutput()
	}

	return header + "\n" + body + "\n" + m.footerLine()
}

func focusLabel(sg *entities.SubGraph) string {
	if sg.FocusID == "" {
		return "(whole graph)"
	}
	return sg.FocusID
}

func (m *Model) footerLine() string {
	switch m.modes.top() {
	case modeSearch:
		return helpStyle.Render("/" + m.search + "  (tab: cycle, enter: accept, esc: cancel)")
	case modeHelp:
		return helpStyle.Render(helpText)
	case modeRunMenu:
		return helpStyle.Render("up/down: choose  enter: run  esc: cancel")
	case modeContextMenu:
		return helpStyle.Render("up/down: choose  enter: select  esc: cancel")
	case modeRunOutput:
		if m.runCancel != nil {
			return helpStyle.Render("running... esc: cancel")
		}
		return helpStyle.Render("finished — q: close")
	default:
		if len(m.matches) > 0 {
			return matchStyle.Render(fmt.Sprintf("%d matches for %q (n/N to cycle)", len(m.matches), m.search))
		}
		return helpStyle.Render("q: quit  /: search  x: run menu  p: path highlight  ?: help")
	}
}

const helpText = `q: quit  /: search  ?: close help
H/J/K/L: pan  +/-: zoom  r: reset zoom to 1x and re-center
h/j/k/l or arrows: move selection  tab/shift+tab: cycle nodes
p: toggle path highlight + impact panel
x: run menu (run / run+upstream / downstream+ / +all+ / test)
mouse: wheel zooms, left-click selects, left-drag pans, right-click opens context menu`

// Run starts the bubbletea program in the full-screen alt buffer with
// mouse reporting enabled (wheel, click, and drag-motion events).
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
