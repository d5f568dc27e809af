package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// runMenuAction is one entry of the `x` run menu: a dbt action plus the
// scope-string builder for the selector syntax {model, +model, model+,
// +model+}.
type runMenuAction struct {
	label  string
	action usecases.RunAction
	scope  func(name string) string
}

var runMenuActions = []runMenuAction{
	{label: "run", action: usecases.RunActionRun, scope: func(name string) string { return name }},
	{label: "run+upstream", action: usecases.RunActionRun, scope: func(name string) string { return "+" + name }},
	{label: "run downstream+", action: usecases.RunActionRun, scope: func(name string) string { return name + "+" }},
	{label: "run +all+", action: usecases.RunActionRun, scope: func(name string) string { return "+" + name + "+" }},
	{label: "test", action: usecases.RunActionTest, scope: func(name string) string { return name }},
}

var contextMenuActions = []string{"focus here", "show impact", "run", "test", "cancel"}

func (m *Model) handleRunMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.modes.pop()
		return m, nil
	case "up", "k":
		m.runMenuIdx = (m.runMenuIdx - 1 + len(runMenuActions)) % len(runMenuActions)
		return m, nil
	case "down", "j":
		m.runMenuIdx = (m.runMenuIdx + 1) % len(runMenuActions)
		return m, nil
	case "enter":
		return m.dispatchRun(runMenuActions[m.runMenuIdx])
	}
	return m, nil
}

func (m *Model) handleContextMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.modes.pop()
		return m, nil
	case "up", "k":
		m.contextIdx = (m.contextIdx - 1 + len(contextMenuActions)) % len(contextMenuActions)
		return m, nil
	case "down", "j":
		m.contextIdx = (m.contextIdx + 1) % len(contextMenuActions)
		return m, nil
	case "enter":
		return m.applyContextAction(contextMenuActions[m.contextIdx])
	}
	return m, nil
}

func (m *Model) applyContextAction(action string) (tea.Model, tea.Cmd) {
	m.modes.pop()
	switch action {
	case "focus here":
		if m.contextTarget != "" {
			m.selected = m.contextTarget
			m.centerOn(m.selected)
			m.recrop()
		}
	case "show impact":
		if m.contextTarget != "" {
			m.selected = m.contextTarget
		}
		m.highlightPaths = true
		m.recrop()
	case "run":
		m.runMenuIdx = 0
		m.modes.push(modeRunMenu)
	case "test":
		return m.dispatchRun(runMenuActions[len(runMenuActions)-1])
	}
	return m, nil
}

// dispatchRun resolves the run target (the right-clicked node if a
// context menu opened the run menu, otherwise the current selection),
// detects a runner, and starts streaming its output in RunOutput mode.
func (m *Model) dispatchRun(action runMenuAction) (tea.Model, tea.Cmd) {
	m.modes.pop() // leave RunMenu/ContextMenu
	m.modes.push(modeRunOutput)
	m.runLines = nil

	if m.orchestrator == nil {
		m.runLines = append(m.runLines, "no run orchestrator configured")
		return m, nil
	}

	target := m.contextTarget
	if target == "" {
		target = m.selected
	}
	name := target
	if node, ok := m.sg.GetNode(target); ok {
		name = node.Name
	}

	runner, err := m.orchestrator.DetectRunner(m.projectRoot)
	if err != nil {
		m.runLines = append(m.runLines, fmt.Sprintf("runner detection failed: %v", err))
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.runCancel = cancel

	lines, errs := m.orchestrator.Run(ctx, runner, action.action, action.scope(name))
	m.runLinesCh, m.runErrsCh = lines, errs
	return m, waitForRunEvent(lines, errs)
}

func (m *Model) handleRunOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if m.runCancel != nil {
			m.runCancel()
		}
		return m, nil
	case "q":
		if m.runCancel == nil {
			m.modes.pop()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) renderRunMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Run menu") + "\n\n")
	for i, a := range runMenuActions {
		cursor, style := "  ", helpStyle
		if i == m.runMenuIdx {
			cursor, style = "> ", matchStyle
		}
		b.WriteString(style.Render(cursor+a.label) + "\n")
	}
	return menuBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderContextMenu() string {
	var b strings.Builder
	label := m.contextTarget
	if label == "" {
		label = m.selected
	}
	b.WriteString(titleStyle.Render("Context menu — "+label) + "\n\n")
	for i, a := range contextMenuActions {
		cursor, style := "  ", helpStyle
		if i == m.contextIdx {
			cursor, style = "> ", matchStyle
		}
		b.WriteString(style.Render(cursor+a) + "\n")
	}
	return menuBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderRunOutput() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Run output") + "\n\n")

	start := 0
	visible := m.viewport.Height
	if visible > 0 && len(m.runLines) > visible {
		start = len(m.runLines) - visible
	}
	for _, line := range m.runLines[start:] {
		b.WriteString(line + "\n")
	}
	return b.String()
}

// runLineMsg carries one line of subprocess stdout/stderr.
type runLineMsg string

// runExitMsg signals the run subprocess finished, successfully or not.
type runExitMsg struct{ err error }

// waitForRunEvent drains the orchestrator's Run channels one event at a
// time, re-issued by Update after each message so the subprocess stream
// keeps flowing without blocking the bubbletea event loop.
func waitForRunEvent(lines <-chan string, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case line, ok := <-lines:
			if !ok {
				return runExitMsg{}
			}
			return runLineMsg(line)
		case err, ok := <-errs:
			if !ok {
				return runExitMsg{}
			}
			return runExitMsg{err: err}
		}
	}
}

// watchStartedMsg reports the result of the one-time Watch() call kicked
// off by Init.
type watchStartedMsg struct {
	events <-chan usecases.FileChangeEvent
	err    error
}

// fileChangedMsg wraps one FileWatcher event (typically run_results.json
// being rewritten by a completed dbt invocation outside this session).
type fileChangedMsg usecases.FileChangeEvent

func (m *Model) startWatch() tea.Cmd {
	return func() tea.Msg {
		events, err := m.watcher.Watch(context.Background(), m.projectRoot)
		return watchStartedMsg{events: events, err: err}
	}
}

func waitForWatchEvent(events <-chan usecases.FileChangeEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return fileChangedMsg(evt)
	}
}
