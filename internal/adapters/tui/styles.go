package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	matchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	ancestorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#03A9F4"))
	descendStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E91E63"))

	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8BC34A")).
			Padding(1, 2)

	impactPanelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
)
