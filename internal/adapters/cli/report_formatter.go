// Package cli provides terminal-facing adapters: progress reporting and
// the plain-text impact/diff/build reports used by `-o text` and the
// default (non-JSON) CLI output.
package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	severityStyles = map[entities.Severity]lipgloss.Style{
		entities.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		entities.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		entities.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		entities.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
	}

	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
)

// ReportFormatter implements usecases.ReportFormatter: plain-text
// rendering of impact/diff/build results for `-o text` and default CLI
// output.
type ReportFormatter struct{}

var _ usecases.ReportFormatter = (*ReportFormatter)(nil)

// NewReportFormatter creates a new ReportFormatter instance.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

// PrintImpactReport prints the reached set grouped by severity, most
// disruptive first.
func (f *ReportFormatter) PrintImpactReport(result *entities.ImpactResult) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Impact of %s", result.Root)))
	if len(result.Reached) == 0 {
		fmt.Println(mutedStyle.Render("  (no downstream nodes)"))
		return
	}

	order := []entities.Severity{
		entities.SeverityCritical,
		entities.SeverityHigh,
		entities.SeverityMedium,
		entities.SeverityLow,
	}
	for _, sev := range order {
		count := result.CountsBySeverity[sev]
		if count == 0 {
			continue
		}
		style := severityStyles[sev]
		fmt.Println(style.Render(fmt.Sprintf("  %s (%d):", sev, count)))
		for _, id := range result.Reached {
			if result.Classifications[id] == sev {
				fmt.Printf("    - %s\n", id)
			}
		}
	}
}

// PrintDiffReport prints the node and edge set differences between two
// revisions.
func (f *ReportFormatter) PrintDiffReport(diff *entities.Diff) {
	head := diff.HeadRef
	if head == "" {
		head = "working tree"
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Diff %s..%s", diff.BaseRef, head)))

	printIDs := func(label string, style lipgloss.Style, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Println(style.Render(fmt.Sprintf("  %s (%d):", label, len(ids))))
		for _, id := range ids {
			fmt.Printf("    %s %s\n", style.Render(label[:1]), id)
		}
	}
	printIDs("added", addedStyle, diff.AddedNodes)
	printIDs("removed", removedStyle, diff.RemovedNodes)
	printIDs("modified", modifiedStyle, diff.ModifiedNodes)

	if len(diff.AddedEdges) == 0 && len(diff.RemovedEdges) == 0 {
		return
	}
	fmt.Println(mutedStyle.Render("  edges:"))
	for _, e := range diff.AddedEdges {
		fmt.Println(addedStyle.Render(fmt.Sprintf("    + %s -> %s", e.FromID, e.ToID)))
	}
	for _, e := range diff.RemovedEdges {
		fmt.Println(removedStyle.Render(fmt.Sprintf("    - %s -> %s", e.FromID, e.ToID)))
	}
}

// PrintBuildReport prints graph-construction statistics.
func (f *ReportFormatter) PrintBuildReport(stats usecases.BuildStats) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Built graph (%s)", stats.Format)))
	fmt.Printf("  nodes:    %d\n", stats.NodeCount)
	fmt.Printf("  edges:    %d\n", stats.EdgeCount)
	if stats.PhantomCount > 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("  phantoms: %d", stats.PhantomCount)))
	}
	fmt.Printf("  duration: %s\n", stats.Duration.Round(time.Millisecond))
}
