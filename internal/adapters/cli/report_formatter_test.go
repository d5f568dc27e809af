package cli

import (
	"time"

	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// These tests only check that the formatter does not panic across its
// expected inputs; output goes to stdout, which the teacher's own
// ui/output_test.go also never captures.

func TestReportFormatter_PrintImpactReport_EmptyReachedSet(t *testing.T) {
	f := NewReportFormatter()
	f.PrintImpactReport(&entities.ImpactResult{Root: "model.orders"})
}

func TestReportFormatter_PrintImpactReport_GroupsBySeverity(t *testing.T) {
	f := NewReportFormatter()
	f.PrintImpactReport(&entities.ImpactResult{
		Root:             "model.orders",
		Reached:          []string{"model.order_summary", "exposure.finance_dash"},
		Classifications:  map[string]entities.Severity{"model.order_summary": entities.SeverityHigh, "exposure.finance_dash": entities.SeverityCritical},
		CountsBySeverity: map[entities.Severity]int{entities.SeverityHigh: 1, entities.SeverityCritical: 1},
	})
}

func TestReportFormatter_PrintDiffReport_WorkingTreeHead(t *testing.T) {
	f := NewReportFormatter()
	f.PrintDiffReport(&entities.Diff{
		BaseRef:       "main",
		HeadRef:       "",
		AddedNodes:    []string{"model.new_model"},
		RemovedNodes:  []string{"model.old_model"},
		ModifiedNodes: []string{"model.orders"},
		AddedEdges:    []entities.EdgeTuple{{FromID: "model.orders", ToID: "model.new_model"}},
	})
}

func TestReportFormatter_PrintBuildReport(t *testing.T) {
	f := NewReportFormatter()
	f.PrintBuildReport(usecases.BuildStats{
		NodeCount:    10,
		EdgeCount:    12,
		PhantomCount: 1,
		Duration:     250 * time.Millisecond,
		Format:       "ascii",
	})
}
