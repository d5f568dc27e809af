package cmd

import (
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

func TestDepthOrInfinite(t *testing.T) {
	if got := depthOrInfinite(2); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := depthOrInfinite(0); got != 0 {
		t.Errorf("expected 0 (literal, per dbt -u 0 semantics), got %d", got)
	}
	if got := depthOrInfinite(-1); got != entities.InfiniteDepth {
		t.Errorf("expected InfiniteDepth, got %d", got)
	}
}

func TestFilterGraph_NoArgsReturnsWholeGraphUnbounded(t *testing.T) {
	g := entities.NewGraph()
	g.AddNode(entities.NewNode("model.orders", "orders", entities.KindModel))

	flagSelector = ""
	sg, err := filterGraph(g, nil, entities.DefaultToolConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.FocusID != "" {
		t.Errorf("expected no focus, got %q", sg.FocusID)
	}
	if sg.UpstreamDepth != entities.InfiniteDepth || sg.DownstreamDepth != entities.InfiniteDepth {
		t.Errorf("expected unbounded depths, got up=%d down=%d", sg.UpstreamDepth, sg.DownstreamDepth)
	}
	if _, ok := sg.GetNode("model.orders"); !ok {
		t.Error("expected model.orders to be present in the whole-graph subgraph")
	}
}

func TestFilterGraph_FocusArgUsesFocusFilter(t *testing.T) {
	g := entities.NewGraph()
	g.AddNode(entities.NewNode("model.orders", "orders", entities.KindModel))
	g.AddNode(entities.NewNode("model.customers", "customers", entities.KindModel))
	g.AddEdge(entities.Edge{FromID: "model.customers", ToID: "model.orders", Kind: entities.EdgeRef})

	flagSelector = ""
	flagUpstream = 0
	flagDownstream = 0

	sg, err := filterGraph(g, []string{"model.orders"}, entities.DefaultToolConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.FocusID != "model.orders" {
		t.Errorf("expected focus model.orders, got %q", sg.FocusID)
	}
}
