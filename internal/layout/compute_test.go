package layout

import (
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

func buildChainGraph() *entities.Graph {
	g := entities.NewGraph()
	g.AddNode(entities.NewNode("source.raw.orders", "orders", entities.KindSource))
	g.AddNode(entities.NewNode("model.stg_orders", "stg_orders", entities.KindModel))
	g.AddNode(entities.NewNode("model.orders", "orders", entities.KindModel))
	g.AddNode(entities.NewNode("model.order_summary", "order_summary", entities.KindModel))
	g.AddEdge(entities.Edge{FromID: "source.raw.orders", ToID: "model.stg_orders", Kind: entities.EdgeSource})
	g.AddEdge(entities.Edge{FromID: "model.stg_orders", ToID: "model.orders", Kind: entities.EdgeRef})
	g.AddEdge(entities.Edge{FromID: "model.orders", ToID: "model.order_summary", Kind: entities.EdgeRef})
	// A long-span edge directly from the source to the final rollup,
	// skipping two layers, to exercise dummy-node chain construction.
	g.AddEdge(entities.Edge{FromID: "source.raw.orders", ToID: "model.order_summary", Kind: entities.EdgeRef})
	return g
}

func fullSubGraph(g *entities.Graph) *entities.SubGraph {
	sub := entities.NewGraph()
	for _, id := range g.SortedIDs() {
		n, _ := g.GetNode(id)
		sub.AddNode(n)
	}
	for _, e := range g.Edges {
		sub.AddEdge(e)
	}
	return &entities.SubGraph{Graph: sub}
}

func TestCompute_LayerAssignmentSatisfiesOrderingInvariant(t *testing.T) {
	sg := fullSubGraph(buildChainGraph())
	l, err := Compute(sg, entities.DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for _, e := range sg.Edges {
		from, ok1 := l.Nodes[e.FromID]
		to, ok2 := l.Nodes[e.ToID]
		if !ok1 || !ok2 {
			t.Fatalf("missing layout node for edge %s -> %s", e.FromID, e.ToID)
		}
		if to.Layer <= from.Layer {
			t.Errorf("edge %s -> %s: layer(to)=%d, layer(from)=%d, want layer(to) > layer(from)", e.FromID, e.ToID, to.Layer, from.Layer)
		}
	}
}

func TestCompute_YEqualsLayerTimesSpacing(t *testing.T) {
	sg := fullSubGraph(buildChainGraph())
	opts := entities.DefaultLayoutOptions()
	l, err := Compute(sg, opts)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for id, n := range l.Nodes {
		want := float64(n.Layer) * opts.YSpacing
		if n.Pos.Y != want {
			t.Errorf("node %s: Y = %v, want %v (layer %d * YSpacing %v)", id, n.Pos.Y, want, n.Layer, opts.YSpacing)
		}
	}
}

func TestCompute_LongSpanEdgeRoutesThroughDummyWaypoints(t *testing.T) {
	sg := fullSubGraph(buildChainGraph())
	l, err := Compute(sg, entities.DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	var longEdge *entities.LayoutEdge
	for i := range l.Edges {
		if l.Edges[i].FromID == "source.raw.orders" && l.Edges[i].ToID == "model.order_summary" {
			longEdge = &l.Edges[i]
		}
	}
	if longEdge == nil {
		t.Fatalf("expected routed edge for the long-span ref, got %+v", l.Edges)
	}
	// Source is layer 0, rollup is layer 3: the edge spans 3 hops, each
	// contributing a vertical-horizontal-vertical dogleg, so the polyline
	// must have more than the 2 endpoint points alone.
	if len(longEdge.Points) <= 2 {
		t.Errorf("expected routed polyline with intermediate waypoints, got %d points", len(longEdge.Points))
	}
}

func TestCompute_EmptySubGraphReturnsEmptyLayout(t *testing.T) {
	sub := entities.NewGraph()
	sg := &entities.SubGraph{Graph: sub}
	l, err := Compute(sg, entities.DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(l.Nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(l.Nodes))
	}
}
