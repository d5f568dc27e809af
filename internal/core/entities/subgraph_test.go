package entities

import "testing"

func TestNewSubGraph_CustomersUp1Down0(t *testing.T) {
	g := buildSimpleProjectGraph(t)

	sub := NewSubGraph(g, "model.customers", 1, 0)

	want := map[string]bool{
		"model.customers":     true,
		"model.stg_customers": true,
		"model.orders":        true,
	}
	if sub.Size() != len(want) {
		t.Fatalf("Size() = %d, want %d (%v)", sub.Size(), len(want), sub.SortedIDs())
	}
	for id := range want {
		if _, ok := sub.GetNode(id); !ok {
			t.Errorf("expected node %s in subgraph", id)
		}
	}
	if sub.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", sub.EdgeCount())
	}
}

func TestNewSubGraph_InfiniteDepthReachesWholeGraph(t *testing.T) {
	g := buildSimpleProjectGraph(t)
	sub := NewSubGraph(g, "model.stg_orders", InfiniteDepth, InfiniteDepth)

	// upstream of stg_orders is its raw source; downstream eventually
	// reaches both marts.
	for _, id := range []string{"source.raw.orders", "model.stg_orders", "model.orders", "model.customers"} {
		if _, ok := sub.GetNode(id); !ok {
			t.Errorf("expected node %s reachable with infinite depth", id)
		}
	}
}
