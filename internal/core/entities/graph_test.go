package entities

import "testing"

func buildSimpleProjectGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()

	g.AddNode(NewNode("source.raw.customers", "customers", KindSource))
	g.AddNode(NewNode("source.raw.orders", "orders", KindSource))
	g.AddNode(NewNode("source.raw.payments", "payments", KindSource))

	stgCustomers := NewNode("model.stg_customers", "stg_customers", KindModel)
	stgCustomers.Path = "models/staging/stg_customers.sql"
	stgOrders := NewNode("model.stg_orders", "stg_orders", KindModel)
	stgOrders.Path = "models/staging/stg_orders.sql"
	stgPayments := NewNode("model.stg_payments", "stg_payments", KindModel)
	stgPayments.Path = "models/staging/stg_payments.sql"
	g.AddNode(stgCustomers)
	g.AddNode(stgOrders)
	g.AddNode(stgPayments)

	orders := NewNode("model.orders", "orders", KindModel)
	orders.Path = "models/marts/orders.sql"
	orders.Materialization = MaterializationTable
	orders.Tags = []string{"finance"}
	customers := NewNode("model.customers", "customers", KindModel)
	customers.Path = "models/marts/customers.sql"
	customers.Materialization = MaterializationTable
	g.AddNode(orders)
	g.AddNode(customers)

	g.AddEdge(Edge{FromID: "source.raw.customers", ToID: "model.stg_customers", Kind: EdgeSource})
	g.AddEdge(Edge{FromID: "source.raw.orders", ToID: "model.stg_orders", Kind: EdgeSource})
	g.AddEdge(Edge{FromID: "source.raw.payments", ToID: "model.stg_payments", Kind: EdgeSource})
	g.AddEdge(Edge{FromID: "model.stg_orders", ToID: "model.orders", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "model.stg_payments", ToID: "model.orders", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "model.stg_customers", ToID: "model.customers", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "model.orders", ToID: "model.customers", Kind: EdgeRef})

	return g
}

func TestGraph_SimpleProjectFixture(t *testing.T) {
	g := buildSimpleProjectGraph(t)

	if g.Size() != 8 {
		t.Errorf("Size() = %d, want 8", g.Size())
	}
	if g.EdgeCount() != 7 {
		t.Errorf("EdgeCount() = %d, want 7", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil (acyclic)", err)
	}
}

func TestGraph_AddEdge_DropsDuplicates(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewNode("a", "a", KindModel))
	g.AddNode(NewNode("b", "b", KindModel))

	g.AddEdge(Edge{FromID: "a", ToID: "b", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "a", ToID: "b", Kind: EdgeRef})

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 after duplicate AddEdge", g.EdgeCount())
	}
}

func TestGraph_UpstreamDownstream(t *testing.T) {
	g := buildSimpleProjectGraph(t)

	down := g.Downstream("model.stg_orders")
	if len(down) != 1 || down[0] != "model.orders" {
		t.Errorf("Downstream(stg_orders) = %v, want [model.orders]", down)
	}

	up := g.Upstream("model.orders")
	if len(up) != 2 {
		t.Errorf("Upstream(orders) = %v, want 2 entries", up)
	}
}

func TestGraph_Validate_DetectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewNode("a", "a", KindModel))
	g.AddNode(NewNode("b", "b", KindModel))
	g.AddNode(NewNode("c", "c", KindModel))

	g.AddEdge(Edge{FromID: "a", ToID: "b", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "b", ToID: "c", Kind: EdgeRef})
	g.AddEdge(Edge{FromID: "c", ToID: "a", Kind: EdgeRef})

	err := g.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want GraphCyclicError")
	}
	cyclicErr, ok := err.(*GraphCyclicError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *GraphCyclicError", err)
	}
	if len(cyclicErr.Cycle) < 3 {
		t.Errorf("Cycle = %v, want at least 3 participants", cyclicErr.Cycle)
	}
}

func TestGraph_Validate_RejectsDanglingEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewNode("a", "a", KindModel))
	g.Edges = append(g.Edges, Edge{FromID: "a", ToID: "ghost", Kind: EdgeRef})

	if err := g.Validate(); err == nil {
		t.Error("Validate() = nil, want error for dangling edge endpoint")
	}
}

func TestNewPhantomNode_DerivesNameFromID(t *testing.T) {
	n := NewPhantomNode("source.raw.unknown_table")
	if n.Kind != KindPhantom {
		t.Errorf("Kind = %v, want Phantom", n.Kind)
	}
	if n.Name != "unknown_table" {
		t.Errorf("Name = %q, want %q", n.Name, "unknown_table")
	}
}
