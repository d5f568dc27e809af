package sqllineage

import (
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

func buildOrdersGraph() *entities.Graph {
	g := entities.NewGraph()

	stgOrders := entities.NewNode("model.stg_orders", "stg_orders", entities.KindModel)
	stgOrders.Columns = []entities.Column{{Name: "order_id"}, {Name: "customer_id"}}
	g.AddNode(stgOrders)

	stgPayments := entities.NewNode("model.stg_payments", "stg_payments", entities.KindModel)
	stgPayments.Columns = []entities.Column{{Name: "payment_id"}, {Name: "order_id"}, {Name: "amount"}}
	g.AddNode(stgPayments)

	orders := entities.NewNode("model.orders", "orders", entities.KindModel)
	orders.Path = "models/marts/orders.sql"
	g.AddNode(orders)

	g.AddEdge(entities.Edge{FromID: "model.stg_orders", ToID: "model.orders", Kind: entities.EdgeRef})
	g.AddEdge(entities.Edge{FromID: "model.stg_payments", ToID: "model.orders", Kind: entities.EdgeRef})
	return g
}

func fakeReader(contents map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		return []byte(contents[path]), nil
	}
}

func TestResolveColumn_OrdersTotalAmountTracesToStgPaymentsAmount(t *testing.T) {
	g := buildOrdersGraph()
	sql := `
select
    o.order_id,
    o.customer_id,
    p.amount as total_amount
from {{ ref('stg_orders') }} o
join {{ ref('stg_payments') }} p on o.order_id = p.order_id
`
	r := &Resolver{projectRoot: "/project", readFile: fakeReader(map[string]string{
		"/project/models/marts/orders.sql": sql,
	})}

	lineage, err := r.ResolveColumn(g, "model.orders", "total_amount")
	if err != nil {
		t.Fatalf("ResolveColumn failed: %v", err)
	}
	if len(lineage.Sources) != 1 {
		t.Fatalf("Sources = %v, want 1 entry", lineage.Sources)
	}
	src := lineage.Sources[0]
	if src.UpstreamNodeID != "model.stg_payments" || src.UpstreamColumn != "amount" {
		t.Errorf("got %+v, want stg_payments.amount", src)
	}
	if src.Confidence != entities.ConfidenceAliased {
		t.Errorf("Confidence = %v, want Aliased", src.Confidence)
	}
}

func TestResolveAllColumns_DirectAndDerived(t *testing.T) {
	g := buildOrdersGraph()
	sql := `
select
    o.order_id,
    o.customer_id,
    p.amount * 1.0 as total_amount
from {{ ref('stg_orders') }} o
join {{ ref('stg_payments') }} p on o.order_id = p.order_id
`
	r := &Resolver{projectRoot: "/project", readFile: fakeReader(map[string]string{
		"/project/models/marts/orders.sql": sql,
	})}

	lineages, err := r.ResolveAllColumns(g, "model.orders")
	if err != nil {
		t.Fatalf("ResolveAllColumns failed: %v", err)
	}
	if len(lineages) != 3 {
		t.Fatalf("got %d lineages, want 3", len(lineages))
	}

	byName := make(map[string]*entities.ColumnLineage)
	for _, l := range lineages {
		byName[l.Column] = l
	}

	if got := byName["order_id"]; len(got.Sources) != 1 || got.Sources[0].Confidence != entities.ConfidenceDirect {
		t.Errorf("order_id lineage = %+v, want single Direct source", got)
	}
	if got := byName["total_amount"]; len(got.Sources) != 1 || got.Sources[0].Confidence != entities.ConfidenceDerived {
		t.Errorf("total_amount lineage = %+v, want single Derived source", got)
	}
}

func TestResolveColumn_UnknownNodeYieldsEmptyLineage(t *testing.T) {
	g := buildOrdersGraph()
	r := NewResolver("/project")

	lineage, err := r.ResolveColumn(g, "model.missing", "foo")
	if err != nil {
		t.Fatalf("expected non-fatal nil error, got %v", err)
	}
	if len(lineage.Sources) != 0 {
		t.Errorf("Sources = %v, want none", lineage.Sources)
	}
}
