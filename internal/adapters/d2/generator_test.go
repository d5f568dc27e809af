package d2_test

import (
	"context"
	"strings"
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/d2"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

func buildSampleSubGraph() *entities.SubGraph {
	g := entities.NewGraph()
	g.AddNode(entities.NewNode("source.raw.orders", "orders", entities.KindSource))
	g.AddNode(entities.NewNode("model.stg_orders", "stg_orders", entities.KindModel))
	g.AddNode(entities.NewNode("test.not_null_orders_id", "not_null_orders_id", entities.KindTest))
	g.AddEdge(entities.Edge{FromID: "source.raw.orders", ToID: "model.stg_orders", Kind: entities.EdgeSource})
	g.AddEdge(entities.Edge{FromID: "model.stg_orders", ToID: "test.not_null_orders_id", Kind: entities.EdgeRef})
	return entities.NewSubGraph(g, "model.stg_orders", entities.InfiniteDepth, entities.InfiniteDepth)
}

func TestGenerator_Generate_EmitsOneShapePerNode(t *testing.T) {
	sg := buildSampleSubGraph()
	gen := d2.NewGenerator(nil)

	src := gen.Generate(sg)

	for _, id := range []string{"source.raw.orders", "model.stg_orders", "test.not_null_orders_id"} {
		if !strings.Contains(src, id) {
			t.Errorf("Generate() missing shape for %q:\n%s", id, src)
		}
	}
}

func TestGenerator_Generate_StylesSourceEdgeDashed(t *testing.T) {
	sg := buildSampleSubGraph()
	gen := d2.NewGenerator(nil)

	src := gen.Generate(sg)

	if !strings.Contains(src, "stroke-dash") {
		t.Errorf("Generate() expected a dashed style for the Source edge:\n%s", src)
	}
}

func TestGenerator_Generate_PhantomNodeStyledDashed(t *testing.T) {
	g := entities.NewGraph()
	g.AddNode(entities.NewPhantomNode("model.unresolved"))
	sg := entities.NewSubGraph(g, "model.unresolved", 0, 0)

	src := d2.NewGenerator(nil).Generate(sg)
	if !strings.Contains(src, "style.stroke-dash: 4") {
		t.Errorf("Generate() expected phantom node dashed outline:\n%s", src)
	}
}

func TestCompile_EmptySourceReturnsError(t *testing.T) {
	if _, err := d2.Compile(context.Background(), "   "); err == nil {
		t.Error("Compile() expected an error for empty source")
	}
}

func TestCompile_ValidSourceCompiles(t *testing.T) {
	sg := buildSampleSubGraph()
	src := d2.NewGenerator(nil).Generate(sg)

	graph, err := d2.Compile(context.Background(), src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if graph == nil {
		t.Error("Compile() returned a nil graph for valid source")
	}
}
