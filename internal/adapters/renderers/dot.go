package renderers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// DotRenderer implements usecases.Renderer for the "dot" (Graphviz) format.
// Iteration is always over sg.SortedIDs()/sg.Edges in tuple order, so
// identical input yields byte-identical output (spec.md §8's DOT
// stability invariant).
type DotRenderer struct{}

// NewDotRenderer returns a ready-to-use DotRenderer.
func NewDotRenderer() *DotRenderer { return &DotRenderer{} }

var _ usecases.Renderer = (*DotRenderer)(nil)

// Format implements usecases.Renderer.
func (r *DotRenderer) Format() string { return "dot" }

// Render implements usecases.Renderer. layout is unused: DOT is a plain
// adjacency projection, left to Graphviz's own layout engines.
func (r *DotRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	var b strings.Builder
	b.WriteString("digraph dbt {\n")
	b.WriteString("  rankdir=BT;\n")

	for _, id := range sg.SortedIDs() {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		shape, style := dotShapeAndStyle(node.Kind)
		fmt.Fprintf(&b, "  %s [label=%s, shape=%s, style=%q];\n", dotID(id), dotQuote(node.Name), shape, style)
	}

	edges := make([]entities.Edge, len(sg.Edges))
	copy(edges, sg.Edges)
	sortEdges(edges)

	for _, e := range edges {
		if e.Kind == entities.EdgeSource {
			fmt.Fprintf(&b, "  %s -> %s [style=dashed];\n", dotID(e.FromID), dotID(e.ToID))
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s;\n", dotID(e.FromID), dotID(e.ToID))
	}

	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func dotShapeAndStyle(kind entities.NodeKind) (shape, style string) {
	switch kind {
	case entities.KindModel:
		return "box", "filled"
	case entities.KindSource:
		return "cylinder", "filled"
	case entities.KindSeed:
		return "cylinder", "filled"
	case entities.KindSnapshot:
		return "box", "filled"
	case entities.KindTest:
		return "diamond", "filled"
	case entities.KindExposure:
		return "ellipse", "filled"
	default:
		return "box", "dashed"
	}
}

// dotID produces a safe Graphviz node identifier from a dbt node id,
// which already contains only letters, digits, dots, and underscores.
func dotID(id string) string {
	return `"` + id + `"`
}

func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func sortEdges(edges []entities.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromID != edges[j].FromID {
			return edges[i].FromID < edges[j].FromID
		}
		return edges[i].ToID < edges[j].ToID
	})
}
