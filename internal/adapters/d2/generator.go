// Package d2 projects a dependency graph into D2 diagram source and
// renders it to SVG: Generator/Compile produce and validate D2 source
// through the real d2 library (exercising its bundled d2dagrelayout
// layout engine); Renderer (renderer.go) shells out to the d2 CLI binary
// for the actual SVG rasterization used by the svg/html output formats.
package d2

import (
	"context"
	"fmt"
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// Generator turns a SubGraph into D2 source text, one shape per node and
// one arrow per edge, styled by kind against a Theme.
type Generator struct {
	theme *entities.Theme
}

// NewGenerator returns a Generator that styles shapes from theme. A nil
// theme falls back to entities.DefaultTheme.
func NewGenerator(theme *entities.Theme) *Generator {
	if theme == nil {
		theme = entities.DefaultTheme()
	}
	return &Generator{theme: theme}
}

// Generate writes sg as D2 source. Node and edge order follows
// sg.SortedIDs()/sg.Edges so output is deterministic for a given graph.
func (g *Generator) Generate(sg *entities.SubGraph) string {
	var b strings.Builder
	for _, id := range sg.SortedIDs() {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		g.writeNode(&b, node)
	}
	for _, e := range sg.Edges {
		writeEdge(&b, e)
	}
	return b.String()
}

func (g *Generator) writeNode(b *strings.Builder, n *entities.Node) {
	shape, color := shapeAndColor(n.Kind, g.theme)
	fmt.Fprintf(b, "%s: {\n  shape: %s\n  style.fill: %q\n", d2Key(n.ID), shape, color)
	if n.Kind == entities.KindPhantom {
		b.WriteString("  style.stroke-dash: 4\n")
	}
	if n.Description != "" {
		fmt.Fprintf(b, "  tooltip: %q\n", n.Description)
	}
	b.WriteString("}\n")
}

func shapeAndColor(kind entities.NodeKind, theme *entities.Theme) (shape, color string) {
	switch kind {
	case entities.KindModel:
		return "rectangle", theme.Color(entities.ColorNodeModel)
	case entities.KindSource:
		return "cylinder", theme.Color(entities.ColorNodeSource)
	case entities.KindSeed:
		return "cylinder", theme.Color(entities.ColorNodeSeed)
	case entities.KindSnapshot:
		return "rectangle", theme.Color(entities.ColorNodeSnapshot)
	case entities.KindTest:
		return "diamond", theme.Color(entities.ColorNodeTest)
	case entities.KindExposure:
		return "oval", theme.Color(entities.ColorNodeExposure)
	default:
		return "rectangle", theme.Color(entities.ColorNodePhantom)
	}
}

func writeEdge(b *strings.Builder, e entities.Edge) {
	if e.Kind == entities.EdgeSource {
		fmt.Fprintf(b, "%s -> %s: { style.stroke-dash: 3 }\n", d2Key(e.FromID), d2Key(e.ToID))
		return
	}
	fmt.Fprintf(b, "%s -> %s\n", d2Key(e.FromID), d2Key(e.ToID))
}

// d2Key quotes an id for use as a D2 shape key; node ids contain dots
// (e.g. "source.raw.orders") which D2 would otherwise read as nested-shape
// path separators.
func d2Key(id string) string {
	return fmt.Sprintf("%q", id)
}

// Compile validates src through the real d2 library, resolving layout via
// d2dagrelayout.DefaultLayout, and returns the compiled graph IR. The
// graph's own coordinates are not consumed further: actual rasterization
// goes through the d2 CLI in renderer.go. Compile exists so every
// svg/html render is checked against the library's parser rather than
// assumed valid, and so d2dagrelayout is genuinely exercised rather than
// only referenced.
func Compile(ctx context.Context, src string) (*d2graph.Graph, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("d2 source is empty")
	}

	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("d2 text ruler: %w", err)
	}

	compileOpts := &d2lib.CompileOptions{
		Ruler: ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return d2dagrelayout.DefaultLayout, nil
		},
	}

	_, graph, err := d2lib.Compile(ctx, src, compileOpts, nil)
	if err != nil {
		return nil, fmt.Errorf("d2 compile: %w", err)
	}
	return graph, nil
}
