package usecases

import (
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// FilterSubgraph is the concrete SelectorFilter (C5).
type FilterSubgraph struct{}

// NewFilterSubgraph returns a ready-to-use FilterSubgraph use case.
func NewFilterSubgraph() *FilterSubgraph {
	return &FilterSubgraph{}
}

// FilterByFocus implements SelectorFilter.
func (f *FilterSubgraph) FilterByFocus(g *entities.Graph, focusID string, upstreamDepth, downstreamDepth int) (*entities.SubGraph, error) {
	if _, ok := g.GetNode(focusID); !ok {
		return nil, &entities.NotFoundError{Entity: "Node", ID: focusID}
	}
	return entities.NewSubGraph(g, focusID, upstreamDepth, downstreamDepth), nil
}

// selectorAtom is one comma-separated piece of a selector expression.
type selectorAtom struct {
	kind  string // "tag", "path", "name"
	value string
}

// parseSelector splits a selector expression into atoms, validating each
// atom's syntax.
func parseSelector(selector string) ([]selectorAtom, error) {
	parts := strings.Split(selector, ",")
	atoms := make([]selectorAtom, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &entities.SelectorSyntaxError{Selector: selector, Reason: "empty atom between commas"}
		}
		switch {
		case strings.HasPrefix(part, "tag:"):
			v := strings.TrimPrefix(part, "tag:")
			if v == "" {
				return nil, &entities.SelectorSyntaxError{Selector: selector, Reason: "tag: atom missing value"}
			}
			atoms = append(atoms, selectorAtom{kind: "tag", value: v})
		case strings.HasPrefix(part, "path:"):
			v := strings.TrimPrefix(part, "path:")
			if v == "" {
				return nil, &entities.SelectorSyntaxError{Selector: selector, Reason: "path: atom missing value"}
			}
			atoms = append(atoms, selectorAtom{kind: "path", value: v})
		default:
			atoms = append(atoms, selectorAtom{kind: "name", value: part})
		}
	}
	return atoms, nil
}

// matches reports whether node satisfies atom.
func (a selectorAtom) matches(n *entities.Node) bool {
	switch a.kind {
	case "tag":
		return n.HasTag(a.value)
	case "path":
		// A path segment must equal the atom value outright, or (as a
		// convenience beyond the bare spec) match it as a glob so
		// `path:stag*` reaches both `staging` and `stage_tmp` layouts.
		for _, seg := range strings.Split(strings.ReplaceAll(n.Path, `\`, "/"), "/") {
			if seg == a.value || entities.NewGlobMatcher(a.value).Match(seg) {
				return true
			}
		}
		return false
	default: // "name"
		return n.Name == a.value
	}
}

// FilterBySelector implements SelectorFilter.
func (f *FilterSubgraph) FilterBySelector(g *entities.Graph, selector string) (*entities.SubGraph, error) {
	atoms, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	sub := entities.NewGraph()
	for _, id := range g.SortedIDs() {
		node, _ := g.GetNode(id)
		for _, a := range atoms {
			if a.matches(node) {
				sub.AddNode(node)
				break
			}
		}
	}
	for _, e := range g.Edges {
		if _, okFrom := sub.GetNode(e.FromID); okFrom {
			if _, okTo := sub.GetNode(e.ToID); okTo {
				sub.AddEdge(e)
			}
		}
	}

	return &entities.SubGraph{Graph: sub, UpstreamDepth: entities.InfiniteDepth, DownstreamDepth: entities.InfiniteDepth}, nil
}

// FilterByKind implements SelectorFilter.
func (f *FilterSubgraph) FilterByKind(g *entities.Graph, include KindInclude) *entities.Graph {
	keep := func(k entities.NodeKind) bool {
		switch k {
		case entities.KindTest:
			return include.Tests
		case entities.KindSeed:
			return include.Seeds
		case entities.KindSnapshot:
			return include.Snapshots
		case entities.KindExposure:
			return include.Exposures
		default:
			return true
		}
	}

	out := entities.NewGraph()
	for _, id := range g.SortedIDs() {
		node, _ := g.GetNode(id)
		if keep(node.Kind) {
			out.AddNode(node)
		}
	}
	for _, e := range g.Edges {
		if _, okFrom := out.GetNode(e.FromID); okFrom {
			if _, okTo := out.GetNode(e.ToID); okTo {
				out.AddEdge(e)
			}
		}
	}
	return out
}
