package usecases

import (
	"context"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// BuildGraph is the concrete GraphBuilder (C4): it unifies one or more
// ExtractResult streams (C2 and/or C3 output) into a single acyclic Graph,
// synthesizing Phantom nodes for edge targets no real node resolves.
//
// Grounded on the teacher's detect_drift-style "collect, don't fail fast"
// merge discipline and on fireflyframework's DFS cycle-detection shape,
// generalized here onto entities.Graph.Validate.
type BuildGraph struct{}

// NewBuildGraph returns a ready-to-use BuildGraph use case.
func NewBuildGraph() *BuildGraph {
	return &BuildGraph{}
}

// Build implements GraphBuilder.
func (b *BuildGraph) Build(ctx context.Context, results ...ExtractResult) (*entities.Graph, error) {
	g := entities.NewGraph()

	// Pass 1: insert every real node. Authoritative results are applied
	// last so their metadata wins when the same id appears twice (e.g.
	// manifest.json overriding a SQL-scan-only node).
	nonAuthoritative := make([]ExtractResult, 0, len(results))
	authoritative := make([]ExtractResult, 0, len(results))
	for _, r := range results {
		if r.Authoritative {
			authoritative = append(authoritative, r)
		} else {
			nonAuthoritative = append(nonAuthoritative, r)
		}
	}

	for _, r := range nonAuthoritative {
		for _, n := range r.Nodes {
			g.AddNode(n)
		}
	}
	for _, r := range authoritative {
		for _, n := range r.Nodes {
			g.AddNode(n)
		}
	}

	// Pass 2: union of edges across all results, deduplicated by
	// Graph.AddEdge. Synthesize a Phantom node for any target id that no
	// node insertion above produced.
	for _, r := range results {
		for _, e := range r.Edges {
			if _, ok := g.GetNode(e.ToID); !ok {
				g.AddNode(entities.NewPhantomNode(e.ToID))
			}
			if _, ok := g.GetNode(e.FromID); !ok {
				g.AddNode(entities.NewPhantomNode(e.FromID))
			}
			g.AddEdge(e)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}
