package entities

import "math"

// InfiniteDepth represents an unbounded depth cap for SubGraph filtering.
const InfiniteDepth = math.MaxInt32

// SubGraph is a Graph restricted to the nodes reachable from FocusID within
// UpstreamDepth upstream hops or DownstreamDepth downstream hops. It shares
// node identities with its parent Graph — the *Node pointers in its Nodes
// map are the same pointers held by the parent.
type SubGraph struct {
	*Graph
	FocusID         string
	UpstreamDepth   int
	DownstreamDepth int
}

// NewSubGraph builds a SubGraph from g by BFS out from focusID, bounded by
// upstreamDepth hops against the upstream adjacency and downstreamDepth
// hops against the downstream adjacency. A depth of InfiniteDepth treats
// that direction as unbounded. Edges are retained only when both endpoints
// survive the filter.
func NewSubGraph(g *Graph, focusID string, upstreamDepth, downstreamDepth int) *SubGraph {
	kept := map[string]bool{focusID: true}

	if node, ok := g.GetNode(focusID); ok {
		kept[node.ID] = true
	}

	bfsDirection := func(depth int, neighbors func(string) []string) {
		if depth <= 0 {
			return
		}
		frontier := []string{focusID}
		visited := map[string]int{focusID: 0}
		for len(frontier) > 0 {
			next := frontier[:0:0]
			for _, id := range frontier {
				d := visited[id]
				if d >= depth {
					continue
				}
				for _, nb := range neighbors(id) {
					if _, seen := visited[nb]; seen {
						continue
					}
					visited[nb] = d + 1
					kept[nb] = true
					next = append(next, nb)
				}
			}
			frontier = next
		}
	}

	bfsDirection(upstreamDepth, g.Upstream)
	bfsDirection(downstreamDepth, g.Downstream)

	sub := NewGraph()
	for id := range kept {
		if node, ok := g.GetNode(id); ok {
			sub.AddNode(node)
		}
	}
	for _, e := range g.Edges {
		if kept[e.FromID] && kept[e.ToID] {
			sub.AddEdge(e)
		}
	}

	return &SubGraph{
		Graph:           sub,
		FocusID:         focusID,
		UpstreamDepth:   upstreamDepth,
		DownstreamDepth: downstreamDepth,
	}
}
