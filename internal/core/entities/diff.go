package entities

import "sort"

// EdgeTuple identifies an edge by endpoints alone, the comparison key used
// by the diff engine (C7) since two revisions of the same model may
// reassign edge kind without the dependency itself changing.
type EdgeTuple struct {
	FromID string
	ToID   string
}

// Diff is the result of comparing a graph built at a base revision against
// one built at a head revision (or the working tree).
type Diff struct {
	BaseRef string
	HeadRef string

	AddedNodes    []string
	RemovedNodes  []string
	ModifiedNodes []string

	AddedEdges   []EdgeTuple
	RemovedEdges []EdgeTuple
}

// NewDiff compares gBase and gHead, computing node set differences,
// content-hash modifications (by comparing contentHash, keyed by node id,
// for ids present in both graphs), and edge set differences by endpoint
// tuple equality. All five output slices are sorted for determinism.
func NewDiff(baseRef, headRef string, gBase, gHead *Graph, contentHashBase, contentHashHead map[string]string) *Diff {
	d := &Diff{BaseRef: baseRef, HeadRef: headRef}

	baseIDs := idSet(gBase)
	headIDs := idSet(gHead)

	for id := range headIDs {
		if !baseIDs[id] {
			d.AddedNodes = append(d.AddedNodes, id)
		}
	}
	for id := range baseIDs {
		if !headIDs[id] {
			d.RemovedNodes = append(d.RemovedNodes, id)
		}
	}
	for id := range headIDs {
		if !baseIDs[id] {
			continue
		}
		if contentHashBase[id] != contentHashHead[id] {
			d.ModifiedNodes = append(d.ModifiedNodes, id)
		}
	}

	baseEdges := edgeSet(gBase)
	headEdges := edgeSet(gHead)
	for t := range headEdges {
		if !baseEdges[t] {
			d.AddedEdges = append(d.AddedEdges, t)
		}
	}
	for t := range baseEdges {
		if !headEdges[t] {
			d.RemovedEdges = append(d.RemovedEdges, t)
		}
	}

	sortStrings(d.AddedNodes)
	sortStrings(d.RemovedNodes)
	sortStrings(d.ModifiedNodes)
	sortEdgeTuples(d.AddedEdges)
	sortEdgeTuples(d.RemovedEdges)

	return d
}

func idSet(g *Graph) map[string]bool {
	s := make(map[string]bool, len(g.Nodes))
	for id := range g.Nodes {
		s[id] = true
	}
	return s
}

func edgeSet(g *Graph) map[EdgeTuple]bool {
	s := make(map[EdgeTuple]bool, len(g.Edges))
	for _, e := range g.Edges {
		s[EdgeTuple{FromID: e.FromID, ToID: e.ToID}] = true
	}
	return s
}

func sortStrings(s []string) {
	sort.Strings(s)
}

func sortEdgeTuples(s []EdgeTuple) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].FromID != s[j].FromID {
			return s[i].FromID < s[j].FromID
		}
		return s[i].ToID < s[j].ToID
	})
}
