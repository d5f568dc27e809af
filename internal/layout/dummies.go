package layout

import (
	"fmt"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// chain is one edge's full node-id sequence across every layer it spans:
// [fromID, dummy..., toID]. A single-layer edge is just [fromID, toID].
type chain struct {
	edge  entities.Edge
	nodes []string
}

// buildChains expands every edge spanning more than one layer into a chain
// of dummy waypoint ids, one per intermediate layer, so Phase 2 ordering
// and Phase 4 routing both see a uniform one-layer-per-hop structure.
func buildChains(sg *entities.SubGraph, layer map[string]int) []chain {
	chains := make([]chain, 0, len(sg.Edges))
	for i, e := range sg.Edges {
		fromL, toL := layer[e.FromID], layer[e.ToID]
		nodes := []string{e.FromID}
		for l := fromL + 1; l < toL; l++ {
			nodes = append(nodes, dummyID(i, l))
		}
		nodes = append(nodes, e.ToID)
		chains = append(chains, chain{edge: e, nodes: nodes})
	}
	return chains
}

func dummyID(edgeIndex, layerNum int) string {
	return fmt.Sprintf("dummy:%d:%d", edgeIndex, layerNum)
}

func isDummy(id string) bool {
	return len(id) >= 6 && id[:6] == "dummy:"
}

// extendedLayers folds every chain's dummy waypoints into the real-node
// layer grouping produced by nodesByLayer, so ordering sweeps treat dummy
// and real nodes uniformly.
func extendedLayers(real [][]string, chains []chain, layer map[string]int) [][]string {
	layers := make([][]string, len(real))
	seen := make([]map[string]bool, len(real))
	for i, l := range real {
		layers[i] = append([]string{}, l...)
		seen[i] = make(map[string]bool, len(l))
		for _, id := range l {
			seen[i][id] = true
		}
	}
	for _, c := range chains {
		fromL := layer[c.edge.FromID]
		for idx, id := range c.nodes {
			if !isDummy(id) {
				continue
			}
			l := fromL + idx
			if seen[l][id] {
				continue
			}
			seen[l][id] = true
			layers[l] = append(layers[l], id)
		}
	}
	return layers
}
