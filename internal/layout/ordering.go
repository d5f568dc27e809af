package layout

import "sort"

// adjacency holds, for each node id, the ids connected to it in the layer
// immediately above (up) and immediately below (down), derived from the
// dummy-expanded chains so multi-layer edges contribute one hop per layer.
type adjacency struct {
	up   map[string][]string
	down map[string][]string
}

func buildAdjacency(chains []chain) adjacency {
	adj := adjacency{up: map[string][]string{}, down: map[string][]string{}}
	for _, c := range chains {
		for i := 0; i+1 < len(c.nodes); i++ {
			a, b := c.nodes[i], c.nodes[i+1]
			adj.down[a] = append(adj.down[a], b)
			adj.up[b] = append(adj.up[b], a)
		}
	}
	return adj
}

// orderLayers runs the iterative barycenter heuristic over layers (which
// already include dummy waypoints) for up to maxSweeps alternating
// up/down passes, stopping early when a full pass makes no change. Ties in
// barycenter value are broken by the node's existing relative order via a
// stable sort, which for the first sweep is the incoming sorted-id order.
func orderLayers(layers [][]string, adj adjacency, maxSweeps int) [][]string {
	ordered := make([][]string, len(layers))
	for i, l := range layers {
		ordered[i] = append([]string{}, l...)
	}

	posOf := func(layer []string) map[string]int {
		pos := make(map[string]int, len(layer))
		for i, id := range layer {
			pos[id] = i
		}
		return pos
	}

	barycenter := func(id string, neighbors []string, pos map[string]int) (float64, bool) {
		if len(neighbors) == 0 {
			return 0, false
		}
		sum := 0
		count := 0
		for _, n := range neighbors {
			if p, ok := pos[n]; ok {
				sum += p
				count++
			}
		}
		if count == 0 {
			return 0, false
		}
		return float64(sum) / float64(count), true
	}

	sweepLayer := func(layerIdx int, neighborsOf map[string][]string, refPos map[string]int) bool {
		layer := ordered[layerIdx]
		type scored struct {
			id    string
			value float64
			has   bool
			orig  int
		}
		scoredItems := make([]scored, len(layer))
		for i, id := range layer {
			v, has := barycenter(id, neighborsOf[id], refPos)
			scoredItems[i] = scored{id: id, value: v, has: has, orig: i}
		}
		sort.SliceStable(scoredItems, func(i, j int) bool {
			if scoredItems[i].has && scoredItems[j].has {
				return scoredItems[i].value < scoredItems[j].value
			}
			if scoredItems[i].has != scoredItems[j].has {
				// Nodes with no placed neighbor keep their original slot
				// relative to those that do, preserving stable id order.
				return scoredItems[i].orig < scoredItems[j].orig
			}
			return scoredItems[i].orig < scoredItems[j].orig
		})
		changed := false
		next := make([]string, len(layer))
		for i, s := range scoredItems {
			next[i] = s.id
			if layer[i] != s.id {
				changed = true
			}
		}
		ordered[layerIdx] = next
		return changed
	}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := false
		if sweep%2 == 0 {
			// Top-down: order each layer by its upstream neighbors' positions.
			for i := 1; i < len(ordered); i++ {
				refPos := posOf(ordered[i-1])
				if sweepLayer(i, adj.up, refPos) {
					changed = true
				}
			}
		} else {
			// Bottom-up: order each layer by its downstream neighbors' positions.
			for i := len(ordered) - 2; i >= 0; i-- {
				refPos := posOf(ordered[i+1])
				if sweepLayer(i, adj.down, refPos) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return ordered
}
