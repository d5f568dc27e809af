// Package layout implements the four-phase Sugiyama layered placement used
// for the ASCII/TUI viewport and JSON layout payload: longest-path
// layering, barycenter ordering, coordinate assignment, and orthogonal
// dummy-node edge routing.
package layout

import "github.com/madstone-tech/dbt-lineage/internal/core/entities"

// assignLayers computes longest-path layering over sg: layer(v) = 1 +
// max(layer(u) for u -> v), with nodes carrying no incoming edge placed at
// layer 0. Processing follows a topological order derived from sorted ids,
// mirroring the deterministic DFS order the graph's own cycle detector
// uses, since sg is already guaranteed acyclic by the graph builder.
func assignLayers(sg *entities.SubGraph) map[string]int {
	layer := make(map[string]int, len(sg.Nodes))
	visiting := make(map[string]bool, len(sg.Nodes))

	var compute func(id string) int
	compute = func(id string) int {
		if l, ok := layer[id]; ok {
			return l
		}
		if visiting[id] {
			// Defensive: sg is acyclic by construction; treat a revisit as
			// layer 0 rather than recursing forever.
			return 0
		}
		visiting[id] = true

		max := -1
		for _, u := range sg.Upstream(id) {
			if _, ok := sg.GetNode(u); !ok {
				continue
			}
			if l := compute(u); l > max {
				max = l
			}
		}
		visiting[id] = false
		layer[id] = max + 1
		return layer[id]
	}

	for _, id := range sg.SortedIDs() {
		compute(id)
	}
	return layer
}

// maxLayer returns the highest layer value present, or -1 if layer is empty.
func maxLayer(layer map[string]int) int {
	max := -1
	for _, l := range layer {
		if l > max {
			max = l
		}
	}
	return max
}

// nodesByLayer groups node ids by their assigned layer, in stable sorted
// order within each layer as the initial ordering for Phase 2.
func nodesByLayer(sg *entities.SubGraph, layer map[string]int) [][]string {
	top := maxLayer(layer)
	if top < 0 {
		return nil
	}
	layers := make([][]string, top+1)
	for _, id := range sg.SortedIDs() {
		l := layer[id]
		layers[l] = append(layers[l], id)
	}
	return layers
}
