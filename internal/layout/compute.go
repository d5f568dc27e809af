package layout

import "github.com/madstone-tech/dbt-lineage/internal/core/entities"

// Compute runs the four-phase Sugiyama placement over sg and returns the
// resulting Layout. Grounded on the fireflyframework DAG's Kahn-style
// Layers() method for the longest-path layering idea, generalized here to
// per-node layer numbers plus dummy-node ordering/routing, since nothing
// in the example pack implements ordering, coordinate assignment, or edge
// routing for an arbitrary typed graph.
func Compute(sg *entities.SubGraph, opts entities.LayoutOptions) (*entities.Layout, error) {
	if sg.Size() == 0 {
		return &entities.Layout{Nodes: map[string]*entities.LayoutNode{}}, nil
	}

	layerOf := assignLayers(sg)
	realLayers := nodesByLayer(sg, layerOf)
	chains := buildChains(sg, layerOf)
	extended := extendedLayers(realLayers, chains, layerOf)
	adj := buildAdjacency(chains)
	ordered := orderLayers(extended, adj, opts.MaxSweeps)
	points := assignCoordinates(ordered, opts)

	nodes := make(map[string]*entities.LayoutNode, sg.Size())
	for layerIdx, l := range ordered {
		for order, id := range l {
			if isDummy(id) {
				continue
			}
			nodes[id] = &entities.LayoutNode{
				NodeID: id,
				Layer:  layerIdx,
				Order:  order,
				Pos:    points[id],
				Width:  opts.NodeWidth,
				Height: opts.NodeHeight,
			}
		}
	}

	edges := routeEdges(chains, points)

	return &entities.Layout{
		Nodes:       nodes,
		Edges:       edges,
		BoundingBox: boundingBox(nodes, opts),
	}, nil
}

func boundingBox(nodes map[string]*entities.LayoutNode, opts entities.LayoutOptions) entities.BoundingBox {
	if len(nodes) == 0 {
		return entities.BoundingBox{}
	}
	first := true
	var bb entities.BoundingBox
	for _, n := range nodes {
		left := n.Pos.X - opts.NodeWidth/2
		right := n.Pos.X + opts.NodeWidth/2
		top := n.Pos.Y - opts.NodeHeight/2
		bottom := n.Pos.Y + opts.NodeHeight/2
		if first {
			bb = entities.BoundingBox{MinX: left, MinY: top, MaxX: right, MaxY: bottom}
			first = false
			continue
		}
		if left < bb.MinX {
			bb.MinX = left
		}
		if top < bb.MinY {
			bb.MinY = top
		}
		if right > bb.MaxX {
			bb.MaxX = right
		}
		if bottom > bb.MaxY {
			bb.MaxY = bottom
		}
	}
	return bb
}
