package layout

import "github.com/madstone-tech/dbt-lineage/internal/core/entities"

// routeEdges converts each chain into an axis-aligned polyline: between
// each pair of consecutive waypoints (real or dummy), the path travels
// vertically to the midpoint y between the two layers, horizontally across
// to the next waypoint's x, then vertically down into it.
func routeEdges(chains []chain, points map[string]entities.Point) []entities.LayoutEdge {
	edges := make([]entities.LayoutEdge, 0, len(chains))
	for _, c := range chains {
		var poly []entities.Point
		for i := 0; i+1 < len(c.nodes); i++ {
			a, aok := points[c.nodes[i]]
			b, bok := points[c.nodes[i+1]]
			if !aok || !bok {
				continue
			}
			midY := (a.Y + b.Y) / 2
			if i == 0 {
				poly = append(poly, a)
			}
			poly = append(poly, entities.Point{X: a.X, Y: midY})
			poly = append(poly, entities.Point{X: b.X, Y: midY})
			poly = append(poly, b)
		}
		edges = append(edges, entities.LayoutEdge{
			FromID: c.edge.FromID,
			ToID:   c.edge.ToID,
			Points: poly,
		})
	}
	return edges
}
