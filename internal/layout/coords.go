package layout

import "github.com/madstone-tech/dbt-lineage/internal/core/entities"

// coordinate assignment centers each layer's nodes around a common x-axis
// midpoint and places layer l at y = l * y_spacing, per the layout
// contract: layer assignment must satisfy layer(v) > layer(u) for every
// edge u -> v, and nodes sit at y = layer * y_spacing.
func assignCoordinates(ordered [][]string, opts entities.LayoutOptions) map[string]entities.Point {
	points := make(map[string]entities.Point)

	maxWidth := 0
	for _, l := range ordered {
		if len(l) > maxWidth {
			maxWidth = len(l)
		}
	}
	centerX := float64(maxWidth-1) * opts.XSpacing / 2

	for layerIdx, l := range ordered {
		layerWidth := float64(len(l)-1) * opts.XSpacing
		startX := centerX - layerWidth/2
		y := float64(layerIdx) * opts.YSpacing
		for i, id := range l {
			points[id] = entities.Point{
				X: startX + float64(i)*opts.XSpacing,
				Y: y,
			}
		}
	}
	return points
}
