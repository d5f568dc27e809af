package entities

// Point is a single 2-D coordinate in layout space.
type Point struct {
	X float64
	Y float64
}

// LayoutNode is a node positioned by the Sugiyama engine.
type LayoutNode struct {
	NodeID string
	Layer  int
	Order  int
	Pos    Point
	Width  float64
	Height float64
}

// LayoutEdge is an edge routed by the Sugiyama engine as an axis-aligned
// polyline: the first and last points are the source/target node centers
// (or their boundary, per renderer convention), with interior points at
// any dummy waypoints introduced because the edge spans more than one
// layer.
type LayoutEdge struct {
	FromID string
	ToID   string
	Points []Point
}

// BoundingBox describes the extent of a Layout in layout-space units.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Layout is the output of the four-phase Sugiyama placement over a
// SubGraph: positioned nodes, routed edges, and the overall bounding box.
type Layout struct {
	Nodes       map[string]*LayoutNode
	Edges       []LayoutEdge
	BoundingBox BoundingBox
}

// LayoutOptions configures Phase 3 (coordinate assignment) spacing and the
// maximum ordering sweep count for Phase 2.
type LayoutOptions struct {
	NodeWidth  float64
	NodeHeight float64
	XSpacing   float64
	YSpacing   float64
	MaxSweeps  int
}

// DefaultLayoutOptions returns the spacing/sweep defaults named by the
// layout engine's specification: 24 ordering sweeps, spacing tuned for a
// terminal-scale ASCII render.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		NodeWidth:  20,
		NodeHeight: 3,
		XSpacing:   4,
		YSpacing:   2,
		MaxSweeps:  24,
	}
}
