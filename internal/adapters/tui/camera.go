package tui

import "math"

// Fixed viewport pan/zoom constants: H/J/K/L pan by panStep layout units
// per press, +/- multiply or divide zoom by zoomStep, clamped to
// [zoomMin, zoomMax].
const (
	zoomMin  = 0.25
	zoomMax  = 4.0
	zoomStep = 1.2
	panStep  = 4.0
)

// direction is one of the four spatial-selection/pan directions.
type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

// camera is the TUI viewport's {cx, cy, zoom} state, in layout-space
// units. cx/cy address the top-left corner of the visible window; zoom
// scales the Sugiyama engine's node/edge spacing before each relayout.
type camera struct {
	cx, cy float64
	zoom   float64
}

func newCamera() camera {
	return camera{zoom: 1.0}
}

func (c *camera) zoomIn() {
	c.zoom = math.Min(zoomMax, c.zoom*zoomStep)
}

func (c *camera) zoomOut() {
	c.zoom = math.Max(zoomMin, c.zoom/zoomStep)
}

func (c *camera) panLeft()  { c.cx -= panStep }
func (c *camera) panRight() { c.cx += panStep }
func (c *camera) panUp()    { c.cy -= panStep }
func (c *camera) panDown()  { c.cy += panStep }

func (c *camera) reset() {
	*c = newCamera()
}

func (c *camera) clampNonNegative() {
	if c.cx < 0 {
		c.cx = 0
	}
	if c.cy < 0 {
		c.cy = 0
	}
}
