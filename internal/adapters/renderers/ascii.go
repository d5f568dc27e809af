package renderers

import (
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// AsciiRenderer implements usecases.Renderer for the "ascii" format: a
// box-drawing projection of a computed Layout onto a character grid, used
// both by `-o ascii` and the TUI's own viewport.
type AsciiRenderer struct{}

// NewAsciiRenderer returns a ready-to-use AsciiRenderer.
func NewAsciiRenderer() *AsciiRenderer { return &AsciiRenderer{} }

var _ usecases.Renderer = (*AsciiRenderer)(nil)

// Format implements usecases.Renderer.
func (r *AsciiRenderer) Format() string { return "ascii" }

// Render implements usecases.Renderer. It requires a non-nil layout
// (callers run LayoutEngine.Layout first); an empty or nil layout renders
// to an empty canvas.
func (r *AsciiRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	if layout == nil || len(layout.Nodes) == 0 {
		return []byte{}, nil
	}

	c := newCanvas(layout.BoundingBox)
	for _, e := range layout.Edges {
		c.drawEdge(e.Points)
	}
	for _, id := range sg.SortedIDs() {
		n, ok := layout.Nodes[id]
		if !ok {
			continue
		}
		node, _ := sg.GetNode(id)
		label := id
		if node != nil {
			label = node.Name
		}
		c.drawBox(n, label)
	}

	return []byte(c.render()), nil
}

// canvas is a fixed-size character grid addressed in layout-space
// coordinates (float64, origin at BoundingBox.MinX/MinY).
type canvas struct {
	rows       [][]rune
	offX, offY float64
}

func newCanvas(bb entities.BoundingBox) *canvas {
	width := int(bb.MaxX-bb.MinX) + 2
	height := int(bb.MaxY-bb.MinY) + 2
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	rows := make([][]rune, height)
	for i := range rows {
		rows[i] = make([]rune, width)
		for j := range rows[i] {
			rows[i][j] = ' '
		}
	}
	return &canvas{rows: rows, offX: bb.MinX, offY: bb.MinY}
}

func (c *canvas) set(x, y float64, ch rune) {
	col := int(x - c.offX)
	row := int(y - c.offY)
	if row < 0 || row >= len(c.rows) || col < 0 || col >= len(c.rows[row]) {
		return
	}
	c.rows[row][col] = ch
}

// drawEdge draws an axis-aligned polyline through points, per the
// LayoutEdge routing contract (vertical/horizontal segments only).
func (c *canvas) drawEdge(points []entities.Point) {
	for i := 1; i < len(points); i++ {
		c.drawSegment(points[i-1], points[i])
	}
}

func (c *canvas) drawSegment(a, b entities.Point) {
	if a.Y == b.Y {
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		for x := lo; x <= hi; x++ {
			c.set(x, a.Y, '-')
		}
		return
	}
	lo, hi := a.Y, b.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	for y := lo; y <= hi; y++ {
		c.set(a.X, y, '|')
	}
}

func (c *canvas) drawBox(n *entities.LayoutNode, label string) {
	left := n.Pos.X - n.Width/2
	top := n.Pos.Y - n.Height/2
	right := left + n.Width - 1
	bottom := top + n.Height - 1

	for x := left; x <= right; x++ {
		c.set(x, top, '-')
		c.set(x, bottom, '-')
	}
	for y := top; y <= bottom; y++ {
		c.set(left, y, '|')
		c.set(right, y, '|')
	}
	c.set(left, top, '+')
	c.set(right, top, '+')
	c.set(left, bottom, '+')
	c.set(right, bottom, '+')

	text := label
	if maxLen := int(n.Width) - 2; maxLen > 0 && len(text) > maxLen {
		text = text[:maxLen]
	}
	startX := n.Pos.X - float64(len(text))/2
	for i, ch := range text {
		c.set(startX+float64(i), n.Pos.Y, ch)
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	for _, row := range c.rows {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteString("\n")
	}
	return b.String()
}
