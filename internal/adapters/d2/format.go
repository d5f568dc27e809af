package d2

import (
	"context"
	"fmt"
	"time"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

const renderTimeoutSec = 30

// SVGRenderer implements usecases.Renderer for the "svg" format: it
// generates D2 source from sg, validates it by compiling through the real
// d2 library (Compile), then rasterizes it to SVG by shelling out to the
// d2 CLI (diagramRenderer).
type SVGRenderer struct {
	generator       *Generator
	diagramRenderer usecases.DiagramRenderer
}

// NewSVGRenderer returns an SVGRenderer styled by theme and rasterized
// through diagramRenderer (typically *Renderer from renderer.go).
func NewSVGRenderer(theme *entities.Theme, diagramRenderer usecases.DiagramRenderer) *SVGRenderer {
	return &SVGRenderer{generator: NewGenerator(theme), diagramRenderer: diagramRenderer}
}

var _ usecases.Renderer = (*SVGRenderer)(nil)

// Format implements usecases.Renderer.
func (r *SVGRenderer) Format() string { return "svg" }

// Render implements usecases.Renderer. layout is unused: the SVG is laid
// out by the d2 CLI (see renderer.go) from the generated D2 source,
// independently of the Sugiyama engine's SubGraph-level Layout.
func (r *SVGRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	src := r.generator.Generate(sg)

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeoutSec*time.Second)
	defer cancel()

	if _, err := Compile(ctx, src); err != nil {
		return nil, fmt.Errorf("d2 source invalid: %w", err)
	}

	if !r.diagramRenderer.IsAvailable() {
		return nil, fmt.Errorf("d2 binary not available for svg rendering")
	}
	svg, err := r.diagramRenderer.RenderDiagramWithTimeout(ctx, src, renderTimeoutSec)
	if err != nil {
		return nil, err
	}
	return []byte(svg), nil
}
