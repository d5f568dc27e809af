package cmd

import (
	"github.com/madstone-tech/dbt-lineage/internal/adapters/html"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/sugiyama"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// sugiyamaEngine returns the concrete LayoutEngine used by the ascii/json
// renderers and the TUI viewport.
func sugiyamaEngine() usecases.LayoutEngine {
	return sugiyama.NewEngine()
}

// htmlBuilder wraps svgRenderer in the single-page HTML report builder.
func htmlBuilder(svgRenderer usecases.Renderer) usecases.Renderer {
	return html.NewBuilder(svgRenderer)
}
