// Package sugiyama adapts internal/layout's four-phase placement to the
// LayoutEngine port.
package sugiyama

import (
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/layout"
)

// Engine is the concrete LayoutEngine (C9) used for the ASCII/TUI viewport
// and the JSON layout payload.
type Engine struct{}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Layout implements LayoutEngine.
func (e *Engine) Layout(sg *entities.SubGraph, opts entities.LayoutOptions) (*entities.Layout, error) {
	return layout.Compute(sg, opts)
}
