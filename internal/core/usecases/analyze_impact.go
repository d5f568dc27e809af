package usecases

import "github.com/madstone-tech/dbt-lineage/internal/core/entities"

// AnalyzeImpact is the concrete ImpactAnalyzer (C6), grounded on
// maraichr-codegraph's internal/impact/engine.go BFS-plus-severity-ladder
// shape, generalized from its symbol graph onto entities.Graph.
type AnalyzeImpact struct{}

// NewAnalyzeImpact returns a ready-to-use AnalyzeImpact use case.
func NewAnalyzeImpact() *AnalyzeImpact {
	return &AnalyzeImpact{}
}

// Analyze implements ImpactAnalyzer.
func (a *AnalyzeImpact) Analyze(g *entities.Graph, rootID string) (*entities.ImpactResult, error) {
	if _, ok := g.GetNode(rootID); !ok {
		return nil, &entities.NotFoundError{Entity: "Node", ID: rootID}
	}
	return entities.NewImpactResult(g, rootID), nil
}
