// Package renderers implements the non-interactive usecases.Renderer
// output formats specified directly by spec.md's `-o` flag: ascii, dot,
// json, and mermaid. (svg lives in internal/adapters/d2, which needs the
// external d2 dependency, and html in internal/adapters/html, which wraps
// the svg output; these four need only the standard library
// and the Sugiyama Layout already computed by internal/layout.)
package renderers

import (
	"encoding/json"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// schemaVersion is the JSON wire format version named by spec.md §6
// ("Wire formats... {schema_version: 1, ...}").
const schemaVersion = 1

type graphPayload struct {
	SchemaVersion int            `json:"schema_version"`
	Nodes         []nodePayload  `json:"nodes"`
	Edges         []edgePayload  `json:"edges"`
	Layout        *layoutPayload `json:"layout,omitempty"`
}

type nodePayload struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Kind            entities.NodeKind `json:"kind"`
	Path            string            `json:"path,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Description     string            `json:"description,omitempty"`
	Materialization string            `json:"materialization,omitempty"`
	RunStatus       string            `json:"run_status,omitempty"`
}

type edgePayload struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	Kind entities.EdgeKind `json:"kind"`
}

type layoutPayload struct {
	Nodes       map[string]layoutNodePayload `json:"nodes"`
	Edges       []layoutEdgePayload          `json:"edges"`
	BoundingBox entities.BoundingBox         `json:"bounding_box"`
}

type layoutNodePayload struct {
	Layer int           `json:"layer"`
	Order int           `json:"order"`
	Pos   entities.Point `json:"pos"`
}

type layoutEdgePayload struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Points []entities.Point `json:"points"`
}

// JSONRenderer implements usecases.Renderer for the "json" format.
type JSONRenderer struct{}

// NewJSONRenderer returns a ready-to-use JSONRenderer.
func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

var _ usecases.Renderer = (*JSONRenderer)(nil)

// Format implements usecases.Renderer.
func (r *JSONRenderer) Format() string { return "json" }

// Render implements usecases.Renderer, producing the schema-versioned
// graph payload named by spec.md §6.
func (r *JSONRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	payload := graphPayload{SchemaVersion: schemaVersion}

	for _, id := range sg.SortedIDs() {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		payload.Nodes = append(payload.Nodes, nodePayload{
			ID:              node.ID,
			Name:            node.Name,
			Kind:            node.Kind,
			Path:            node.Path,
			Tags:            node.Tags,
			Description:     node.Description,
			Materialization: string(node.Materialization),
			RunStatus:       string(node.RunStatus),
		})
	}
	for _, e := range sg.Edges {
		payload.Edges = append(payload.Edges, edgePayload{From: e.FromID, To: e.ToID, Kind: e.Kind})
	}

	if layout != nil {
		lp := &layoutPayload{
			Nodes:       make(map[string]layoutNodePayload, len(layout.Nodes)),
			BoundingBox: layout.BoundingBox,
		}
		for id, ln := range layout.Nodes {
			lp.Nodes[id] = layoutNodePayload{Layer: ln.Layer, Order: ln.Order, Pos: ln.Pos}
		}
		for _, le := range layout.Edges {
			lp.Edges = append(lp.Edges, layoutEdgePayload{From: le.FromID, To: le.ToID, Points: le.Points})
		}
		payload.Layout = lp
	}

	return json.MarshalIndent(payload, "", "  ")
}
