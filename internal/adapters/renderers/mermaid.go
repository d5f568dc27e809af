package renderers

import (
	"strings"
	"text/template"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

const mermaidTmplSrc = `graph BT
{{- range .Nodes}}
  {{.ID}}["{{.Name}}"]:::{{.Class}}
{{- end}}
{{- range .Edges}}
  {{.From}} {{.Arrow}} {{.To}}
{{- end}}
  classDef model fill:#89b4fa,stroke:#1e1e2e;
  classDef source fill:#a6e3a1,stroke:#1e1e2e;
  classDef seed fill:#94e2d5,stroke:#1e1e2e;
  classDef snapshot fill:#cba6f7,stroke:#1e1e2e;
  classDef test fill:#f5c2e7,stroke:#1e1e2e;
  classDef exposure fill:#fab387,stroke:#1e1e2e;
  classDef phantom fill:#6c7086,stroke:#1e1e2e,stroke-dasharray: 3 3;
`

var mermaidTmpl = template.Must(template.New("mermaid").Parse(mermaidTmplSrc))

type mermaidNode struct {
	ID    string
	Name  string
	Class string
}

type mermaidEdge struct {
	From  string
	To    string
	Arrow string
}

type mermaidData struct {
	Nodes []mermaidNode
	Edges []mermaidEdge
}

// MermaidRenderer implements usecases.Renderer for the "mermaid" format,
// producing a `graph BT` flowchart with per-kind classDef styling.
type MermaidRenderer struct{}

// NewMermaidRenderer returns a ready-to-use MermaidRenderer.
func NewMermaidRenderer() *MermaidRenderer { return &MermaidRenderer{} }

var _ usecases.Renderer = (*MermaidRenderer)(nil)

// Format implements usecases.Renderer.
func (r *MermaidRenderer) Format() string { return "mermaid" }

// Render implements usecases.Renderer. layout is unused: Mermaid performs
// its own client-side layout of the flowchart it is given.
func (r *MermaidRenderer) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	data := mermaidData{}
	for _, id := range sg.SortedIDs() {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		data.Nodes = append(data.Nodes, mermaidNode{
			ID:    mermaidID(id),
			Name:  node.Name,
			Class: strings.ToLower(string(node.Kind)),
		})
	}
	for _, e := range sg.Edges {
		arrow := "-->"
		if e.Kind == entities.EdgeSource {
			arrow = "-.->"
		}
		data.Edges = append(data.Edges, mermaidEdge{From: mermaidID(e.FromID), To: mermaidID(e.ToID), Arrow: arrow})
	}

	var b strings.Builder
	if err := mermaidTmpl.Execute(&b, data); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// mermaidID replaces characters Mermaid node ids cannot contain (dots)
// with underscores; dbt node ids like "source.raw.orders" would otherwise
// be read as nested subgraph references.
func mermaidID(id string) string {
	return strings.ReplaceAll(id, ".", "_")
}
