// Package html builds the single-page HTML report used by `-o html`: an
// embedded SVG diagram (rendered by the d2 adapter) plus pan/zoom
// chrome and a sidebar node list with incremental search.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Builder implements usecases.Renderer for the "html" format by wrapping
// another Renderer's SVG output (typically d2.SVGRenderer) in a
// standalone document.
type Builder struct {
	svgRenderer usecases.Renderer
}

// NewBuilder returns a Builder that embeds svgRenderer's output. svgRenderer
// must implement the "svg" format.
func NewBuilder(svgRenderer usecases.Renderer) *Builder {
	return &Builder{svgRenderer: svgRenderer}
}

var _ usecases.Renderer = (*Builder)(nil)

// Format implements usecases.Renderer.
func (b *Builder) Format() string { return "html" }

// Render implements usecases.Renderer, producing a complete standalone
// HTML document.
func (b *Builder) Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error) {
	svg, err := b.svgRenderer.Render(sg, layout)
	if err != nil {
		return nil, fmt.Errorf("render svg for html report: %w", err)
	}

	data := pageData{
		Title: "dbt lineage — " + sg.FocusID,
		SVG:   template.HTML(svg), // d2-generated SVG, not user input
		Nodes: nodeRows(sg),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html page: %w", err)
	}
	return buf.Bytes(), nil
}

type pageData struct {
	Title string
	SVG   template.HTML
	Nodes []nodeRow
}

type nodeRow struct {
	ID   string
	Name string
	Kind string
}

func nodeRows(sg *entities.SubGraph) []nodeRow {
	ids := sg.SortedIDs()
	rows := make([]nodeRow, 0, len(ids))
	for _, id := range ids {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		rows = append(rows, nodeRow{ID: node.ID, Name: node.Name, Kind: string(node.Kind)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

var pageTmpl = template.Must(template.New("report").Parse(pageTmplSrc))

const pageTmplSrc = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  :root { color-scheme: dark; }
  body { margin: 0; display: flex; height: 100vh; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; background: #1e1e2e; color: #cdd6f4; }
  #sidebar { width: 280px; overflow-y: auto; border-right: 1px solid #45475a; padding: 0.5rem; box-sizing: border-box; }
  #search { width: 100%; box-sizing: border-box; padding: 0.4rem; margin-bottom: 0.5rem; background: #313244; color: #cdd6f4; border: 1px solid #45475a; border-radius: 4px; }
  #nodeList { list-style: none; margin: 0; padding: 0; }
  #nodeList li { padding: 0.25rem 0.4rem; border-radius: 4px; cursor: default; font-size: 0.85rem; }
  #nodeList li.hidden { display: none; }
  #nodeList .kind { color: #9399b2; font-size: 0.75rem; }
  #viewport { flex: 1; overflow: hidden; position: relative; cursor: grab; }
  #viewport.dragging { cursor: grabbing; }
  #canvas { transform-origin: 0 0; position: absolute; }
</style>
</head>
<body>
  <div id="sidebar">
    <input id="search" type="search" placeholder="Search nodes...">
    <ul id="nodeList">
      {{- range .Nodes}}
      <li data-search="{{.ID}} {{.Name}} {{.Kind}}">{{.Name}} <span class="kind">{{.Kind}}</span></li>
      {{- end}}
    </ul>
  </div>
  <div id="viewport">
    <div id="canvas">{{.SVG}}</div>
  </div>
<script>
(function() {
  "use strict";
  var viewport = document.getElementById("viewport");
  var canvas = document.getElementById("canvas");
  var scale = 1, x = 0, y = 0, dragging = false, lastX = 0, lastY = 0;

  function apply() {
    canvas.style.transform = "translate(" + x + "px," + y + "px) scale(" + scale + ")";
  }

  viewport.addEventListener("wheel", function(e) {
    e.preventDefault();
    var factor = e.deltaY < 0 ? 1.1 : 0.9;
    scale = Math.min(8, Math.max(0.1, scale * factor));
    apply();
  }, { passive: false });

  viewport.addEventListener("mousedown", function(e) {
    dragging = true;
    lastX = e.clientX; lastY = e.clientY;
    viewport.classList.add("dragging");
  });
  window.addEventListener("mousemove", function(e) {
    if (!dragging) return;
    x += e.clientX - lastX;
    y += e.clientY - lastY;
    lastX = e.clientX; lastY = e.clientY;
    apply();
  });
  window.addEventListener("mouseup", function() {
    dragging = false;
    viewport.classList.remove("dragging");
  });

  var search = document.getElementById("search");
  var items = document.querySelectorAll("#nodeList li");
  search.addEventListener("input", function() {
    var term = search.value.toLowerCase();
    items.forEach(function(li) {
      var hay = (li.getAttribute("data-search") || "").toLowerCase();
      li.classList.toggle("hidden", term !== "" && hay.indexOf(term) === -1);
    });
  });
})();
</script>
</body>
</html>
`
