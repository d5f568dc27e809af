package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/d2"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/pdf"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// renderPDFReport renders sg as a standalone HTML report (the same
// document the `-o html` path produces) to a scratch file, then shells
// out to veve-cli via the pdf adapter to convert it to outPath.
func renderPDFReport(ctx context.Context, sg *entities.SubGraph, outPath string) error {
	renderer := pdf.NewRenderer()
	if !renderer.IsAvailable() {
		return pdf.ErrPDFNotAvailable
	}

	theme := entities.DefaultTheme()
	svgRenderer := d2.NewSVGRenderer(theme, d2.NewRenderer())
	html := htmlBuilder(svgRenderer)

	// D2's SVGRenderer never dereferences the layout argument (it lays
	// itself out internally), so html.Render is safe with a nil layout.
	out, err := html.Render(sg, nil)
	if err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}

	tmp, err := os.CreateTemp("", "dbt-lineage-*.html")
	if err != nil {
		return fmt.Errorf("creating scratch HTML file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("writing scratch HTML file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing scratch HTML file: %w", err)
	}

	return renderer.RenderPDF(ctx, tmp.Name(), outPath)
}
