// Package pdf converts a rendered dbt-lineage HTML report to PDF by
// shelling out to veve-cli, for the `--pdf` flag's offline-sharing path.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrPDFNotAvailable indicates the veve-cli binary is not installed.
var ErrPDFNotAvailable = fmt.Errorf("veve-cli is not installed or not in PATH")

// Renderer implements usecases.PDFRenderer by shelling out to veve-cli.
type Renderer struct {
	vevePath string
}

// NewRenderer builds a Renderer, resolving veve-cli from PATH eagerly so
// IsAvailable needs no further lookups.
func NewRenderer() *Renderer {
	vevePath, _ := exec.LookPath("veve-cli")
	return &Renderer{vevePath: vevePath}
}

// RenderPDF converts the HTML report at htmlPath (produced by the html
// renderer) into a PDF at outputPath via `veve-cli html-to-pdf`.
func (r *Renderer) RenderPDF(ctx context.Context, htmlPath string, outputPath string) error {
	if !r.IsAvailable() {
		return ErrPDFNotAvailable
	}

	if _, err := os.Stat(htmlPath); os.IsNotExist(err) {
		return fmt.Errorf("HTML file does not exist: %s", htmlPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.vevePath, "html-to-pdf", htmlPath, outputPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("veve-cli failed: %w\nOutput: %s", err, string(output))
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		return fmt.Errorf("PDF file was not created: %s", outputPath)
	}

	return nil
}

// IsAvailable checks if the veve-cli binary is installed and accessible.
func (r *Renderer) IsAvailable() bool {
	return r.vevePath != ""
}

// Version returns the veve-cli version if available.
func (r *Renderer) Version() (string, error) {
	if !r.IsAvailable() {
		return "", ErrPDFNotAvailable
	}

	cmd := exec.Command(r.vevePath, "--version")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get veve-cli version: %w", err)
	}

	return string(output), nil
}
