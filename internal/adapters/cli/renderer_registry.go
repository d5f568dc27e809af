package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// RendererRegistry dispatches the CLI's `-o <FMT>` flag to the matching
// usecases.Renderer, keyed by each renderer's own Format() name.
type RendererRegistry struct {
	renderers map[string]usecases.Renderer
}

// NewRendererRegistry builds a registry from the given renderers, keyed by
// each one's Format(). Later entries with the same format overwrite earlier
// ones.
func NewRendererRegistry(renderers ...usecases.Renderer) *RendererRegistry {
	reg := &RendererRegistry{renderers: make(map[string]usecases.Renderer, len(renderers))}
	for _, r := range renderers {
		reg.renderers[r.Format()] = r
	}
	return reg
}

// Get returns the renderer registered for format, or an error naming the
// known formats if none matches.
func (r *RendererRegistry) Get(format string) (usecases.Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (known: %s)", format, r.formatList())
	}
	return renderer, nil
}

// Formats returns the sorted list of registered format names.
func (r *RendererRegistry) Formats() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *RendererRegistry) formatList() string {
	return strings.Join(r.Formats(), ", ")
}
