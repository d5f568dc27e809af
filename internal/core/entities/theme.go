package entities

// Theme is a named set of lipgloss-style color values for the TUI and SVG
// renderers: node-kind fills, severity colors for impact/path-highlight
// overlays, and a handful of chrome colors (background, border, selection).
type Theme struct {
	Name    string
	Path    string
	D2Theme string // name of the built-in oss.terrastruct.com/d2 theme to pair with this palette
	Colors  map[string]string
	Styles  map[string]string // lipgloss style names (e.g. "border.rounded") for non-color chrome
}

// Color keys consulted by the TUI and SVG renderer. Missing keys fall back
// to the DefaultTheme's value.
const (
	ColorBackground      = "background"
	ColorBorder          = "border"
	ColorSelection       = "selection"
	ColorNodeModel       = "node.model"
	ColorNodeSource      = "node.source"
	ColorNodeSeed        = "node.seed"
	ColorNodeSnapshot    = "node.snapshot"
	ColorNodeTest        = "node.test"
	ColorNodeExposure    = "node.exposure"
	ColorNodePhantom     = "node.phantom"
	ColorSeverityCritical = "severity.critical"
	ColorSeverityHigh     = "severity.high"
	ColorSeverityMedium   = "severity.medium"
	ColorSeverityLow      = "severity.low"
)

// NewTheme constructs a named Theme seeded with DefaultTheme's colors,
// which callers then override from a parsed theme file.
func NewTheme(name string) (*Theme, error) {
	if name == "" {
		return nil, NewValidationError("Theme", "Name", "", "theme name is required", ErrEmptyName)
	}
	colors := make(map[string]string, len(defaultColors))
	for k, v := range defaultColors {
		colors[k] = v
	}
	return &Theme{Name: name, Colors: colors}, nil
}

var defaultColors = map[string]string{
	ColorBackground:       "#1e1e2e",
	ColorBorder:           "#585b70",
	ColorSelection:        "#f9e2af",
	ColorNodeModel:        "#89b4fa",
	ColorNodeSource:       "#a6e3a1",
	ColorNodeSeed:         "#94e2d5",
	ColorNodeSnapshot:     "#cba6f7",
	ColorNodeTest:         "#f5c2e7",
	ColorNodeExposure:     "#fab387",
	ColorNodePhantom:      "#6c7086",
	ColorSeverityCritical: "#f38ba8",
	ColorSeverityHigh:     "#fab387",
	ColorSeverityMedium:   "#f9e2af",
	ColorSeverityLow:      "#a6e3a1",
}

// DefaultTheme returns the built-in "neutral-default" theme.
func DefaultTheme() *Theme {
	t, _ := NewTheme("neutral-default")
	return t
}

// Color looks up a color by key, falling back to the built-in default for
// that key (and finally "" if the key is entirely unknown).
func (t *Theme) Color(key string) string {
	if t != nil {
		if c, ok := t.Colors[key]; ok {
			return c
		}
	}
	return defaultColors[key]
}
