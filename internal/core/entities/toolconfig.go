package entities

// ToolConfig is this tool's own configuration (conventionally
// dbt-lineage.toml, layered over the XDG global config by
// config.Loader.LoadConfig), as distinct from ProjectConfig, which models the dbt
// project's own dbt_project.yml.
type ToolConfig struct {
	DefaultOutput string // ascii, dot, json, mermaid, svg, html
	ManifestPath  string // override for --manifest, empty means auto-discover

	IncludeTests     bool
	IncludeSeeds     bool
	IncludeSnapshots bool
	IncludeExposures bool

	LayoutNodeWidth  float64
	LayoutNodeHeight float64
	LayoutXSpacing   float64
	LayoutYSpacing   float64
	LayoutMaxSweeps  int

	Parallel   bool
	MaxWorkers int
}

// DefaultToolConfig returns the built-in defaults applied before any
// config file or environment variable is consulted.
func DefaultToolConfig() *ToolConfig {
	opts := DefaultLayoutOptions()
	return &ToolConfig{
		DefaultOutput:    "ascii",
		LayoutNodeWidth:  opts.NodeWidth,
		LayoutNodeHeight: opts.NodeHeight,
		LayoutXSpacing:   opts.XSpacing,
		LayoutYSpacing:   opts.YSpacing,
		LayoutMaxSweeps:  opts.MaxSweeps,
		Parallel:         true,
		MaxWorkers:       4,
	}
}

// ToLayoutOptions projects the layout-relevant fields of ToolConfig into a
// LayoutOptions value for the layout engine.
func (c *ToolConfig) ToLayoutOptions() LayoutOptions {
	return LayoutOptions{
		NodeWidth:  c.LayoutNodeWidth,
		NodeHeight: c.LayoutNodeHeight,
		XSpacing:   c.LayoutXSpacing,
		YSpacing:   c.LayoutYSpacing,
		MaxSweeps:  c.LayoutMaxSweeps,
	}
}
