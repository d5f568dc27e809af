// Package cmd implements the dbt-lineage CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/cli"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/config"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/d2"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/encoding"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/renderers"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// Root flag values, shared with the impact/diff subcommands.
var (
	ProjectRoot string
	Verbose     bool

	flagUpstream   int
	flagDownstream int
	flagInteractive bool
	flagOutput     string
	flagSelector   string
	flagManifest   string
	flagPDF        string
	flagIncludeTests     bool
	flagIncludeSeeds     bool
	flagIncludeSnapshots bool
	flagIncludeExposures bool
)

// rootCmd is the base command: `dbt-lineage [MODEL] [flags]` renders the
// dependency graph (optionally focused on MODEL) in the requested format.
var rootCmd = &cobra.Command{
	Use:   "dbt-lineage [MODEL]",
	Short: "Visualize and analyze a dbt project's dependency graph",
	Long: `dbt-lineage builds a typed dependency graph from a dbt project's
models, sources, seeds, snapshots, tests, and exposures, then renders,
filters, or interactively explores it.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&ProjectRoot, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().IntVarP(&flagUpstream, "upstream", "u", 0, "upstream hop depth from the focus model")
	rootCmd.Flags().IntVarP(&flagDownstream, "downstream", "d", 0, "downstream hop depth from the focus model")
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "open the interactive TUI explorer")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output format: ascii, dot, json, mermaid, svg, html, toon")
	rootCmd.Flags().StringVarP(&flagSelector, "selector", "s", "", "comma-separated selector (tag:X, path:Y, or bare name atoms)")
	rootCmd.Flags().StringVar(&flagManifest, "manifest", "", "path to a compiled manifest.json (skips the SQL/YAML scan)")
	rootCmd.Flags().StringVar(&flagPDF, "pdf", "", "render the HTML report to this PDF path via veve-cli, instead of the usual output")
	rootCmd.Flags().BoolVar(&flagIncludeTests, "include-tests", false, "include test nodes")
	rootCmd.Flags().BoolVar(&flagIncludeSeeds, "include-seeds", false, "include seed nodes")
	rootCmd.Flags().BoolVar(&flagIncludeSnapshots, "include-snapshots", false, "include snapshot nodes")
	rootCmd.Flags().BoolVar(&flagIncludeExposures, "include-exposures", false, "include exposure nodes")
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
	return nil
}

// SetVersionInfo sets build-time version information from ldflags.
// Call this from main.go before Execute().
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("dbt-lineage %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

// kindInclude builds a usecases.KindInclude from the root command's
// --include-* flags.
func kindInclude() usecases.KindInclude {
	return usecases.KindInclude{
		Tests:     flagIncludeTests,
		Seeds:     flagIncludeSeeds,
		Snapshots: flagIncludeSnapshots,
		Exposures: flagIncludeExposures,
	}
}

// newRendererRegistry wires every usecases.Renderer implementation behind
// one name-keyed registry for the root command's `-o` flag. The impact and
// diff subcommands do not use it; their `-o json` output goes through
// encoding.Encoder directly.
func newRendererRegistry() *cli.RendererRegistry {
	theme := entities.DefaultTheme()
	diagramRenderer := d2.NewRenderer()
	svgRenderer := d2.NewSVGRenderer(theme, diagramRenderer)

	return cli.NewRendererRegistry(
		renderers.NewAsciiRenderer(),
		renderers.NewDotRenderer(),
		renderers.NewJSONRenderer(),
		renderers.NewMermaidRenderer(),
		svgRenderer,
		htmlBuilder(svgRenderer),
	)
}

// loadToolConfig reads dbt-lineage.toml (project + XDG global), falling
// back to built-in defaults on any read error (a missing config file is
// not fatal; a malformed one falls back to defaults, with a warning on
// stderr only when --verbose is set).
func loadToolConfig(cmd *cobra.Command, projectRoot string) *entities.ToolConfig {
	paths := config.NewXDGPathResolver()
	loader := config.NewLoader(paths)
	toolConfig, err := loader.LoadConfig(cmd.Context(), projectRoot)
	if err != nil {
		if Verbose {
			fmt.Fprintf(os.Stderr, "warning: failed to load dbt-lineage.toml, using defaults: %v\n", err)
		}
		return entities.DefaultToolConfig()
	}
	return toolConfig
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	toolConfig := loadToolConfig(cmd, ProjectRoot)

	format := flagOutput
	if format == "" {
		format = toolConfig.DefaultOutput
	}

	manifestPath := resolveManifestPath(flagManifest, toolConfig.ManifestPath, ProjectRoot)

	g, stats, err := buildGraph(ctx, buildOptions{
		projectRoot:  ProjectRoot,
		manifestPath: manifestPath,
		include:      kindInclude(),
	})
	if err != nil {
		return err
	}
	stats.Format = format

	sg, err := filterGraph(g, args, toolConfig)
	if err != nil {
		return err
	}

	reporter := cli.NewReportFormatter()
	if Verbose {
		reporter.PrintBuildReport(stats)
	}

	if flagInteractive {
		return runInteractiveTUI(ctx, sg, toolConfig)
	}

	if flagPDF != "" {
		return renderPDFReport(ctx, sg, flagPDF)
	}

	if format == "toon" {
		return printGraphSummaryTOON(sg)
	}

	return renderAndPrint(sg, toolConfig, format)
}

// printGraphSummaryTOON prints a token-efficient node/edge count summary of
// sg, for LLM-facing shells that pipe the CLI's output into a prompt.
func printGraphSummaryTOON(sg *entities.SubGraph) error {
	summary := encoding.GraphSummary{
		NodeCount: len(sg.SortedIDs()),
		EdgeCount: len(sg.Edges),
	}
	for _, id := range sg.SortedIDs() {
		node, ok := sg.GetNode(id)
		if !ok {
			continue
		}
		switch node.Kind {
		case entities.KindModel:
			summary.ModelCount++
		case entities.KindSource:
			summary.SourceCount++
		case entities.KindPhantom:
			summary.PhantomCount++
			summary.PhantomNames = append(summary.PhantomNames, id)
		}
	}

	fmt.Println(encoding.FormatGraphTOON(summary))
	return nil
}

// filterGraph applies the root command's focus/selector flags to produce
// the SubGraph that gets rendered: a selector expression if -s was given,
// a focus+depth walk if a MODEL positional argument was given, or the
// whole graph (unbounded depth, no focus) otherwise.
func filterGraph(g *entities.Graph, args []string, toolConfig *entities.ToolConfig) (*entities.SubGraph, error) {
	filter := usecases.NewFilterSubgraph()

	if flagSelector != "" {
		return filter.FilterBySelector(g, flagSelector)
	}
	if len(args) == 1 {
		upstream := depthOrInfinite(flagUpstream)
		downstream := depthOrInfinite(flagDownstream)
		return filter.FilterByFocus(g, args[0], upstream, downstream)
	}
	return &entities.SubGraph{
		Graph:           g,
		UpstreamDepth:   entities.InfiniteDepth,
		DownstreamDepth: entities.InfiniteDepth,
	}, nil
}

// depthOrInfinite maps a negative depth flag to InfiniteDepth and passes
// any other value through unchanged. The flags default to 0, which stops
// the walk at the focus node in that direction, matching dbt's own
// `-u 0`/`-d 0`; cobra can't distinguish "unset" from "0" for an int flag,
// so 0 is accepted literally here per spec's example `-u 1 -d 0`.
func depthOrInfinite(n int) int {
	if n < 0 {
		return entities.InfiniteDepth
	}
	return n
}

func renderAndPrint(sg *entities.SubGraph, toolConfig *entities.ToolConfig, format string) error {
	registry := newRendererRegistry()
	renderer, err := registry.Get(format)
	if err != nil {
		return err
	}

	var layout *entities.Layout
	if format == "ascii" || format == "json" {
		engine := sugiyamaEngine()
		layout, err = engine.Layout(sg, toolConfig.ToLayoutOptions())
		if err != nil {
			return err
		}
	}

	out, err := renderer.Render(sg, layout)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
