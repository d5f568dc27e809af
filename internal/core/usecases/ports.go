package usecases

import (
	"context"
	"time"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// ProjectLoader locates a dbt project root and reads its dbt_project.yml
// (C1).
type ProjectLoader interface {
	// LoadProject reads <projectRoot>/dbt_project.yml and returns the
	// path lists (with defaults applied for omitted keys). Returns a
	// *entities.ProjectError if the file is absent or malformed.
	LoadProject(ctx context.Context, projectRoot string) (*entities.ProjectConfig, error)
}

// SQLYAMLExtractor scans a project's source directories for `.sql` and
// `.yml`/`.yaml` files and extracts nodes and edges from them (C2).
type SQLYAMLExtractor interface {
	// Extract walks the given directories (already resolved against
	// ProjectConfig's path lists) and returns the nodes and edges it
	// found. Per-file read and parse failures are skipped silently,
	// never fatal, and no warning is reported; the affected node (if
	// any) is preserved without the metadata that file would have
	// contributed.
	Extract(ctx context.Context, projectRoot string, dirs []string) (ExtractResult, error)
}

// ExtractResult is the raw node/edge output of either C2 or C3, before
// unification by the graph builder.
type ExtractResult struct {
	Nodes []*entities.Node
	Edges []entities.Edge
	// Authoritative marks edges whose source is considered the
	// ground truth for metadata when merging with the other extractor's
	// output (manifest edges are authoritative over SQL-scan edges).
	Authoritative bool
	// ContentHashes holds the SHA-256 hex digest of each model's raw SQL
	// text, keyed by node id, for the diff engine's modified-node
	// detection. Populated by SQLYAMLExtractor; empty from a manifest
	// load that was not paired with the raw files.
	ContentHashes map[string]string
}

// ManifestLoader parses a compiled dbt manifest.json (and, optionally,
// catalog.json and run_results.json alongside it) as an alternative node
// and edge source (C3).
type ManifestLoader interface {
	// LoadManifest reads manifest.json at manifestPath and returns the
	// same ExtractResult shape as SQLYAMLExtractor, with Authoritative
	// set to true. Returns *entities.ManifestMalformedError on a
	// corrupt or schema-incompatible file.
	LoadManifest(ctx context.Context, manifestPath string) (ExtractResult, error)

	// LoadCatalog reads catalog.json (if present alongside the
	// manifest) and returns column type/comment metadata keyed by node
	// id. The graph build path does not call it, so built nodes carry
	// no catalog column metadata.
	LoadCatalog(ctx context.Context, catalogPath string) (map[string][]entities.Column, error)

	// LoadRunResults reads run_results.json and returns run status
	// keyed by node id, for refreshing Node.RunStatus.
	LoadRunResults(ctx context.Context, runResultsPath string) (map[string]entities.RunStatus, error)
}

// GraphBuilder unifies the outputs of C2/C3 into one acyclic typed graph
// (C4).
type GraphBuilder interface {
	// Build merges results (in order; later results' metadata wins on
	// conflict if marked Authoritative, otherwise the union of edges is
	// kept), synthesizes Phantom nodes for unresolved edge targets, and
	// validates the result is acyclic. Returns *entities.GraphCyclicError
	// on a cycle; never returns a partially-built graph on error.
	Build(ctx context.Context, results ...ExtractResult) (*entities.Graph, error)
}

// SelectorFilter produces a SubGraph from a Graph via focus+depth,
// selector expressions, or kind-inclusion flags (C5).
type SelectorFilter interface {
	// FilterByFocus restricts g to nodes within upstreamDepth/
	// downstreamDepth hops of focusID.
	FilterByFocus(g *entities.Graph, focusID string, upstreamDepth, downstreamDepth int) (*entities.SubGraph, error)

	// FilterBySelector parses a comma-separated selector expression
	// (tag:X, path:Y, or bare name atoms, OR'd together) and returns the
	// subgraph of matching nodes plus edges whose endpoints both match.
	// Returns *entities.SelectorSyntaxError for a malformed expression.
	FilterBySelector(g *entities.Graph, selector string) (*entities.SubGraph, error)

	// FilterByKind removes nodes of kinds not enabled by include, along
	// with their incident edges.
	FilterByKind(g *entities.Graph, include KindInclude) *entities.Graph
}

// KindInclude toggles inclusion of optional node kinds; Model, Source, and
// Phantom nodes are always retained.
type KindInclude struct {
	Tests     bool
	Seeds     bool
	Snapshots bool
	Exposures bool
}

// ImpactAnalyzer performs downstream BFS with severity classification from
// a root node (C6).
type ImpactAnalyzer interface {
	Analyze(g *entities.Graph, rootID string) (*entities.ImpactResult, error)
}

// DiffEngine materializes two VCS revisions of a project and computes the
// set difference between their graphs (C7).
type DiffEngine interface {
	// Diff builds the graph at baseRef and headRef (headRef == "" means
	// the working tree) and returns the computed Diff. Returns
	// *entities.VcsUnavailableError if git cannot be located, or
	// *entities.RevisionNotFoundError if a ref does not resolve.
	Diff(ctx context.Context, projectRoot, baseRef, headRef string) (*entities.Diff, error)
}

// VCSMaterializer checks out a project revision into a scratch directory
// for the diff engine (C7), shelling out to git.
type VCSMaterializer interface {
	// Materialize returns a filesystem path holding projectRoot's contents
	// as of ref ("" means the current working tree, used unmodified with
	// no copy). cleanup removes any scratch directory Materialize created;
	// callers must always invoke it. Returns *entities.VcsUnavailableError
	// if git is not on PATH or projectRoot is not a repository, or
	// *entities.RevisionNotFoundError if ref does not resolve.
	Materialize(ctx context.Context, projectRoot, ref string) (path string, cleanup func(), err error)
}

// ColumnLineageResolver performs best-effort lexical SQL parsing to
// attribute output columns to upstream provenance (C8).
type ColumnLineageResolver interface {
	// ResolveColumn traces nodeID.column back through its SELECT list to
	// upstream (node, column) pairs. Parse failures are non-fatal and
	// yield a ColumnLineage with empty Sources.
	ResolveColumn(g *entities.Graph, nodeID, column string) (*entities.ColumnLineage, error)

	// ResolveAllColumns resolves every declared output column of nodeID.
	ResolveAllColumns(g *entities.Graph, nodeID string) ([]*entities.ColumnLineage, error)
}

// LayoutEngine computes a Sugiyama-style layered layout over a SubGraph
// (C9).
type LayoutEngine interface {
	Layout(sg *entities.SubGraph, opts entities.LayoutOptions) (*entities.Layout, error)
}

// Renderer projects a laid-out graph into one of the output formats named
// by the CLI's `-o` flag (C10). Each concrete renderer implements exactly
// one format; RendererRegistry (in the cli adapter) dispatches by name.
type Renderer interface {
	// Format returns the format name this renderer handles (ascii, dot,
	// json, mermaid, svg, html).
	Format() string

	// Render produces the textual (or binary-as-bytes) representation
	// of sg laid out by layout.
	Render(sg *entities.SubGraph, layout *entities.Layout) ([]byte, error)
}

// RunOrchestrator detects an available dbt runner and spawns dbt
// subprocesses, streaming output and refreshing run status (C12).
type RunOrchestrator interface {
	// DetectRunner picks a command line prefix for invoking dbt in
	// projectRoot, per the uv.lock/pyproject.toml/PATH precedence.
	// Returns *entities.RunnerNotFoundError if none is available.
	DetectRunner(projectRoot string) (RunnerCommand, error)

	// Run spawns `<runner> run -s <scope>` (or `test` for RunTest),
	// streaming stdout lines to the returned channel, which is closed
	// when the subprocess exits. The channel's final value, if any, is
	// an empty string immediately preceding closure to simplify
	// detecting completion in select loops.
	Run(ctx context.Context, runner RunnerCommand, action RunAction, scope string) (<-chan string, <-chan error)

	// RefreshRunStatus re-reads target/run_results.json under
	// projectRoot and applies RunStatus updates to g's nodes in place.
	RefreshRunStatus(ctx context.Context, g *entities.Graph, projectRoot string) error
}

// RunnerCommand is the resolved command + leading args used to invoke dbt,
// e.g. {Command: "uv", Args: []string{"run", "dbt"}}.
type RunnerCommand struct {
	Command string
	Args    []string
}

// RunAction selects which dbt subcommand Run invokes.
type RunAction string

const (
	RunActionRun  RunAction = "run"
	RunActionTest RunAction = "test"
)

// FileWatcher monitors the filesystem for changes relevant to the TUI:
// run_results.json updates and SQL file edits.
type FileWatcher interface {
	// Watch starts monitoring rootPath for changes, sending events to
	// the returned channel until Stop is called or ctx is cancelled.
	Watch(ctx context.Context, rootPath string) (<-chan FileChangeEvent, error)

	// Stop halts file watching and closes all channels.
	Stop() error
}

// FileChangeEvent describes a change detected by the file watcher.
type FileChangeEvent struct {
	Path string
	Op   string // create, write, remove, rename, chmod
}

// Logger defines the interface for structured logging, backed by zap.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, err error, keysAndValues ...any)
	WithContext(ctx context.Context) Logger
	WithFields(keysAndValues ...any) Logger
}

// ProgressReporter communicates progress to the user during long-running
// CLI operations (project scan, diff materialization, dbt runs).
type ProgressReporter interface {
	ReportProgress(step string, current int, total int, message string)
	ReportError(err error)
	ReportSuccess(message string)
	ReportInfo(message string)
}

// OutputEncoder serializes graph/impact/diff results to JSON or TOON.
type OutputEncoder interface {
	EncodeJSON(value any) ([]byte, error)
	EncodeTOON(value any) ([]byte, error)
	DecodeJSON(data []byte, value any) error
	DecodeTOON(data []byte, value any) error
}

// ConfigLoader loads and persists this tool's own dbt-lineage.toml
// configuration, layered over XDG global config.
type ConfigLoader interface {
	LoadConfig(ctx context.Context, projectRoot string) (*entities.ToolConfig, error)
	SaveConfig(ctx context.Context, projectRoot string, config *entities.ToolConfig) error
}

// PathResolver resolves XDG-compliant paths for application data.
type PathResolver interface {
	ConfigDir() string
	DataDir() string
	CacheDir() string
	ConfigFile() string
	ThemesDir() string
}

// ThemeLoader loads and lists available TUI/SVG color themes.
type ThemeLoader interface {
	LoadTheme(ctx context.Context, name string) (*entities.Theme, error)
	ListThemes(ctx context.Context) ([]string, error)
}

// DiagramRenderer shells out to the d2 layout/compile pipeline to turn D2
// source into SVG (used by the svg/html renderers).
type DiagramRenderer interface {
	RenderDiagram(ctx context.Context, d2Source string) (svgContent string, err error)
	RenderDiagramWithTimeout(ctx context.Context, d2Source string, timeoutSec int) (svgContent string, err error)
	IsAvailable() bool
}

// PDFRenderer converts a rendered HTML report to PDF by shelling out to an
// external binary; optional, callers must check IsAvailable.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, htmlPath string, outputPath string) error
	IsAvailable() bool
}

// ReportFormatter formats impact/diff/validation results for terminal
// display.
type ReportFormatter interface {
	PrintImpactReport(result *entities.ImpactResult)
	PrintDiffReport(diff *entities.Diff)
	PrintBuildReport(stats BuildStats)
}

// BuildStats holds statistics from a graph build for reporting.
type BuildStats struct {
	NodeCount    int
	EdgeCount    int
	PhantomCount int
	Duration     time.Duration
	Format       string
}
