package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/filesystem"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/manifest"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// buildOptions collects the flags that influence how buildGraph assembles
// a Graph, independent of which subcommand is running.
type buildOptions struct {
	projectRoot  string
	manifestPath string
	include      usecases.KindInclude
}

// buildGraph runs C1-C4: load the project (or manifest), extract nodes and
// edges, and unify them into one acyclic Graph. It mirrors the teacher's
// own "compose ports, never reimplement construction" use-case shape.
func buildGraph(ctx context.Context, opts buildOptions) (*entities.Graph, usecases.BuildStats, error) {
	start := time.Now()

	extractor := filesystem.NewExtractor()
	builder := usecases.NewBuildGraph()
	kindFilter := usecases.NewFilterSubgraph()

	var results []usecases.ExtractResult

	if opts.manifestPath != "" {
		manifestResult, err := manifest.NewLoader().LoadManifest(ctx, opts.manifestPath)
		if err != nil {
			return nil, usecases.BuildStats{}, err
		}
		results = append(results, manifestResult)
	} else {
		projectLoader := filesystem.NewProjectLoader()
		projectConfig, err := projectLoader.LoadProject(ctx, opts.projectRoot)
		if err != nil {
			return nil, usecases.BuildStats{}, err
		}

		dirs := append([]string{}, projectConfig.ModelPaths...)
		dirs = append(dirs, projectConfig.SeedPaths...)
		dirs = append(dirs, projectConfig.SnapshotPaths...)
		dirs = append(dirs, projectConfig.AnalysisPaths...)

		extractResult, err := extractor.Extract(ctx, opts.projectRoot, dirs)
		if err != nil {
			return nil, usecases.BuildStats{}, err
		}
		results = append(results, extractResult)
	}

	g, err := builder.Build(ctx, results...)
	if err != nil {
		return nil, usecases.BuildStats{}, err
	}

	g = kindFilter.FilterByKind(g, opts.include)

	phantoms := 0
	for _, id := range g.SortedIDs() {
		if node, ok := g.GetNode(id); ok && node.Kind == entities.KindPhantom {
			phantoms++
		}
	}

	stats := usecases.BuildStats{
		NodeCount:    len(g.SortedIDs()),
		EdgeCount:    len(g.Edges),
		PhantomCount: phantoms,
		Duration:     time.Since(start),
	}
	return g, stats, nil
}

// resolveManifestPath returns the effective manifest.json path: the
// explicit --manifest flag if set, otherwise the tool config's own
// default, otherwise empty (meaning "scan SQL/YAML directly").
func resolveManifestPath(flagValue, configValue, projectRoot string) string {
	switch {
	case flagValue != "":
		return flagValue
	case configValue != "":
		return configValue
	default:
		return ""
	}
}

// absProjectRoot resolves projectRoot to an absolute path for error
// messages and VCS materialization, falling back to the given value on
// failure.
func absProjectRoot(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return projectRoot
	}
	return abs
}

// exitCodeFor maps a pipeline error to the process exit code the CLI
// should return, per spec's exit-code contract.
func exitCodeFor(err error) int {
	if err == nil {
		return int(entities.ExitOK)
	}
	if coded, ok := err.(entities.CodedError); ok {
		return int(coded.Code())
	}
	return int(entities.ExitGeneralFailure)
}
