package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/dbtrun"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/filesystem"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/manifest"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/renderers"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/tui"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// runInteractiveTUI opens the bubbletea explorer over sg, using the ascii
// renderer and the shared sugiyama layout engine for the viewport content.
// It also wires C12's run orchestrator (so the `x` run menu can actually
// invoke dbt) and a filesystem watcher (so a run_results.json rewritten by
// a dbt invocation outside this session reloads run status live).
func runInteractiveTUI(_ context.Context, sg *entities.SubGraph, toolConfig *entities.ToolConfig) error {
	orchestrator := dbtrun.NewOrchestrator(manifest.NewLoader())

	var watcher usecases.FileWatcher
	if w, err := filesystem.NewFileWatcher(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file watcher unavailable, run status won't auto-reload: %v\n", err)
	} else {
		watcher = w
	}

	model := tui.New(sg, sugiyamaEngine(), renderers.NewAsciiRenderer(), toolConfig.ToLayoutOptions(), orchestrator, watcher, ProjectRoot)
	return tui.Run(model)
}
