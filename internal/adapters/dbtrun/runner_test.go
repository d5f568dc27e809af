package dbtrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

type fakeManifestLoader struct {
	runResults map[string]entities.RunStatus
	err        error
}

func (f *fakeManifestLoader) LoadManifest(ctx context.Context, path string) (usecases.ExtractResult, error) {
	return usecases.ExtractResult{}, nil
}

func (f *fakeManifestLoader) LoadCatalog(ctx context.Context, path string) (map[string][]entities.Column, error) {
	return nil, nil
}

func (f *fakeManifestLoader) LoadRunResults(ctx context.Context, path string) (map[string]entities.RunStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.runResults, nil
}

func TestDetectRunner_NoRunnersOnPathReturnsRunnerNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	o := NewOrchestrator(&fakeManifestLoader{})
	_, err := o.DetectRunner(t.TempDir())
	if _, ok := err.(*entities.RunnerNotFoundError); !ok {
		t.Errorf("got %T, want *entities.RunnerNotFoundError", err)
	}
}

func TestRun_UnknownCommandYieldsErrorChannel(t *testing.T) {
	o := NewOrchestrator(&fakeManifestLoader{})
	runner := usecases.RunnerCommand{Command: "dbt-command-that-does-not-exist-xyz"}

	lines, errs := o.Run(context.Background(), runner, usecases.RunActionRun, "tag:finance")

	var gotErr error
	for gotErr == nil {
		select {
		case _, ok := <-lines:
			if !ok {
				lines = nil
			}
		case e, ok := <-errs:
			if ok {
				gotErr = e
			} else {
				errs = nil
			}
		}
		if lines == nil && errs == nil {
			break
		}
	}
	if gotErr == nil {
		t.Fatal("expected an error for an unresolvable command")
	}
}

func TestRefreshRunStatus_AppliesStatusesToMatchingNodes(t *testing.T) {
	g := entities.NewGraph()
	g.AddNode(entities.NewNode("model.orders", "orders", entities.KindModel))

	loader := &fakeManifestLoader{runResults: map[string]entities.RunStatus{
		"model.orders": entities.RunStatusSuccess,
	}}
	o := NewOrchestrator(loader)

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "target"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := o.RefreshRunStatus(context.Background(), g, dir); err != nil {
		t.Fatalf("RefreshRunStatus failed: %v", err)
	}

	node, _ := g.GetNode("model.orders")
	if node.RunStatus != entities.RunStatusSuccess {
		t.Errorf("RunStatus = %v, want Success", node.RunStatus)
	}
}
