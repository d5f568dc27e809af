package usecases

import (
	"context"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// ComputeDiff is the concrete DiffEngine (C7): it materializes baseRef and
// headRef via a VCSMaterializer, rebuilds a Graph at each revision through
// the same ProjectLoader/SQLYAMLExtractor/GraphBuilder pipeline the normal
// build path uses, and hands the two graphs plus their content hashes to
// entities.NewDiff.
//
// Grounded on the teacher's detect_drift use case, which compared two
// loaded states through the same loader pipeline rather than a
// revision-aware API of its own.
type ComputeDiff struct {
	vcs       VCSMaterializer
	project   ProjectLoader
	extractor SQLYAMLExtractor
	builder   GraphBuilder
}

// NewComputeDiff returns a ready-to-use ComputeDiff use case.
func NewComputeDiff(vcs VCSMaterializer, project ProjectLoader, extractor SQLYAMLExtractor, builder GraphBuilder) *ComputeDiff {
	return &ComputeDiff{vcs: vcs, project: project, extractor: extractor, builder: builder}
}

// Diff implements DiffEngine.
func (c *ComputeDiff) Diff(ctx context.Context, projectRoot, baseRef, headRef string) (*entities.Diff, error) {
	gBase, hashBase, err := c.buildAt(ctx, projectRoot, baseRef)
	if err != nil {
		return nil, err
	}
	gHead, hashHead, err := c.buildAt(ctx, projectRoot, headRef)
	if err != nil {
		return nil, err
	}
	return entities.NewDiff(baseRef, headRef, gBase, gHead, hashBase, hashHead), nil
}

// buildAt materializes ref (empty string means the working tree, which is
// used in place with a no-op cleanup) and runs the standard load/extract/
// build pipeline against it.
func (c *ComputeDiff) buildAt(ctx context.Context, projectRoot, ref string) (*entities.Graph, map[string]string, error) {
	path, cleanup, err := c.vcs.Materialize(ctx, projectRoot, ref)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	cfg, err := c.project.LoadProject(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	dirs := append([]string{}, cfg.ModelPaths...)
	dirs = append(dirs, cfg.SeedPaths...)
	dirs = append(dirs, cfg.SnapshotPaths...)

	result, err := c.extractor.Extract(ctx, path, dirs)
	if err != nil {
		return nil, nil, err
	}

	g, err := c.builder.Build(ctx, result)
	if err != nil {
		return nil, nil, err
	}

	return g, result.ContentHashes, nil
}
